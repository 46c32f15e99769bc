// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptotoken.
//
// go-cryptotoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package types defines the shared data model for the token provider:
// key object identifiers, key metadata, capability flags, and the fixed
// algorithm vocabulary understood by the parameter mapper.
package types

// KeyObjectID is an opaque identifier for a key object. It is unique within
// a token's key namespace and stable across calls. The id joins Metadata
// Store records, key object projections, and backend requests.
type KeyObjectID string

// String returns the string representation.
func (id KeyObjectID) String() string {
	return string(id)
}

// Valid reports whether the identifier is well-formed. Identifiers are
// opaque, but an empty id can never address a key.
func (id KeyObjectID) Valid() bool {
	return len(id) > 0
}

// KeyClass determines attribute defaults and operation eligibility.
type KeyClass string

const (
	// KeyClassPublic marks a public key record.
	KeyClassPublic KeyClass = "public"

	// KeyClassPrivate marks a private key record. The private material
	// itself always remains with the backend.
	KeyClassPrivate KeyClass = "private"
)

// String returns the string representation.
func (c KeyClass) String() string {
	return string(c)
}

// Valid reports whether the class is one of the two known classes.
func (c KeyClass) Valid() bool {
	return c == KeyClassPublic || c == KeyClassPrivate
}

// KeyType identifies the cryptographic key family.
type KeyType string

const (
	// KeyTypeRSA is an RSA key.
	KeyTypeRSA KeyType = "RSA"

	// KeyTypeECP256 is an EC key on NIST P-256.
	KeyTypeECP256 KeyType = "EC-P256"

	// KeyTypeECP384 is an EC key on NIST P-384.
	KeyTypeECP384 KeyType = "EC-P384"

	// KeyTypeECP521 is an EC key on NIST P-521.
	KeyTypeECP521 KeyType = "EC-P521"
)

// KeyTypes returns all known key types in stable order.
func KeyTypes() []KeyType {
	return []KeyType{KeyTypeRSA, KeyTypeECP256, KeyTypeECP384, KeyTypeECP521}
}

// String returns the string representation.
func (t KeyType) String() string {
	return string(t)
}

// Valid reports whether the key type is known.
func (t KeyType) Valid() bool {
	switch t {
	case KeyTypeRSA, KeyTypeECP256, KeyTypeECP384, KeyTypeECP521:
		return true
	default:
		return false
	}
}

// ValidSize reports whether bits is a legal key size for the type.
func (t KeyType) ValidSize(bits int) bool {
	switch t {
	case KeyTypeRSA:
		return bits == 2048 || bits == 3072 || bits == 4096
	case KeyTypeECP256:
		return bits == 256
	case KeyTypeECP384:
		return bits == 384
	case KeyTypeECP521:
		return bits == 521
	default:
		return false
	}
}

// SharedSecretSize returns the byte length of an ECDH shared secret for EC
// key types (the curve field size), or 0 for key types that do not support
// key exchange.
func (t KeyType) SharedSecretSize() int {
	switch t {
	case KeyTypeECP256:
		return 32
	case KeyTypeECP384:
		return 48
	case KeyTypeECP521:
		return 66
	default:
		return 0
	}
}

// Operation is an operation category a key object supports.
type Operation string

const (
	// OperationSign produces signatures with the key.
	OperationSign Operation = "sign"

	// OperationDecrypt decrypts ciphertext with the key.
	OperationDecrypt Operation = "decrypt"

	// OperationKeyExchange derives a shared secret with the key.
	OperationKeyExchange Operation = "key-exchange"
)

// String returns the string representation.
func (o Operation) String() string {
	return string(o)
}

// Capabilities are the operation categories permitted for a key. They are
// set by the issuer (backend or store) at creation time; the session only
// reads them.
type Capabilities struct {
	Sign    bool `json:"sign"`
	Decrypt bool `json:"decrypt"`
	Derive  bool `json:"derive"`
	Verify  bool `json:"verify"`
	Encrypt bool `json:"encrypt"`
	Wrap    bool `json:"wrap"`
	Unwrap  bool `json:"unwrap"`
}

// KeyMetadata is the immutable public description of one key. It carries no
// private key material; PublicKey holds the matching public key bytes when
// known, even for private-key records.
type KeyMetadata struct {
	ID             KeyObjectID  `json:"id"`
	KeyType        KeyType      `json:"key_type"`
	KeySizeBits    int          `json:"key_size_bits"`
	Label          string       `json:"label"`
	KeyClass       KeyClass     `json:"key_class"`
	ApplicationTag []byte       `json:"application_tag,omitempty"`
	PublicKey      []byte       `json:"public_key,omitempty"`
	Capabilities   Capabilities `json:"capabilities"`
}

// Clone returns a deep copy so shared metadata cannot be mutated through a
// caller-held reference.
func (m *KeyMetadata) Clone() *KeyMetadata {
	if m == nil {
		return nil
	}
	cp := *m
	if m.ApplicationTag != nil {
		cp.ApplicationTag = append([]byte(nil), m.ApplicationTag...)
	}
	if m.PublicKey != nil {
		cp.PublicKey = append([]byte(nil), m.PublicKey...)
	}
	return &cp
}

// SessionFormat selects the session flavor requested by the host shell.
// Restricted sessions are offered reduced capability by the shell as a
// convention; the core treats both formats identically.
type SessionFormat string

const (
	// SessionFormatStandard is a full-capability session.
	SessionFormatStandard SessionFormat = "standard"

	// SessionFormatRestricted is a reduced-capability session by host
	// shell convention.
	SessionFormatRestricted SessionFormat = "restricted"
)

// String returns the string representation.
func (f SessionFormat) String() string {
	return string(f)
}

// Valid reports whether the format is known.
func (f SessionFormat) Valid() bool {
	return f == SessionFormatStandard || f == SessionFormatRestricted
}
