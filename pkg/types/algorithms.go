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

package types

// =============================================================================
// Algorithm Identifier Constants
// =============================================================================
// The supported algorithm vocabulary is a fixed enumeration. The parameter
// mapper in pkg/params is total over these constants and fails closed for
// anything outside them.

// SignatureAlgorithm identifies a signing algorithm variant.
type SignatureAlgorithm string

const (
	// SignatureRSAPKCS1SHA256 is RSASSA-PKCS1-v1_5 over SHA-256.
	SignatureRSAPKCS1SHA256 SignatureAlgorithm = "RSA-PKCS1-SHA256"

	// SignatureRSAPKCS1SHA384 is RSASSA-PKCS1-v1_5 over SHA-384.
	SignatureRSAPKCS1SHA384 SignatureAlgorithm = "RSA-PKCS1-SHA384"

	// SignatureRSAPKCS1SHA512 is RSASSA-PKCS1-v1_5 over SHA-512.
	SignatureRSAPKCS1SHA512 SignatureAlgorithm = "RSA-PKCS1-SHA512"

	// SignatureECDSAX962SHA256 is ECDSA with X9.62 encoding over SHA-256.
	SignatureECDSAX962SHA256 SignatureAlgorithm = "ECDSA-X962-SHA256"

	// SignatureECDSAX962SHA384 is ECDSA with X9.62 encoding over SHA-384.
	SignatureECDSAX962SHA384 SignatureAlgorithm = "ECDSA-X962-SHA384"

	// SignatureECDSAX962SHA512 is ECDSA with X9.62 encoding over SHA-512.
	SignatureECDSAX962SHA512 SignatureAlgorithm = "ECDSA-X962-SHA512"
)

// SignatureAlgorithms returns the supported signature algorithms in stable
// order.
func SignatureAlgorithms() []SignatureAlgorithm {
	return []SignatureAlgorithm{
		SignatureRSAPKCS1SHA256,
		SignatureRSAPKCS1SHA384,
		SignatureRSAPKCS1SHA512,
		SignatureECDSAX962SHA256,
		SignatureECDSAX962SHA384,
		SignatureECDSAX962SHA512,
	}
}

// String returns the string representation.
func (a SignatureAlgorithm) String() string {
	return string(a)
}

// EncryptionAlgorithm identifies an asymmetric encryption algorithm variant.
type EncryptionAlgorithm string

const (
	// EncryptionRSAOAEPSHA256 is RSA-OAEP with SHA-256.
	EncryptionRSAOAEPSHA256 EncryptionAlgorithm = "RSA-OAEP-SHA256"

	// EncryptionRSAOAEPSHA384 is RSA-OAEP with SHA-384.
	EncryptionRSAOAEPSHA384 EncryptionAlgorithm = "RSA-OAEP-SHA384"

	// EncryptionRSAOAEPSHA512 is RSA-OAEP with SHA-512.
	EncryptionRSAOAEPSHA512 EncryptionAlgorithm = "RSA-OAEP-SHA512"

	// EncryptionRSAPKCS1 is RSAES-PKCS1-v1_5. No hash is involved.
	EncryptionRSAPKCS1 EncryptionAlgorithm = "RSA-PKCS1"
)

// EncryptionAlgorithms returns the supported encryption algorithms in stable
// order.
func EncryptionAlgorithms() []EncryptionAlgorithm {
	return []EncryptionAlgorithm{
		EncryptionRSAOAEPSHA256,
		EncryptionRSAOAEPSHA384,
		EncryptionRSAOAEPSHA512,
		EncryptionRSAPKCS1,
	}
}

// String returns the string representation.
func (a EncryptionAlgorithm) String() string {
	return string(a)
}

// KeyExchangeAlgorithm identifies a key agreement algorithm.
type KeyExchangeAlgorithm string

const (
	// KeyExchangeECDH is standard ECDH key agreement. The curve is implied
	// by the key, not the algorithm.
	KeyExchangeECDH KeyExchangeAlgorithm = "ECDH"
)

// KeyExchangeAlgorithms returns the supported key exchange algorithms.
func KeyExchangeAlgorithms() []KeyExchangeAlgorithm {
	return []KeyExchangeAlgorithm{KeyExchangeECDH}
}

// String returns the string representation.
func (a KeyExchangeAlgorithm) String() string {
	return string(a)
}

// HashAlgorithm identifies a hash used inside signing or OAEP parameters.
type HashAlgorithm string

const (
	// HashSHA256 is SHA-256.
	HashSHA256 HashAlgorithm = "SHA-256"

	// HashSHA384 is SHA-384.
	HashSHA384 HashAlgorithm = "SHA-384"

	// HashSHA512 is SHA-512.
	HashSHA512 HashAlgorithm = "SHA-512"
)

// String returns the string representation.
func (h HashAlgorithm) String() string {
	return string(h)
}

// RSAPadding identifies an RSA padding scheme on the backend wire.
type RSAPadding string

const (
	// RSAPaddingPKCS1 is PKCS#1 v1.5 padding.
	RSAPaddingPKCS1 RSAPadding = "PKCS1"

	// RSAPaddingOAEP is OAEP padding.
	RSAPaddingOAEP RSAPadding = "OAEP"
)

// String returns the string representation.
func (p RSAPadding) String() string {
	return string(p)
}
