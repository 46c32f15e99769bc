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

// Package params translates the generic algorithm vocabulary into
// backend wire parameters. Translation is pure and table-driven: every
// algorithm in the supported enumeration maps, and anything outside it
// fails with ErrUnsupportedAlgorithm naming the input. The package never
// silently defaults.
package params

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// ErrUnsupportedAlgorithm is returned when an algorithm is outside the
// supported enumeration.
var ErrUnsupportedAlgorithm = errors.New("params: unsupported algorithm")

// RSAParams carries the RSA padding scheme for a signing request.
type RSAParams struct {
	Padding types.RSAPadding `json:"padding_scheme"`
}

// ECCParams is present for ECDSA signing requests. It is empty because the
// curve is implied by the key, not the algorithm.
type ECCParams struct{}

// SigningParameters are the backend wire parameters for a sign request.
// Exactly one of RSA or ECC is set.
type SigningParameters struct {
	Hash types.HashAlgorithm `json:"hash_algorithm"`
	RSA  *RSAParams          `json:"rsa_params,omitempty"`
	ECC  *ECCParams          `json:"ecc_params,omitempty"`
}

// RSAEncryptionParams carry the padding scheme and, for OAEP, the hash for
// a decrypt or encrypt request.
type RSAEncryptionParams struct {
	Padding  types.RSAPadding    `json:"padding_scheme"`
	OAEPHash types.HashAlgorithm `json:"oaep_hash,omitempty"`
}

// EncryptionParameters are the backend wire parameters for an encrypt or
// decrypt request.
type EncryptionParameters struct {
	RSA RSAEncryptionParams `json:"rsa_params"`
}

// KeyExchangeParameters are the backend wire parameters for a key exchange
// request. ECDH carries no parameters; the curve is implied by the key.
type KeyExchangeParameters struct{}

var signingTable = map[types.SignatureAlgorithm]SigningParameters{
	types.SignatureRSAPKCS1SHA256: {
		Hash: types.HashSHA256,
		RSA:  &RSAParams{Padding: types.RSAPaddingPKCS1},
	},
	types.SignatureRSAPKCS1SHA384: {
		Hash: types.HashSHA384,
		RSA:  &RSAParams{Padding: types.RSAPaddingPKCS1},
	},
	types.SignatureRSAPKCS1SHA512: {
		Hash: types.HashSHA512,
		RSA:  &RSAParams{Padding: types.RSAPaddingPKCS1},
	},
	types.SignatureECDSAX962SHA256: {
		Hash: types.HashSHA256,
		ECC:  &ECCParams{},
	},
	types.SignatureECDSAX962SHA384: {
		Hash: types.HashSHA384,
		ECC:  &ECCParams{},
	},
	types.SignatureECDSAX962SHA512: {
		Hash: types.HashSHA512,
		ECC:  &ECCParams{},
	},
}

var encryptionTable = map[types.EncryptionAlgorithm]EncryptionParameters{
	types.EncryptionRSAOAEPSHA256: {
		RSA: RSAEncryptionParams{Padding: types.RSAPaddingOAEP, OAEPHash: types.HashSHA256},
	},
	types.EncryptionRSAOAEPSHA384: {
		RSA: RSAEncryptionParams{Padding: types.RSAPaddingOAEP, OAEPHash: types.HashSHA384},
	},
	types.EncryptionRSAOAEPSHA512: {
		RSA: RSAEncryptionParams{Padding: types.RSAPaddingOAEP, OAEPHash: types.HashSHA512},
	},
	types.EncryptionRSAPKCS1: {
		RSA: RSAEncryptionParams{Padding: types.RSAPaddingPKCS1},
	},
}

var keyExchangeTable = map[types.KeyExchangeAlgorithm]KeyExchangeParameters{
	types.KeyExchangeECDH: {},
}

// MapSigningParameters translates a signature algorithm into backend wire
// parameters.
func MapSigningParameters(alg types.SignatureAlgorithm) (SigningParameters, error) {
	p, ok := signingTable[alg]
	if !ok {
		return SigningParameters{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	// Copy pointer members so callers cannot mutate the table entries.
	if p.RSA != nil {
		rsa := *p.RSA
		p.RSA = &rsa
	}
	if p.ECC != nil {
		ecc := *p.ECC
		p.ECC = &ecc
	}
	return p, nil
}

// MapEncryptionParameters translates an encryption algorithm into backend
// wire parameters.
func MapEncryptionParameters(alg types.EncryptionAlgorithm) (EncryptionParameters, error) {
	p, ok := encryptionTable[alg]
	if !ok {
		return EncryptionParameters{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return p, nil
}

// MapKeyExchangeParameters translates a key exchange algorithm into backend
// wire parameters.
func MapKeyExchangeParameters(alg types.KeyExchangeAlgorithm) (KeyExchangeParameters, error) {
	p, ok := keyExchangeTable[alg]
	if !ok {
		return KeyExchangeParameters{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return p, nil
}

// SupportedSignatureAlgorithms returns the signature algorithms the mapper
// recognizes, for token capability advertisement.
func SupportedSignatureAlgorithms() []types.SignatureAlgorithm {
	return types.SignatureAlgorithms()
}

// SupportedEncryptionAlgorithms returns the encryption algorithms the mapper
// recognizes.
func SupportedEncryptionAlgorithms() []types.EncryptionAlgorithm {
	return types.EncryptionAlgorithms()
}

// SupportedKeyExchangeAlgorithms returns the key exchange algorithms the
// mapper recognizes.
func SupportedKeyExchangeAlgorithms() []types.KeyExchangeAlgorithm {
	return types.KeyExchangeAlgorithms()
}
