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

package backend

import (
	"github.com/jeremyhahn/go-cryptotoken/pkg/params"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// WireVersion is the request message version this client speaks.
const WireVersion = 1

// SignRequest asks the backend to sign data with a held private key.
type SignRequest struct {
	Version           int                      `json:"version"`
	KeyID             string                   `json:"key_id"`
	Data              []byte                   `json:"data"`
	IsPrehashed       bool                     `json:"is_prehashed"`
	SigningParameters params.SigningParameters `json:"signing_parameters"`
}

// SignResponse carries the signature bytes.
type SignResponse struct {
	Signature []byte `json:"signature"`
}

// VerifyRequest asks the backend to verify a signature.
type VerifyRequest struct {
	Version           int                      `json:"version"`
	KeyID             string                   `json:"key_id"`
	Data              []byte                   `json:"data"`
	Signature         []byte                   `json:"signature"`
	SigningParameters params.SigningParameters `json:"signing_parameters"`
}

// VerifyResponse carries the verification result. A well-formed but invalid
// signature yields Valid=false, never an error.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// DecryptRequest asks the backend to decrypt ciphertext with a held private
// key.
type DecryptRequest struct {
	Version              int                         `json:"version"`
	KeyID                string                      `json:"key_id"`
	Ciphertext           []byte                      `json:"ciphertext"`
	EncryptionParameters params.EncryptionParameters `json:"encryption_parameters"`
}

// DecryptResponse carries the recovered plaintext.
type DecryptResponse struct {
	Plaintext []byte `json:"plaintext"`
}

// EncryptRequest asks the backend to encrypt plaintext to a key's public
// half.
type EncryptRequest struct {
	Version              int                         `json:"version"`
	KeyID                string                      `json:"key_id"`
	Plaintext            []byte                      `json:"plaintext"`
	EncryptionParameters params.EncryptionParameters `json:"encryption_parameters"`
}

// EncryptResponse carries the ciphertext.
type EncryptResponse struct {
	Ciphertext []byte `json:"ciphertext"`
}

// KeyExchangeRequest asks the backend to derive a shared secret between a
// held EC private key and a peer's public key.
type KeyExchangeRequest struct {
	Version       int                          `json:"version"`
	KeyID         string                       `json:"key_id"`
	PeerPublicKey []byte                       `json:"peer_public_key"`
	Parameters    params.KeyExchangeParameters `json:"parameters"`
}

// KeyExchangeResponse carries the raw shared secret. Its length equals the
// curve's field size.
type KeyExchangeResponse struct {
	SharedSecret []byte `json:"shared_secret"`
}

// GenerateKeyRequest asks the backend to generate a key pair. The private
// half never leaves the backend.
type GenerateKeyRequest struct {
	Version      int                `json:"version"`
	KeyID        string             `json:"key_id"`
	KeyType      types.KeyType      `json:"key_type"`
	KeySizeBits  int                `json:"key_size_bits"`
	Label        string             `json:"label,omitempty"`
	Capabilities types.Capabilities `json:"capabilities"`
}

// KeyInfo describes a backend-held key.
type KeyInfo struct {
	KeyID        string             `json:"key_id"`
	KeyType      types.KeyType      `json:"key_type"`
	KeySizeBits  int                `json:"key_size_bits"`
	Label        string             `json:"label,omitempty"`
	PublicKey    []byte             `json:"public_key,omitempty"`
	Capabilities types.Capabilities `json:"capabilities"`
}

// ListKeysResponse carries the backend's key inventory.
type ListKeysResponse struct {
	Keys []KeyInfo `json:"keys"`
}

// HealthResponse carries the liveness probe result.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the structured error envelope returned by the backend
// when it explicitly rejects a request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
