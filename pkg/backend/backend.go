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

// Package backend owns the channel to the remote signing backend. It exposes
// key management and cryptographic operations as typed request/response
// calls with classified failures, hiding transport concerns from sessions.
// Implementations must be safe for concurrent use without external locking
// and must not serialize independent calls.
package backend

import "context"

// Client is the typed interface to the remote signing backend. Every call
// is bounded by the configured per-call timeout; on expiry the call fails
// with ErrBackendTimeout and the in-flight request is cancelled.
type Client interface {
	// GenerateKey creates a key pair on the backend and returns its public
	// description. Fails with ErrKeyAlreadyExists for a duplicate id.
	GenerateKey(ctx context.Context, req *GenerateKeyRequest) (*KeyInfo, error)

	// GetKey returns the public description of a backend-held key.
	// Fails with ErrKeyNotFound.
	GetKey(ctx context.Context, keyID string) (*KeyInfo, error)

	// ListKeys returns the backend's key inventory.
	ListKeys(ctx context.Context) ([]KeyInfo, error)

	// DeleteKey removes a key from the backend. Fails with ErrKeyNotFound.
	DeleteKey(ctx context.Context, keyID string) error

	// Sign signs the request data and returns the signature bytes. Fails
	// with ErrKeyNotFound, ErrOperationNotPermitted, ErrBackendTimeout,
	// ErrBackendUnavailable, or ErrBackendInternal.
	Sign(ctx context.Context, req *SignRequest) ([]byte, error)

	// VerifySignature verifies a signature. A well-formed but invalid
	// signature returns false without error.
	VerifySignature(ctx context.Context, req *VerifyRequest) (bool, error)

	// Decrypt decrypts the request ciphertext. Same failure modes as Sign,
	// substituting the decrypt capability.
	Decrypt(ctx context.Context, req *DecryptRequest) ([]byte, error)

	// Encrypt encrypts plaintext to a key's public half.
	Encrypt(ctx context.Context, req *EncryptRequest) ([]byte, error)

	// PerformKeyExchange derives a shared secret between a held EC private
	// key and the peer public key in the request.
	PerformKeyExchange(ctx context.Context, req *KeyExchangeRequest) ([]byte, error)

	// TestConnection probes backend liveness. It returns false rather than
	// an error on failure and is never used mid-operation.
	TestConnection(ctx context.Context) bool

	// Close releases the client's connection resources.
	Close() error
}
