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

// Package store provides the metadata store consumed by token sessions:
// the local record-keeper of public key attributes and capability flags,
// separate from the backend holding private material. Implementations must
// be safe for concurrent reads.
package store

import (
	"context"
	"errors"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

var (
	// ErrNotFound is returned when no record exists for the identifier.
	ErrNotFound = errors.New("store: key not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("store: closed")

	// ErrPrivateKeyNotAccepted is returned when a caller attempts to
	// persist private key material. The store records public attributes
	// only; private material stays with the backend.
	ErrPrivateKeyNotAccepted = errors.New("store: private key material not accepted")

	// ErrInvalidMetadata is returned when a write is attempted with nil
	// metadata.
	ErrInvalidMetadata = errors.New("store: invalid key metadata")
)

// MetadataStore records public key attributes and capability flags.
type MetadataStore interface {
	// KeyExists reports whether a record exists for the identifier.
	KeyExists(ctx context.Context, id types.KeyObjectID) (bool, error)

	// GetMetadata returns the record for the identifier, or ErrNotFound.
	GetMetadata(ctx context.Context, id types.KeyObjectID) (*types.KeyMetadata, error)

	// GetAllKeyIDs enumerates every recorded identifier.
	GetAllKeyIDs(ctx context.Context) ([]types.KeyObjectID, error)

	// StoreKeyPair records a key's public half and metadata under the
	// identifier. privateKey must be empty; non-empty private material is
	// rejected with ErrPrivateKeyNotAccepted. A nil meta is rejected with
	// ErrInvalidMetadata.
	StoreKeyPair(ctx context.Context, publicKey, privateKey []byte, meta *types.KeyMetadata, id types.KeyObjectID) error

	// DeleteKey removes the record, or returns ErrNotFound.
	DeleteKey(ctx context.Context, id types.KeyObjectID) error

	// Close releases any resources held by the store.
	Close() error
}
