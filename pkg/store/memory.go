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

package store

import (
	"context"
	"sync"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// MemoryStore is an in-memory metadata store. Useful for testing and for
// tokens whose metadata is mirrored from the backend at startup.
// Thread-safe using a read-write mutex.
type MemoryStore struct {
	records map[types.KeyObjectID]*types.KeyMetadata
	mu      sync.RWMutex
	closed  bool
}

// compile-time interface check
var _ MetadataStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory metadata store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[types.KeyObjectID]*types.KeyMetadata),
	}
}

// KeyExists reports whether a record exists for the identifier.
func (s *MemoryStore) KeyExists(ctx context.Context, id types.KeyObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}

	_, exists := s.records[id]
	return exists, nil
}

// GetMetadata returns a copy of the record so callers cannot mutate stored
// state.
func (s *MemoryStore) GetMetadata(ctx context.Context, id types.KeyObjectID) (*types.KeyMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	meta, exists := s.records[id]
	if !exists {
		return nil, ErrNotFound
	}
	return meta.Clone(), nil
}

// GetAllKeyIDs enumerates every recorded identifier.
func (s *MemoryStore) GetAllKeyIDs(ctx context.Context) ([]types.KeyObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	ids := make([]types.KeyObjectID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// StoreKeyPair records a key's public half and metadata. Private material is
// rejected.
func (s *MemoryStore) StoreKeyPair(ctx context.Context, publicKey, privateKey []byte, meta *types.KeyMetadata, id types.KeyObjectID) error {
	if meta == nil {
		return ErrInvalidMetadata
	}
	if len(privateKey) > 0 {
		return ErrPrivateKeyNotAccepted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	record := meta.Clone()
	record.ID = id
	if len(publicKey) > 0 && len(record.PublicKey) == 0 {
		record.PublicKey = append([]byte(nil), publicKey...)
	}
	s.records[id] = record
	return nil
}

// DeleteKey removes the record for the identifier.
func (s *MemoryStore) DeleteKey(ctx context.Context, id types.KeyObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, exists := s.records[id]; !exists {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Close releases the store. Subsequent calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.records = nil
	return nil
}
