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

// Package mocks provides a hand-written metadata store mock with per-method
// overrides and call tracking for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/jeremyhahn/go-cryptotoken/pkg/store"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// MockStore is a mock implementation of store.MetadataStore backed by an
// in-memory map. Each method can be overridden with its XxxFunc field, and
// calls are tracked for assertions.
type MockStore struct {
	mu sync.Mutex

	records map[types.KeyObjectID]*types.KeyMetadata

	// Configurable behavior
	KeyExistsFunc    func(ctx context.Context, id types.KeyObjectID) (bool, error)
	GetMetadataFunc  func(ctx context.Context, id types.KeyObjectID) (*types.KeyMetadata, error)
	GetAllKeyIDsFunc func(ctx context.Context) ([]types.KeyObjectID, error)
	StoreKeyPairFunc func(ctx context.Context, publicKey, privateKey []byte, meta *types.KeyMetadata, id types.KeyObjectID) error
	DeleteKeyFunc    func(ctx context.Context, id types.KeyObjectID) error
	CloseFunc        func() error

	// Call tracking
	KeyExistsCalls    []types.KeyObjectID
	GetMetadataCalls  []types.KeyObjectID
	GetAllKeyIDsCalls int
	StoreKeyPairCalls []types.KeyObjectID
	DeleteKeyCalls    []types.KeyObjectID
	CloseCalls        int
}

// compile-time interface check
var _ store.MetadataStore = (*MockStore)(nil)

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		records: make(map[types.KeyObjectID]*types.KeyMetadata),
	}
}

// AddKey seeds a record without going through StoreKeyPair.
func (m *MockStore) AddKey(meta *types.KeyMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[meta.ID] = meta.Clone()
}

// KeyExists reports whether a record exists.
func (m *MockStore) KeyExists(ctx context.Context, id types.KeyObjectID) (bool, error) {
	m.mu.Lock()
	m.KeyExistsCalls = append(m.KeyExistsCalls, id)
	fn := m.KeyExistsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.records[id]
	return exists, nil
}

// GetMetadata returns the seeded record or store.ErrNotFound.
func (m *MockStore) GetMetadata(ctx context.Context, id types.KeyObjectID) (*types.KeyMetadata, error) {
	m.mu.Lock()
	m.GetMetadataCalls = append(m.GetMetadataCalls, id)
	fn := m.GetMetadataFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	meta, exists := m.records[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return meta.Clone(), nil
}

// GetAllKeyIDs enumerates seeded identifiers.
func (m *MockStore) GetAllKeyIDs(ctx context.Context) ([]types.KeyObjectID, error) {
	m.mu.Lock()
	m.GetAllKeyIDsCalls++
	fn := m.GetAllKeyIDsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]types.KeyObjectID, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// StoreKeyPair records metadata; private material is rejected like the real
// implementations.
func (m *MockStore) StoreKeyPair(ctx context.Context, publicKey, privateKey []byte, meta *types.KeyMetadata, id types.KeyObjectID) error {
	m.mu.Lock()
	m.StoreKeyPairCalls = append(m.StoreKeyPairCalls, id)
	fn := m.StoreKeyPairFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, publicKey, privateKey, meta, id)
	}

	if meta == nil {
		return store.ErrInvalidMetadata
	}
	if len(privateKey) > 0 {
		return store.ErrPrivateKeyNotAccepted
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	record := meta.Clone()
	record.ID = id
	if len(publicKey) > 0 && len(record.PublicKey) == 0 {
		record.PublicKey = append([]byte(nil), publicKey...)
	}
	m.records[id] = record
	return nil
}

// DeleteKey removes a seeded record.
func (m *MockStore) DeleteKey(ctx context.Context, id types.KeyObjectID) error {
	m.mu.Lock()
	m.DeleteKeyCalls = append(m.DeleteKeyCalls, id)
	fn := m.DeleteKeyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[id]; !exists {
		return store.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Close tracks the call.
func (m *MockStore) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	fn := m.CloseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return nil
}
