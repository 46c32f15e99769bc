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
	"testing"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata(id types.KeyObjectID) *types.KeyMetadata {
	return &types.KeyMetadata{
		ID:             id,
		KeyType:        types.KeyTypeRSA,
		KeySizeBits:    2048,
		Label:          "test key",
		KeyClass:       types.KeyClassPrivate,
		ApplicationTag: []byte("com.example.token"),
		Capabilities:   types.Capabilities{Sign: true, Verify: true},
	}
}

func TestMemoryStore_StoreAndGet(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	meta := testMetadata("key-1")
	require.NoError(t, s.StoreKeyPair(ctx, []byte{0x30, 0x82}, nil, meta, "key-1"))

	got, err := s.GetMetadata(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, types.KeyObjectID("key-1"), got.ID)
	assert.Equal(t, types.KeyTypeRSA, got.KeyType)
	assert.Equal(t, []byte{0x30, 0x82}, got.PublicKey)
	assert.True(t, got.Capabilities.Sign)
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	_, err := s.GetMetadata(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Get_ReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.StoreKeyPair(ctx, []byte{0x01}, nil, testMetadata("key-1"), "key-1"))

	first, err := s.GetMetadata(ctx, "key-1")
	require.NoError(t, err)
	first.Label = "mutated"
	first.PublicKey[0] = 0xFF

	second, err := s.GetMetadata(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "test key", second.Label)
	assert.Equal(t, byte(0x01), second.PublicKey[0])
}

func TestMemoryStore_RejectsPrivateKeyMaterial(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	err := s.StoreKeyPair(context.Background(), []byte{0x01}, []byte("private"), testMetadata("key-1"), "key-1")
	assert.ErrorIs(t, err, ErrPrivateKeyNotAccepted)

	exists, err := s.KeyExists(context.Background(), "key-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_RejectsNilMetadata(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	err := s.StoreKeyPair(context.Background(), []byte{0x01}, nil, nil, "key-1")
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestMemoryStore_KeyExists(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	exists, err := s.KeyExists(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"))

	exists, err = s.KeyExists(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStore_GetAllKeyIDs_Empty(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()

	ids, err := s.GetAllKeyIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStore_GetAllKeyIDs(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"))
	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-2"), "key-2"))

	ids, err := s.GetAllKeyIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.KeyObjectID{"key-1", "key-2"}, ids)
}

func TestMemoryStore_DeleteKey(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"))
	require.NoError(t, s.DeleteKey(ctx, "key-1"))

	assert.ErrorIs(t, s.DeleteKey(ctx, "key-1"), ErrNotFound)
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	ctx := context.Background()

	_, err := s.KeyExists(ctx, "key-1")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.GetMetadata(ctx, "key-1")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = s.GetAllKeyIDs(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"), ErrClosed)
	assert.ErrorIs(t, s.DeleteKey(ctx, "key-1"), ErrClosed)

	// Closing twice is fine.
	assert.NoError(t, s.Close())
}
