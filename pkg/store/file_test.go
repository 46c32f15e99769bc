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
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	meta := testMetadata("key-1")
	meta.PublicKey = []byte{0x04, 0x01, 0x02}
	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, meta, "key-1"))

	got, err := s.GetMetadata(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, meta.KeyType, got.KeyType)
	assert.Equal(t, meta.Label, got.Label)
	assert.Equal(t, meta.PublicKey, got.PublicKey)
	assert.Equal(t, meta.Capabilities, got.Capabilities)
	assert.Equal(t, meta.ApplicationTag, got.ApplicationTag)
}

func TestFileStore_RecordPermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.StoreKeyPair(context.Background(), nil, nil, testMetadata("key-1"), "key-1"))

	info, err := os.Stat(filepath.Join(dir, "key-1.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_PathHostileIdentifier(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	id := types.KeyObjectID("../weird/id with spaces")
	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata(id), id))

	exists, err := s.KeyExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	ids, err := s.GetAllKeyIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, id)

	require.NoError(t, s.DeleteKey(ctx, id))
}

func TestFileStore_Get_NotFound(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.GetMetadata(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_GetAllKeyIDs(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	ids, err := s.GetAllKeyIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"))
	require.NoError(t, s.StoreKeyPair(ctx, nil, nil, testMetadata("key-2"), "key-2"))

	ids, err = s.GetAllKeyIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.KeyObjectID{"key-1", "key-2"}, ids)
}

func TestFileStore_RejectsPrivateKeyMaterial(t *testing.T) {
	s := newTestFileStore(t)

	err := s.StoreKeyPair(context.Background(), nil, []byte("private"), testMetadata("key-1"), "key-1")
	assert.ErrorIs(t, err, ErrPrivateKeyNotAccepted)
}

func TestFileStore_RejectsNilMetadata(t *testing.T) {
	s := newTestFileStore(t)

	err := s.StoreKeyPair(context.Background(), []byte{0x01}, nil, nil, "key-1")
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestFileStore_DeleteKey_NotFound(t *testing.T) {
	s := newTestFileStore(t)
	assert.ErrorIs(t, s.DeleteKey(context.Background(), "missing"), ErrNotFound)
}

func TestFileStore_Closed(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, s.Close())

	_, err := s.GetMetadata(context.Background(), "key-1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.StoreKeyPair(ctx, nil, nil, testMetadata("key-1"), "key-1"))
	require.NoError(t, s1.Close())

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	got, err := s2.GetMetadata(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "test key", got.Label)
}
