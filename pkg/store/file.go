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
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

const recordExtension = ".json"

// FileStore persists key metadata as JSON records under a directory, one
// file per key object. Record files are created with 0600 permissions.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// compile-time interface check
var _ MetadataStore = (*FileStore)(nil)

// NewFileStore creates (if needed) the record directory and returns a store
// over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("store: failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// recordPath maps an opaque identifier to a filesystem-safe record path.
func (s *FileStore) recordPath(id types.KeyObjectID) string {
	return filepath.Join(s.dir, url.PathEscape(id.String())+recordExtension)
}

// KeyExists reports whether a record file exists for the identifier.
func (s *FileStore) KeyExists(ctx context.Context, id types.KeyObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}

	_, err := os.Stat(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("store: stat failed: %w", err)
	}
	return true, nil
}

// GetMetadata loads and decodes the record for the identifier.
func (s *FileStore) GetMetadata(ctx context.Context, id types.KeyObjectID) (*types.KeyMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read failed: %w", err)
	}

	var meta types.KeyMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("store: corrupt record for %q: %w", id, err)
	}
	return &meta, nil
}

// GetAllKeyIDs enumerates record files in the directory.
func (s *FileStore) GetAllKeyIDs(ctx context.Context) ([]types.KeyObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: enumeration failed: %w", err)
	}

	ids := make([]types.KeyObjectID, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), recordExtension)
		id, err := url.PathUnescape(name)
		if err != nil {
			// Not one of our records.
			continue
		}
		ids = append(ids, types.KeyObjectID(id))
	}
	return ids, nil
}

// StoreKeyPair writes the record for the identifier. Private material is
// rejected.
func (s *FileStore) StoreKeyPair(ctx context.Context, publicKey, privateKey []byte, meta *types.KeyMetadata, id types.KeyObjectID) error {
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

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("store: failed to encode record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(id), data, 0600); err != nil {
		return fmt.Errorf("store: write failed: %w", err)
	}
	return nil
}

// DeleteKey removes the record file for the identifier.
func (s *FileStore) DeleteKey(ctx context.Context, id types.KeyObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("store: delete failed: %w", err)
	}
	return nil
}

// Close marks the store closed. Record files remain on disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
