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

// Package mocks provides a hand-written backend client mock with per-method
// overrides and call tracking for tests.
package mocks

import (
	"bytes"
	"context"
	"sync"

	"github.com/jeremyhahn/go-cryptotoken/pkg/backend"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// MockClient is a mock implementation of backend.Client. Keys registered via
// RegisterKey drive the default behavior: Sign returns a deterministic
// signature sized to the key, Decrypt echoes the ciphertext, and capability
// checks fail with backend.ErrOperationNotPermitted. Each method can be
// overridden with its XxxFunc field, and calls are tracked for assertions.
type MockClient struct {
	mu sync.Mutex

	keys map[string]backend.KeyInfo

	// Configurable behavior
	GenerateKeyFunc        func(ctx context.Context, req *backend.GenerateKeyRequest) (*backend.KeyInfo, error)
	GetKeyFunc             func(ctx context.Context, keyID string) (*backend.KeyInfo, error)
	ListKeysFunc           func(ctx context.Context) ([]backend.KeyInfo, error)
	DeleteKeyFunc          func(ctx context.Context, keyID string) error
	SignFunc               func(ctx context.Context, req *backend.SignRequest) ([]byte, error)
	VerifySignatureFunc    func(ctx context.Context, req *backend.VerifyRequest) (bool, error)
	DecryptFunc            func(ctx context.Context, req *backend.DecryptRequest) ([]byte, error)
	EncryptFunc            func(ctx context.Context, req *backend.EncryptRequest) ([]byte, error)
	PerformKeyExchangeFunc func(ctx context.Context, req *backend.KeyExchangeRequest) ([]byte, error)
	TestConnectionFunc     func(ctx context.Context) bool

	// Call tracking
	GenerateKeyCalls        []*backend.GenerateKeyRequest
	GetKeyCalls             []string
	ListKeysCalls           int
	DeleteKeyCalls          []string
	SignCalls               []*backend.SignRequest
	VerifySignatureCalls    []*backend.VerifyRequest
	DecryptCalls            []*backend.DecryptRequest
	EncryptCalls            []*backend.EncryptRequest
	PerformKeyExchangeCalls []*backend.KeyExchangeRequest
	TestConnectionCalls     int
	CloseCalls              int
}

// compile-time interface check
var _ backend.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient with no registered keys.
func NewMockClient() *MockClient {
	return &MockClient{
		keys: make(map[string]backend.KeyInfo),
	}
}

// RegisterKey registers a key that the default behaviors operate on.
func (m *MockClient) RegisterKey(info backend.KeyInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[info.KeyID] = info
}

// BackendCallCount returns the total number of cryptographic operation
// dispatches (sign, decrypt, encrypt, verify, key exchange), for tests that
// assert local validation fails before any backend call.
func (m *MockClient) BackendCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SignCalls) + len(m.DecryptCalls) + len(m.EncryptCalls) +
		len(m.VerifySignatureCalls) + len(m.PerformKeyExchangeCalls)
}

// GenerateKey registers and returns a new key.
func (m *MockClient) GenerateKey(ctx context.Context, req *backend.GenerateKeyRequest) (*backend.KeyInfo, error) {
	m.mu.Lock()
	m.GenerateKeyCalls = append(m.GenerateKeyCalls, req)
	fn := m.GenerateKeyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.keys[req.KeyID]; exists {
		return nil, backend.ErrKeyAlreadyExists
	}
	info := backend.KeyInfo{
		KeyID:        req.KeyID,
		KeyType:      req.KeyType,
		KeySizeBits:  req.KeySizeBits,
		Label:        req.Label,
		Capabilities: req.Capabilities,
	}
	m.keys[req.KeyID] = info
	return &info, nil
}

// GetKey returns a registered key or backend.ErrKeyNotFound.
func (m *MockClient) GetKey(ctx context.Context, keyID string) (*backend.KeyInfo, error) {
	m.mu.Lock()
	m.GetKeyCalls = append(m.GetKeyCalls, keyID)
	fn := m.GetKeyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, keyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[keyID]
	if !exists {
		return nil, backend.ErrKeyNotFound
	}
	return &info, nil
}

// ListKeys returns all registered keys.
func (m *MockClient) ListKeys(ctx context.Context) ([]backend.KeyInfo, error) {
	m.mu.Lock()
	m.ListKeysCalls++
	fn := m.ListKeysFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]backend.KeyInfo, 0, len(m.keys))
	for _, info := range m.keys {
		keys = append(keys, info)
	}
	return keys, nil
}

// DeleteKey removes a registered key.
func (m *MockClient) DeleteKey(ctx context.Context, keyID string) error {
	m.mu.Lock()
	m.DeleteKeyCalls = append(m.DeleteKeyCalls, keyID)
	fn := m.DeleteKeyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, keyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.keys[keyID]; !exists {
		return backend.ErrKeyNotFound
	}
	delete(m.keys, keyID)
	return nil
}

// Sign returns a deterministic mock signature sized to the key: key size in
// bytes for RSA, 2x field size for ECDSA.
func (m *MockClient) Sign(ctx context.Context, req *backend.SignRequest) ([]byte, error) {
	m.mu.Lock()
	m.SignCalls = append(m.SignCalls, req)
	fn := m.SignFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[req.KeyID]
	if !exists {
		return nil, backend.ErrKeyNotFound
	}
	if !info.Capabilities.Sign {
		return nil, backend.ErrOperationNotPermitted
	}
	size := info.KeySizeBits / 8
	if info.KeyType != types.KeyTypeRSA {
		size = 2 * ((info.KeySizeBits + 7) / 8)
	}
	sig := bytes.Repeat([]byte{0xA5}, size)
	return sig, nil
}

// VerifySignature reports whether the signature matches what Sign produces.
func (m *MockClient) VerifySignature(ctx context.Context, req *backend.VerifyRequest) (bool, error) {
	m.mu.Lock()
	m.VerifySignatureCalls = append(m.VerifySignatureCalls, req)
	fn := m.VerifySignatureFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[req.KeyID]
	if !exists {
		return false, backend.ErrKeyNotFound
	}
	size := info.KeySizeBits / 8
	if info.KeyType != types.KeyTypeRSA {
		size = 2 * ((info.KeySizeBits + 7) / 8)
	}
	return bytes.Equal(req.Signature, bytes.Repeat([]byte{0xA5}, size)), nil
}

// Decrypt echoes the ciphertext back as plaintext.
func (m *MockClient) Decrypt(ctx context.Context, req *backend.DecryptRequest) ([]byte, error) {
	m.mu.Lock()
	m.DecryptCalls = append(m.DecryptCalls, req)
	fn := m.DecryptFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[req.KeyID]
	if !exists {
		return nil, backend.ErrKeyNotFound
	}
	if !info.Capabilities.Decrypt {
		return nil, backend.ErrOperationNotPermitted
	}
	return append([]byte(nil), req.Ciphertext...), nil
}

// Encrypt echoes the plaintext back as ciphertext.
func (m *MockClient) Encrypt(ctx context.Context, req *backend.EncryptRequest) ([]byte, error) {
	m.mu.Lock()
	m.EncryptCalls = append(m.EncryptCalls, req)
	fn := m.EncryptFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[req.KeyID]
	if !exists {
		return nil, backend.ErrKeyNotFound
	}
	if !info.Capabilities.Encrypt {
		return nil, backend.ErrOperationNotPermitted
	}
	return append([]byte(nil), req.Plaintext...), nil
}

// PerformKeyExchange returns a deterministic secret of the curve field size.
func (m *MockClient) PerformKeyExchange(ctx context.Context, req *backend.KeyExchangeRequest) ([]byte, error) {
	m.mu.Lock()
	m.PerformKeyExchangeCalls = append(m.PerformKeyExchangeCalls, req)
	fn := m.PerformKeyExchangeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	info, exists := m.keys[req.KeyID]
	if !exists {
		return nil, backend.ErrKeyNotFound
	}
	if !info.Capabilities.Derive {
		return nil, backend.ErrOperationNotPermitted
	}
	size := info.KeyType.SharedSecretSize()
	if size == 0 {
		return nil, backend.ErrOperationNotPermitted
	}
	return bytes.Repeat([]byte{0x5A}, size), nil
}

// TestConnection reports liveness; defaults to true.
func (m *MockClient) TestConnection(ctx context.Context) bool {
	m.mu.Lock()
	m.TestConnectionCalls++
	fn := m.TestConnectionFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return true
}

// Close tracks the call and releases nothing.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}
