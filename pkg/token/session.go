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

package token

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jeremyhahn/go-cryptotoken/pkg/backend"
	"github.com/jeremyhahn/go-cryptotoken/pkg/logging"
	"github.com/jeremyhahn/go-cryptotoken/pkg/metrics"
	"github.com/jeremyhahn/go-cryptotoken/pkg/params"
	"github.com/jeremyhahn/go-cryptotoken/pkg/store"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

var (
	// ErrMalformedIdentifier is returned when a key object identifier is
	// empty or otherwise unusable.
	ErrMalformedIdentifier = errors.New("token: malformed key object identifier")

	// ErrSessionClosed is returned when an operation is attempted on a
	// closed session.
	ErrSessionClosed = errors.New("token: session closed")
)

// Session is the working surface handed to the host shell: object
// enumeration plus the cryptographic operations. Sessions hold no mutable
// per-operation state beyond the closed flag and are safe for concurrent
// use; each operation carries its own context.
type Session struct {
	token  *Token
	format types.SessionFormat
	client backend.Client
	store  store.MetadataStore
	logger *logging.Logger
	closed atomic.Bool
}

// Format returns the format this session was opened with.
func (s *Session) Format() types.SessionFormat {
	return s.format
}

// Token returns the token this session belongs to.
func (s *Session) Token() *Token {
	return s.token
}

// ObjectExists reports whether a key object is present. It never fails:
// a malformed identifier or a store error reads as absence, so the host
// shell's probe loop keeps running against a degraded store.
func (s *Session) ObjectExists(ctx context.Context, id types.KeyObjectID) bool {
	if s.closed.Load() || !id.Valid() {
		return false
	}
	exists, err := s.store.KeyExists(ctx, id)
	if err != nil {
		s.logger.Debug("object existence check failed, treating as absent",
			"key_id", id.String(), "error", err)
		return false
	}
	return exists
}

// ObjectIDs enumerates every key object identifier known to the token.
// Store failures propagate: an empty token and a broken store must not
// look alike to the caller.
func (s *Session) ObjectIDs(ctx context.Context) ([]types.KeyObjectID, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	ids, err := s.store.GetAllKeyIDs(ctx)
	metrics.RecordOperation(metrics.OpEnumerate, err)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Object returns the read-only projection of a single key object, or
// store.ErrNotFound.
func (s *Session) Object(ctx context.Context, id types.KeyObjectID) (*KeyObject, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !id.Valid() {
		return nil, ErrMalformedIdentifier
	}
	meta, err := s.store.GetMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	return newKeyObject(s.token.id, *meta), nil
}

// Objects resolves a batch of identifiers to their projections. Unknown
// identifiers are silently filtered; any other store failure aborts the
// whole batch.
func (s *Session) Objects(ctx context.Context, ids []types.KeyObjectID) (map[types.KeyObjectID]*KeyObject, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	objects := make(map[types.KeyObjectID]*KeyObject, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			continue
		}
		meta, err := s.store.GetMetadata(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		objects[id] = newKeyObject(s.token.id, *meta)
	}
	return objects, nil
}

// Sign translates a host signing request into a backend RPC. The algorithm
// is mapped to explicit parameters before anything is sent; an algorithm
// the mapper does not recognize fails with params.ErrUnsupportedAlgorithm
// without a backend round trip. Backend failures pass through unchanged so
// the shell sees the classified sentinel.
func (s *Session) Sign(ctx context.Context, id types.KeyObjectID, data []byte, alg types.SignatureAlgorithm, prehashed bool) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !id.Valid() {
		return nil, ErrMalformedIdentifier
	}
	signingParams, err := params.MapSigningParameters(alg)
	if err != nil {
		metrics.RecordOperation(metrics.OpSign, err)
		return nil, err
	}
	req := &backend.SignRequest{
		Version:           backend.WireVersion,
		KeyID:             id.String(),
		Data:              data,
		IsPrehashed:       prehashed,
		SigningParameters: signingParams,
	}
	start := time.Now()
	signature, err := s.client.Sign(ctx, req)
	metrics.ObserveBackendCall(metrics.OpSign, start)
	metrics.RecordOperation(metrics.OpSign, err)
	if err != nil {
		s.logger.Errorf("sign failed for key %s (%s): %v", id, alg, err)
		return nil, err
	}
	s.logger.Debug("sign completed",
		"key_id", id.String(), "algorithm", alg.String(), "signature_bytes", len(signature))
	return signature, nil
}

// VerifySignature checks a signature against a key object's public half.
// A well-formed but invalid signature returns false without error.
func (s *Session) VerifySignature(ctx context.Context, id types.KeyObjectID, data, signature []byte, alg types.SignatureAlgorithm) (bool, error) {
	if s.closed.Load() {
		return false, ErrSessionClosed
	}
	if !id.Valid() {
		return false, ErrMalformedIdentifier
	}
	signingParams, err := params.MapSigningParameters(alg)
	if err != nil {
		return false, err
	}
	req := &backend.VerifyRequest{
		Version:           backend.WireVersion,
		KeyID:             id.String(),
		Data:              data,
		Signature:         signature,
		SigningParameters: signingParams,
	}
	return s.client.VerifySignature(ctx, req)
}

// Decrypt translates a host decryption request into a backend RPC. The
// same mapping-before-dispatch and error passthrough rules as Sign apply.
func (s *Session) Decrypt(ctx context.Context, id types.KeyObjectID, ciphertext []byte, alg types.EncryptionAlgorithm) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !id.Valid() {
		return nil, ErrMalformedIdentifier
	}
	encParams, err := params.MapEncryptionParameters(alg)
	if err != nil {
		metrics.RecordOperation(metrics.OpDecrypt, err)
		return nil, err
	}
	req := &backend.DecryptRequest{
		Version:              backend.WireVersion,
		KeyID:                id.String(),
		Ciphertext:           ciphertext,
		EncryptionParameters: encParams,
	}
	start := time.Now()
	plaintext, err := s.client.Decrypt(ctx, req)
	metrics.ObserveBackendCall(metrics.OpDecrypt, start)
	metrics.RecordOperation(metrics.OpDecrypt, err)
	if err != nil {
		s.logger.Errorf("decrypt failed for key %s (%s): %v", id, alg, err)
		return nil, err
	}
	s.logger.Debug("decrypt completed",
		"key_id", id.String(), "algorithm", alg.String(), "plaintext_bytes", len(plaintext))
	return plaintext, nil
}

// Encrypt encrypts plaintext to a key object's public half via the backend.
func (s *Session) Encrypt(ctx context.Context, id types.KeyObjectID, plaintext []byte, alg types.EncryptionAlgorithm) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !id.Valid() {
		return nil, ErrMalformedIdentifier
	}
	encParams, err := params.MapEncryptionParameters(alg)
	if err != nil {
		return nil, err
	}
	req := &backend.EncryptRequest{
		Version:              backend.WireVersion,
		KeyID:                id.String(),
		Plaintext:            plaintext,
		EncryptionParameters: encParams,
	}
	return s.client.Encrypt(ctx, req)
}

// PerformKeyExchange derives a shared secret between the identified EC
// private key and the peer's public key. The secret length equals the
// curve's field size.
func (s *Session) PerformKeyExchange(ctx context.Context, id types.KeyObjectID, peerPublicKey []byte, alg types.KeyExchangeAlgorithm) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !id.Valid() {
		return nil, ErrMalformedIdentifier
	}
	exchangeParams, err := params.MapKeyExchangeParameters(alg)
	if err != nil {
		metrics.RecordOperation(metrics.OpKeyExchange, err)
		return nil, err
	}
	req := &backend.KeyExchangeRequest{
		Version:       backend.WireVersion,
		KeyID:         id.String(),
		PeerPublicKey: peerPublicKey,
		Parameters:    exchangeParams,
	}
	start := time.Now()
	secret, err := s.client.PerformKeyExchange(ctx, req)
	metrics.ObserveBackendCall(metrics.OpKeyExchange, start)
	metrics.RecordOperation(metrics.OpKeyExchange, err)
	if err != nil {
		s.logger.Errorf("key exchange failed for key %s (%s): %v", id, alg, err)
		return nil, err
	}
	s.logger.Debug("key exchange completed",
		"key_id", id.String(), "secret_bytes", len(secret))
	return secret, nil
}

// Close marks the session closed. Further operations fail with
// ErrSessionClosed. The token's client and store stay open; they are
// shared with other sessions.
func (s *Session) Close() error {
	s.closed.Store(true)
	return nil
}
