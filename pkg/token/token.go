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

// Package token implements the token session protocol: it enumerates and
// describes key objects from the metadata store, translates generic
// cryptographic requests into backend RPC calls, and maps the results and
// classified failures back to the host shell. No private key material is
// ever held in-process.
package token

import (
	"context"
	"errors"

	"github.com/jeremyhahn/go-cryptotoken/pkg/backend"
	"github.com/jeremyhahn/go-cryptotoken/pkg/logging"
	"github.com/jeremyhahn/go-cryptotoken/pkg/params"
	"github.com/jeremyhahn/go-cryptotoken/pkg/store"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// Capabilities advertises the operation categories the token supports to
// the host shell.
type Capabilities struct {
	SupportsSigning     bool
	SupportsDecryption  bool
	SupportsKeyExchange bool
}

// Token represents this provider's presence to the OS security stack: an
// identity, an algorithm capability advertisement, and a session factory.
// One backend client and one metadata store are shared by all sessions; the
// token is constructed once at process start and passed explicitly to the
// host shell (no package-level singleton).
type Token struct {
	id     string
	label  string
	client backend.Client
	store  store.MetadataStore
	logger *logging.Logger
}

// New creates a token over a backend client and metadata store.
func New(id, label string, client backend.Client, metadataStore store.MetadataStore, logger *logging.Logger) (*Token, error) {
	if id == "" {
		return nil, errors.New("token: id is required")
	}
	if client == nil {
		return nil, errors.New("token: backend client is required")
	}
	if metadataStore == nil {
		return nil, errors.New("token: metadata store is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Token{
		id:     id,
		label:  label,
		client: client,
		store:  metadataStore,
		logger: logger.With("token", id),
	}, nil
}

// ID returns the token identity.
func (t *Token) ID() string {
	return t.id
}

// Label returns the human-readable token label.
func (t *Token) Label() string {
	return t.label
}

// Capabilities returns the token-level operation support flags.
func (t *Token) Capabilities() Capabilities {
	return Capabilities{
		SupportsSigning:     true,
		SupportsDecryption:  true,
		SupportsKeyExchange: true,
	}
}

// SupportedSignatureAlgorithms advertises the signing algorithms the
// session's mapper recognizes.
func (t *Token) SupportedSignatureAlgorithms() []types.SignatureAlgorithm {
	return params.SupportedSignatureAlgorithms()
}

// SupportedEncryptionAlgorithms advertises the encryption algorithms the
// session's mapper recognizes.
func (t *Token) SupportedEncryptionAlgorithms() []types.EncryptionAlgorithm {
	return params.SupportedEncryptionAlgorithms()
}

// SupportedKeyExchangeAlgorithms advertises the key exchange algorithms the
// session's mapper recognizes.
func (t *Token) SupportedKeyExchangeAlgorithms() []types.KeyExchangeAlgorithm {
	return params.SupportedKeyExchangeAlgorithms()
}

// CreateSession opens a session in the requested format. Restricted
// sessions are treated identically to standard ones; the reduced capability
// surface is a host shell convention.
func (t *Token) CreateSession(format types.SessionFormat) (*Session, error) {
	if !format.Valid() {
		return nil, errors.New("token: unknown session format " + format.String())
	}
	return &Session{
		token:  t,
		format: format,
		client: t.client,
		store:  t.store,
		logger: t.logger.With("session_format", format.String()),
	}, nil
}

// Healthy probes the backend channel. Used for health checks only, never
// mid-operation.
func (t *Token) Healthy(ctx context.Context) bool {
	return t.client.TestConnection(ctx)
}
