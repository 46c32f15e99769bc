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

package backend

import "errors"

var (
	// ErrKeyNotFound is returned when the backend holds no key for the
	// requested identifier.
	ErrKeyNotFound = errors.New("backend: key not found")

	// ErrKeyAlreadyExists is returned when generating a key under an
	// identifier the backend already holds.
	ErrKeyAlreadyExists = errors.New("backend: key already exists")

	// ErrOperationNotPermitted is returned when the key exists but lacks
	// the capability for the requested operation. The backend's capability
	// check is authoritative.
	ErrOperationNotPermitted = errors.New("backend: operation not permitted")

	// ErrBackendTimeout is returned when a call exceeds the configured
	// per-call timeout. The underlying request is cancelled, not left to
	// complete silently.
	ErrBackendTimeout = errors.New("backend: request timed out")

	// ErrBackendUnavailable is returned when the transport fails before a
	// backend response is received, or the backend reports itself down.
	ErrBackendUnavailable = errors.New("backend: unavailable")

	// ErrBackendInternal is returned when the backend explicitly rejected
	// the request with an error this client does not classify further.
	ErrBackendInternal = errors.New("backend: internal error")

	// ErrInvalidRequest is returned when the backend rejected the request
	// as malformed.
	ErrInvalidRequest = errors.New("backend: invalid request")
)

// Wire error codes carried in the structured error envelope. These let the
// client distinguish "backend explicitly rejected" from "transport failed".
const (
	CodeKeyNotFound           = "key_not_found"
	CodeKeyAlreadyExists      = "key_already_exists"
	CodeOperationNotPermitted = "operation_not_permitted"
	CodeInvalidRequest        = "invalid_request"
	CodeUnavailable           = "unavailable"
	CodeInternal              = "internal_error"
)

// classifyCode maps a wire error code to its sentinel. Unknown codes are
// treated as backend-internal failures so nothing is silently swallowed.
func classifyCode(code string) error {
	switch code {
	case CodeKeyNotFound:
		return ErrKeyNotFound
	case CodeKeyAlreadyExists:
		return ErrKeyAlreadyExists
	case CodeOperationNotPermitted:
		return ErrOperationNotPermitted
	case CodeInvalidRequest:
		return ErrInvalidRequest
	case CodeUnavailable:
		return ErrBackendUnavailable
	default:
		return ErrBackendInternal
	}
}
