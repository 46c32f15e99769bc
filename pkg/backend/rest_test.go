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

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jeremyhahn/go-cryptotoken/pkg/params"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*RESTClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewRESTClient(&Config{
		Address: srv.URL,
		Timeout: timeout,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewRESTClient_RequiresAddress(t *testing.T) {
	_, err := NewRESTClient(nil)
	assert.Error(t, err)

	_, err = NewRESTClient(&Config{})
	assert.Error(t, err)
}

func TestRESTClient_Sign(t *testing.T) {
	signature := bytes.Repeat([]byte{0xAB}, 256)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/keys/tls-key/sign", r.URL.Path)

		var req SignRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, WireVersion, req.Version)
		assert.Equal(t, "tls-key", req.KeyID)
		assert.Equal(t, []byte("payload"), req.Data)
		assert.Equal(t, types.HashSHA256, req.SigningParameters.Hash)
		require.NotNil(t, req.SigningParameters.RSA)
		assert.Equal(t, types.RSAPaddingPKCS1, req.SigningParameters.RSA.Padding)

		writeJSON(t, w, http.StatusOK, SignResponse{Signature: signature})
	}), 0)

	signingParams, err := params.MapSigningParameters(types.SignatureRSAPKCS1SHA256)
	require.NoError(t, err)

	sig, err := client.Sign(context.Background(), &SignRequest{
		KeyID:             "tls-key",
		Data:              []byte("payload"),
		SigningParameters: signingParams,
	})
	require.NoError(t, err)
	assert.Equal(t, signature, sig)
}

func TestRESTClient_DoesNotMutateRequest(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SignRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, WireVersion, req.Version)
		writeJSON(t, w, http.StatusOK, SignResponse{Signature: []byte{0x01}})
	}), 0)

	req := &SignRequest{KeyID: "tls-key", Data: []byte("payload")}
	_, err := client.Sign(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, req.Version, "caller's request must stay untouched")
}

func TestRESTClient_Sign_KeyNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, ErrorResponse{
			Code:    CodeKeyNotFound,
			Message: "no such key",
		})
	}), 0)

	_, err := client.Sign(context.Background(), &SignRequest{KeyID: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "no such key")
}

func TestRESTClient_Sign_OperationNotPermitted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, ErrorResponse{
			Code:    CodeOperationNotPermitted,
			Message: "key lacks sign capability",
		})
	}), 0)

	_, err := client.Sign(context.Background(), &SignRequest{KeyID: "encrypt-only"})
	assert.ErrorIs(t, err, ErrOperationNotPermitted)
}

func TestRESTClient_Sign_Timeout(t *testing.T) {
	done := make(chan struct{})

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}), 50*time.Millisecond)
	// Registered after newTestClient so it runs before srv.Close; the server
	// never cancels r.Context() for an unread request body, so the handler
	// must be released before Close can drain the connection.
	t.Cleanup(func() { close(done) })

	start := time.Now()
	_, err := client.Sign(context.Background(), &SignRequest{KeyID: "slow"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendTimeout)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout must not hang the caller")
}

func TestRESTClient_Sign_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client, err := NewRESTClient(&Config{Address: addr})
	require.NoError(t, err)

	_, err = client.Sign(context.Background(), &SignRequest{KeyID: "any"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRESTClient_Sign_UnavailableStatusWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 0)

	_, err := client.Sign(context.Background(), &SignRequest{KeyID: "any"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRESTClient_Sign_InternalErrorWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), 0)

	_, err := client.Sign(context.Background(), &SignRequest{KeyID: "any"})
	assert.ErrorIs(t, err, ErrBackendInternal)
}

func TestRESTClient_Decrypt(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/keys/enc-key/decrypt", r.URL.Path)

		var req DecryptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, types.RSAPaddingOAEP, req.EncryptionParameters.RSA.Padding)
		assert.Equal(t, types.HashSHA256, req.EncryptionParameters.RSA.OAEPHash)

		writeJSON(t, w, http.StatusOK, DecryptResponse{Plaintext: []byte("secret")})
	}), 0)

	encParams, err := params.MapEncryptionParameters(types.EncryptionRSAOAEPSHA256)
	require.NoError(t, err)

	plaintext, err := client.Decrypt(context.Background(), &DecryptRequest{
		KeyID:                "enc-key",
		Ciphertext:           []byte{0x01, 0x02},
		EncryptionParameters: encParams,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), plaintext)
}

func TestRESTClient_VerifySignature_InvalidIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, VerifyResponse{Valid: false})
	}), 0)

	valid, err := client.VerifySignature(context.Background(), &VerifyRequest{
		KeyID:     "verify-key",
		Data:      []byte("data"),
		Signature: []byte("bogus"),
	})
	require.NoError(t, err, "a well-formed invalid signature must not error")
	assert.False(t, valid)
}

func TestRESTClient_PerformKeyExchange(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, 32)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/keys/ecdh-key/derive", r.URL.Path)

		var req KeyExchangeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.PeerPublicKey)

		writeJSON(t, w, http.StatusOK, KeyExchangeResponse{SharedSecret: secret})
	}), 0)

	got, err := client.PerformKeyExchange(context.Background(), &KeyExchangeRequest{
		KeyID:         "ecdh-key",
		PeerPublicKey: []byte{0x04, 0x01, 0x02},
	})
	require.NoError(t, err)
	assert.Equal(t, secret, got)
	assert.Len(t, got, 32)
}

func TestRESTClient_KeyLifecycle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/keys":
			var req GenerateKeyRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(t, w, http.StatusOK, KeyInfo{
				KeyID:        req.KeyID,
				KeyType:      req.KeyType,
				KeySizeBits:  req.KeySizeBits,
				Capabilities: req.Capabilities,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/keys":
			writeJSON(t, w, http.StatusOK, ListKeysResponse{Keys: []KeyInfo{{KeyID: "k1"}}})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/keys/k1":
			writeJSON(t, w, http.StatusOK, KeyInfo{KeyID: "k1", KeyType: types.KeyTypeRSA})
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/keys/k1":
			writeJSON(t, w, http.StatusOK, struct{}{})
		default:
			writeJSON(t, w, http.StatusNotFound, ErrorResponse{Code: CodeKeyNotFound, Message: "not found"})
		}
	}), 0)

	ctx := context.Background()

	info, err := client.GenerateKey(ctx, &GenerateKeyRequest{
		KeyID:        "k1",
		KeyType:      types.KeyTypeRSA,
		KeySizeBits:  2048,
		Capabilities: types.Capabilities{Sign: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "k1", info.KeyID)

	keys, err := client.ListKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	got, err := client.GetKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, types.KeyTypeRSA, got.KeyType)

	require.NoError(t, client.DeleteKey(ctx, "k1"))

	_, err = client.GetKey(ctx, "k2")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRESTClient_TestConnection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		writeJSON(t, w, http.StatusOK, HealthResponse{Status: "ok", Version: "1.0.0"})
	}), 0)

	assert.True(t, client.TestConnection(context.Background()))
}

func TestRESTClient_TestConnection_FailureReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client, err := NewRESTClient(&Config{Address: addr})
	require.NoError(t, err)

	assert.False(t, client.TestConnection(context.Background()),
		"liveness check returns false rather than erroring")
}

func TestRESTClient_ConcurrentCalls(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, SignResponse{Signature: []byte{0x01}})
	}), 0)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Sign(context.Background(), &SignRequest{KeyID: "k"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
