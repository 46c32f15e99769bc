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
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultTimeout bounds each backend call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Config configures the REST backend client.
type Config struct {
	// Address is the backend base URL (host:port or full http(s) URL).
	Address string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// TLSEnabled enables TLS for the channel.
	TLSEnabled bool

	// TLSInsecureSkipVerify skips certificate verification (not recommended).
	TLSInsecureSkipVerify bool

	// TLSCertFile and TLSKeyFile configure the client certificate for mTLS.
	TLSCertFile string
	TLSKeyFile  string

	// TLSCAFile is the CA bundle used to verify the backend.
	TLSCAFile string

	// APIKey is sent as X-API-Key when set.
	APIKey string

	// Headers are additional headers included in every request.
	Headers map[string]string
}

// RESTClient implements Client over HTTP/JSON. The embedded http.Client is
// safe for concurrent use; independent calls are not serialized.
type RESTClient struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// compile-time interface check
var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a backend client for the configured address.
func NewRESTClient(cfg *Config) (*RESTClient, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("%w: backend address is required", ErrInvalidRequest)
	}

	baseURL := cfg.Address
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		if cfg.TLSEnabled {
			baseURL = "https://" + baseURL
		} else {
			baseURL = "http://" + baseURL
		}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: cfg.TLSInsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		}

		if cfg.TLSCAFile != "" {
			caCert, err := os.ReadFile(cfg.TLSCAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsConfig.RootCAs = caCertPool
		}

		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &RESTClient{
		config:  cfg,
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
	}, nil
}

// Close releases idle connections. The client may be shared process-wide;
// callers close it once at shutdown.
func (c *RESTClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doRequest performs one backend call with the per-call timeout applied.
// Transport failures map to ErrBackendUnavailable (or ErrBackendTimeout when
// the deadline fired); an error envelope from the backend maps through
// classifyCode with the backend's message preserved.
func (c *RESTClient) doRequest(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %v", ErrBackendTimeout, c.timeout, err)
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %v", ErrBackendTimeout, c.timeout, err)
		}
		return fmt.Errorf("%w: failed to read response: %v", ErrBackendUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		var envelope ErrorResponse
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Code != "" {
			return fmt.Errorf("%w: %s", classifyCode(envelope.Code), envelope.Message)
		}
		// No envelope: gateway-class statuses are transport failures, the
		// rest are backend rejections.
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
		default:
			return fmt.Errorf("%w: status %d: %s", ErrBackendInternal, resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: failed to parse response: %v", ErrBackendInternal, err)
		}
	}
	return nil
}

// GenerateKey creates a key pair on the backend.
func (c *RESTClient) GenerateKey(ctx context.Context, req *GenerateKeyRequest) (*KeyInfo, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var info KeyInfo
	if err := c.doRequest(ctx, http.MethodPost, "/v1/keys", &wireReq, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetKey returns the public description of a backend-held key.
func (c *RESTClient) GetKey(ctx context.Context, keyID string) (*KeyInfo, error) {
	var info KeyInfo
	path := "/v1/keys/" + url.PathEscape(keyID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListKeys returns the backend's key inventory.
func (c *RESTClient) ListKeys(ctx context.Context) ([]KeyInfo, error) {
	var resp ListKeysResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v1/keys", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

// DeleteKey removes a key from the backend.
func (c *RESTClient) DeleteKey(ctx context.Context, keyID string) error {
	path := "/v1/keys/" + url.PathEscape(keyID)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Sign signs the request data with a backend-held private key.
func (c *RESTClient) Sign(ctx context.Context, req *SignRequest) ([]byte, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var resp SignResponse
	path := "/v1/keys/" + url.PathEscape(req.KeyID) + "/sign"
	if err := c.doRequest(ctx, http.MethodPost, path, &wireReq, &resp); err != nil {
		return nil, err
	}
	return resp.Signature, nil
}

// VerifySignature verifies a signature against a backend-held key.
func (c *RESTClient) VerifySignature(ctx context.Context, req *VerifyRequest) (bool, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var resp VerifyResponse
	path := "/v1/keys/" + url.PathEscape(req.KeyID) + "/verify"
	if err := c.doRequest(ctx, http.MethodPost, path, &wireReq, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Decrypt decrypts ciphertext with a backend-held private key.
func (c *RESTClient) Decrypt(ctx context.Context, req *DecryptRequest) ([]byte, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var resp DecryptResponse
	path := "/v1/keys/" + url.PathEscape(req.KeyID) + "/decrypt"
	if err := c.doRequest(ctx, http.MethodPost, path, &wireReq, &resp); err != nil {
		return nil, err
	}
	return resp.Plaintext, nil
}

// Encrypt encrypts plaintext to a key's public half on the backend.
func (c *RESTClient) Encrypt(ctx context.Context, req *EncryptRequest) ([]byte, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var resp EncryptResponse
	path := "/v1/keys/" + url.PathEscape(req.KeyID) + "/encrypt"
	if err := c.doRequest(ctx, http.MethodPost, path, &wireReq, &resp); err != nil {
		return nil, err
	}
	return resp.Ciphertext, nil
}

// PerformKeyExchange derives a shared secret on the backend.
func (c *RESTClient) PerformKeyExchange(ctx context.Context, req *KeyExchangeRequest) ([]byte, error) {
	wireReq := *req
	wireReq.Version = WireVersion
	var resp KeyExchangeResponse
	path := "/v1/keys/" + url.PathEscape(req.KeyID) + "/derive"
	if err := c.doRequest(ctx, http.MethodPost, path, &wireReq, &resp); err != nil {
		return nil, err
	}
	return resp.SharedSecret, nil
}

// TestConnection checks backend liveness. Never used mid-operation.
func (c *RESTClient) TestConnection(ctx context.Context) bool {
	var resp HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return false
	}
	return strings.EqualFold(resp.Status, "ok") || strings.EqualFold(resp.Status, "healthy")
}
