package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/httputil"
	"github.com/deckforge/deckforge/pkg/observability"
)

const httpTimeout = 60 * time.Second

// Store persists a binary asset and returns a URL that resolves to it.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores data with the given MIME content type and returns a URL
	// under which the asset can later be fetched.
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// =============================================================================
// HTTP store
// =============================================================================

// HTTPStore uploads assets to an HTTP endpoint.
//
// The endpoint receives a POST with the raw blob as body and the asset's
// content type, and responds with JSON {"url": "..."}.
type HTTPStore struct {
	http     *http.Client
	endpoint string
	apiKey   string
}

// NewHTTPStore creates a store that uploads to endpoint.
// The apiKey may be empty for unauthenticated deployments.
func NewHTTPStore(endpoint, apiKey string) *HTTPStore {
	return &HTTPStore{
		http:     &http.Client{Timeout: httpTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Put uploads data and returns the durable URL reported by the service.
// Network errors and 5xx responses are retried with backoff; persistent
// failures are reported as STORAGE_FAILED.
func (s *HTTPStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	var uploaded string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		uploaded, err = s.upload(ctx, data, contentType)
		return err
	})
	if err != nil {
		return "", err
	}
	return uploaded, nil
}

func (s *HTTPStore) upload(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	host, path := endpointParts(s.endpoint)
	observability.HTTP().OnRequest(ctx, http.MethodPost, host, path)

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, host, path, err)
		return "", &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeStorageFailed, err, "upload failed")}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 500:
		return "", &httputil.RetryableError{Err: errors.New(errors.ErrCodeStorageFailed, "storage returned status %d", resp.StatusCode)}
	default:
		return "", errors.New(errors.ErrCodeStorageFailed, "storage returned status %d", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorageFailed, err, "invalid storage response")
	}
	if body.URL == "" {
		return "", errors.New(errors.ErrCodeStorageFailed, "storage response missing url")
	}
	return body.URL, nil
}

func endpointParts(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint, ""
	}
	return u.Host, u.Path
}

// =============================================================================
// Inline store
// =============================================================================

// InlineStore embeds assets directly as base64 data URLs. It never fails
// and needs no backing service, at the cost of deck size.
type InlineStore struct{}

// NewInlineStore creates an inline store.
func NewInlineStore() *InlineStore { return &InlineStore{} }

// Put returns a data URL embedding data.
func (InlineStore) Put(_ context.Context, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// =============================================================================
// Fallback store
// =============================================================================

// FallbackStore tries a primary store and falls back to inline embedding
// when the primary fails. A storage outage therefore degrades deck size
// instead of losing the asset.
type FallbackStore struct {
	primary Store
	inline  InlineStore
	logger  *log.Logger
}

// NewFallbackStore wraps primary with an inline fallback.
// Pass nil for logger to discard fallback warnings.
func NewFallbackStore(primary Store, logger *log.Logger) *FallbackStore {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &FallbackStore{primary: primary, logger: logger}
}

// Put stores through the primary store, degrading to an inline data URL
// on failure. Put only returns an error when the primary is nil and
// inline encoding fails, which cannot happen in practice.
func (s *FallbackStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.primary != nil {
		u, err := s.primary.Put(ctx, data, contentType)
		if err == nil {
			return u, nil
		}
		s.logger.Warn("primary storage failed, embedding asset inline", "error", err, "size", len(data))
	}
	return s.inline.Put(ctx, data, contentType)
}

var (
	_ Store = (*HTTPStore)(nil)
	_ Store = (*InlineStore)(nil)
	_ Store = (*FallbackStore)(nil)
)
