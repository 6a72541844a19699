// Package httputil provides HTTP utilities for outbound API clients.
//
// # Overview
//
// This package provides infrastructure shared by the generation, storage,
// and asset-fetching clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/deckforge/)
// with configurable TTL. This speeds up repeated renders of the same deck
// and avoids re-downloading backgrounds that never change.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, _ := cache.Get("asset:bg.png", &data)  // Check cache
//	if !ok {
//	    data = fetchFromCDN()
//	    cache.Set("asset:bg.png", data)       // Store for later
//	}
//
// Cache keys should be namespaced by concern to avoid collisions.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped in [RetryableError] are retried; everything else
// returns immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchAsset(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/deckforge/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `deckforge cache clear` or by deleting
// the cache directory.
package httputil
