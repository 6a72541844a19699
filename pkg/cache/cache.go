// Package cache provides pluggable caching for fetched assets and derived
// artifacts.
//
// Two concerns live here:
//
//   - [Cache]: a byte-oriented storage backend (file, Redis, or null)
//   - [Keyer]: deterministic key construction for the things the
//     application caches (remote assets, composed frames, exports)
//
// Backends are safe for concurrent use unless noted otherwise.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache backend.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts captures the parameters that change a composed frame.
type RenderKeyOpts struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExportKeyOpts captures the parameters that change an export artifact.
type ExportKeyOpts struct {
	Format string `json:"format"`
}

// Keyer builds cache keys for the application's cacheable artifacts.
// Implementations must be deterministic: the same inputs always produce
// the same key.
type Keyer interface {
	// AssetKey keys a fetched remote asset by its reference.
	AssetKey(ref string) string

	// RenderKey keys a composed slide frame by the slide's content hash
	// and the raster parameters.
	RenderKey(slideHash string, opts RenderKeyOpts) string

	// ExportKey keys an export artifact by the deck's content hash and
	// the export parameters.
	ExportKey(deckHash string, opts ExportKeyOpts) string
}

// DefaultKeyer is the standard key scheme. Asset keys embed the reference
// directly; derived artifact keys hash their options so any parameter
// change produces a new key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// AssetKey generates a key for a fetched remote asset.
func (k *DefaultKeyer) AssetKey(ref string) string {
	return "asset:" + Hash([]byte(ref))
}

// RenderKey generates a key for a composed slide frame.
func (k *DefaultKeyer) RenderKey(slideHash string, opts RenderKeyOpts) string {
	return hashKey("render", slideHash, opts)
}

// ExportKey generates a key for an export artifact.
func (k *DefaultKeyer) ExportKey(deckHash string, opts ExportKeyOpts) string {
	return hashKey("export", deckHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
