package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	// Decoders for the formats the generation service and users produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"

	"github.com/deckforge/deckforge/pkg/cache"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/httputil"
	"github.com/deckforge/deckforge/pkg/observability"
	"github.com/deckforge/deckforge/pkg/render"
)

// Loader feeds the render pipeline.
var _ render.Loader = (*Loader)(nil)

const (
	httpTimeout = 60 * time.Second
	assetScheme = "asset://"
	cacheTTL    = 24 * time.Hour
)

// Loader resolves asset references to decoded images.
//
// All methods are safe for concurrent use.
type Loader struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	registry *Registry
	logger   *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache enables byte caching of fetched assets.
func WithCache(c cache.Cache, k cache.Keyer) LoaderOption {
	return func(l *Loader) {
		l.cache = c
		if k == nil {
			k = cache.NewDefaultKeyer()
		}
		l.keyer = k
	}
}

// WithRegistry attaches a session registry for asset:// refs.
func WithRegistry(r *Registry) LoaderOption {
	return func(l *Loader) { l.registry = r }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(lg *log.Logger) LoaderOption {
	return func(l *Loader) { l.logger = lg }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) LoaderOption {
	return func(l *Loader) { l.http = h }
}

// NewLoader creates a Loader. Without options it fetches uncached and
// has no session registry.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		http:   &http.Client{Timeout: httpTimeout},
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Image resolves ref and decodes it.
func (l *Loader) Image(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.Bytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %q", displayRef(ref))
	}
	return img, nil
}

// Bytes resolves ref to its raw contents without decoding.
func (l *Loader) Bytes(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty asset reference")
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, assetScheme):
		return l.registryBytes(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read asset file")
		}
		return data, nil
	}
}

func (l *Loader) registryBytes(ref string) ([]byte, error) {
	if l.registry == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no session registry for %q", ref)
	}
	data, ok := l.registry.Get(strings.TrimPrefix(ref, assetScheme))
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "asset %q not in session registry", ref)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if l.cache != nil {
		key := l.keyer.AssetKey(ref)
		if data, hit, err := l.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "asset")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "asset")
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = l.download(ctx, ref)
		return err
	})
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		key := l.keyer.AssetKey(ref)
		if err := l.cache.Set(ctx, key, data, cacheTTL); err != nil {
			l.logger.Warn("asset cache write failed", "ref", ref, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "asset", len(data))
		}
	}
	return data, nil
}

func (l *Loader) download(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid asset URL")
	}

	host, path := refParts(ref)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)

	start := time.Now()
	resp, err := l.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch asset")}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "asset not found: %s", ref)
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "asset fetch returned status %d", resp.StatusCode)}
	default:
		return nil, errors.New(errors.ErrCodeNetwork, "asset fetch returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// decodeDataURL extracts the payload of a base64 data URL.
func decodeDataURL(ref string) ([]byte, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed data URL")
	}
	meta, payload := ref[:idx], ref[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		// Percent-encoded plain payload.
		decoded, err := url.QueryUnescape(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode data URL")
		}
		return []byte(decoded), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode data URL")
	}
	return data, nil
}

// displayRef shortens inline refs so log lines and errors stay readable.
func displayRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}

func refParts(ref string) (host, path string) {
	u, err := url.Parse(ref)
	if err != nil {
		return ref, ""
	}
	return u.Host, u.Path
}
