package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deckforge/deckforge/pkg/cache"
	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/httputil"
	"github.com/deckforge/deckforge/pkg/observability"
)

const httpTimeout = 120 * time.Second

// Request describes one slide to generate.
type Request struct {
	// Prompt is the text description of the slide. Required.
	Prompt string `json:"prompt"`

	// ReferenceImages holds optional URLs of style reference images.
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// Result holds the generated assets for one slide.
type Result struct {
	// ImageURL is the generated background. Never empty on success.
	ImageURL string

	// UpscaledURL is an optional higher-resolution variant.
	UpscaledURL string

	// CleanBackgroundURL is the background with text removed. Present only
	// when the service extracted text; its presence signals that TextBlocks
	// are editable overlays.
	CleanBackgroundURL string

	// TextBlocks holds extracted overlay text. Empty when the service has
	// no text extraction capability or found no text.
	TextBlocks []deck.TextBlock
}

// Client calls the slide generation service.
//
// All methods are safe for concurrent use.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	cache    *httputil.Cache
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables response caching. Pass nil to disable (the default).
func WithCache(c *httputil.Cache) Option {
	return func(cl *Client) { cl.cache = c.Namespace("generate:") }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// NewClient creates a generation client for the given service endpoint.
// The apiKey may be empty for unauthenticated deployments.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate produces one slide background from a prompt.
//
// Validation failures (empty prompt, malformed reference URL) are returned
// before any network work. Upstream failures are reported as
// GENERATION_FAILED; transient network errors and 5xx responses are
// retried automatically.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := errors.ValidatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	for _, ref := range req.ReferenceImages {
		if err := errors.ValidateReferenceURL(ref); err != nil {
			return nil, err
		}
	}

	var resp apiResponse
	if err := c.cached(ctx, req, &resp); err != nil {
		return nil, err
	}

	if resp.Success == nil || !*resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "service did not report success"
		}
		return nil, errors.New(errors.ErrCodeGenerationFailed, "generation failed: %s", msg)
	}
	if resp.ImageURL == "" {
		return nil, errors.New(errors.ErrCodeGenerationFailed, "generation succeeded but returned no image")
	}

	return &Result{
		ImageURL:           resp.ImageURL,
		UpscaledURL:        resp.UpscaledURL,
		CleanBackgroundURL: resp.CleanBackgroundURL,
		TextBlocks:         mapTextBlocks(resp.TextBlocks),
	}, nil
}

// GenerateDeck generates one slide per request and assembles them into a
// deck titled title.
//
// Slides are generated sequentially and independently: a failure on one
// slide is recorded in the returned map (keyed by 1-based slide number)
// and generation continues with the next request. The returned deck
// contains only the slides that succeeded, numbered by their position in
// reqs so gaps reveal which prompts failed.
func (c *Client) GenerateDeck(ctx context.Context, title string, reqs []Request) (deck.Deck, map[int]error) {
	start := time.Now()
	prompt := ""
	if len(reqs) > 0 {
		prompt = reqs[0].Prompt
	}
	observability.Pipeline().OnGenerateStart(ctx, prompt, len(reqs))

	d := deck.New(title)
	failures := make(map[int]error)
	for i, req := range reqs {
		number := i + 1
		res, err := c.Generate(ctx, req)
		if err != nil {
			c.logger.Warn("slide generation failed", "slide", number, "error", err)
			failures[number] = err
			continue
		}
		d = d.AppendSlide(deck.Slide{
			Number:          number,
			BaseImage:       res.ImageURL,
			UpscaledImage:   res.UpscaledURL,
			CleanBackground: res.CleanBackgroundURL,
			TextBlocks:      res.TextBlocks,
		})
		c.logger.Debug("slide generated", "slide", number, "overlays", len(res.TextBlocks))
	}

	var batchErr error
	if len(failures) == len(reqs) && len(reqs) > 0 {
		batchErr = errors.New(errors.ErrCodeGenerationFailed, "all %d slides failed", len(reqs))
	}
	observability.Pipeline().OnGenerateComplete(ctx, len(d.Slides), time.Since(start), batchErr)
	return d, failures
}

// cached serves resp from the response cache when possible, falling back
// to a live request. Results are only cached on success so transient
// failures are retried on the next call.
func (c *Client) cached(ctx context.Context, req Request, resp *apiResponse) error {
	if c.cache == nil {
		return httputil.RetryWithBackoff(ctx, func() error {
			return c.post(ctx, req, resp)
		})
	}

	key := requestKey(req)
	if ok, _ := c.cache.Get(key, resp); ok {
		observability.Cache().OnCacheHit(ctx, "generate")
		return nil
	}
	observability.Cache().OnCacheMiss(ctx, "generate")

	if err := httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, req, resp)
	}); err != nil {
		return err
	}
	if resp.Success != nil && *resp.Success {
		_ = c.cache.Set(key, resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, req Request, resp *apiResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	host, path := splitEndpoint(c.endpoint)
	observability.HTTP().OnRequest(ctx, http.MethodPost, host, path)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, host, path, err)
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "generation request failed")}
	}
	defer httpResp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodPost, host, path, httpResp.StatusCode, time.Since(start))

	if err := checkStatus(httpResp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return errors.Wrap(errors.ErrCodeDecodeFailed, err, "invalid generation response")
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "generation service returned status %d", code)}
	default:
		return errors.New(errors.ErrCodeGenerationFailed, "generation service returned status %d", code)
	}
}

// requestKey derives a stable cache key from the request contents.
func requestKey(req Request) string {
	data, _ := json.Marshal(req)
	return cache.Hash(data)
}

func splitEndpoint(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint, ""
	}
	return u.Host, u.Path
}

// apiResponse is the wire format of the generation service.
//
// Success is a pointer so a response that omits the flag entirely can be
// distinguished from an explicit false; both count as failure.
type apiResponse struct {
	Success            *bool          `json:"success"`
	ImageURL           string         `json:"image_url"`
	UpscaledURL        string         `json:"upscaled_url,omitempty"`
	CleanBackgroundURL string         `json:"clean_background_url,omitempty"`
	TextBlocks         []apiTextBlock `json:"text_blocks,omitempty"`
	Error              string         `json:"error,omitempty"`
}

// apiTextBlock is an extracted overlay as reported by the service.
type apiTextBlock struct {
	Content      string  `json:"content"`
	XPercent     float64 `json:"x_percent"`
	YPercent     float64 `json:"y_percent"`
	WidthPercent float64 `json:"width_percent"`
	Size         string  `json:"size"`
	Color        string  `json:"color"`
	Align        string  `json:"align"`
}

func mapTextBlocks(blocks []apiTextBlock) []deck.TextBlock {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]deck.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		tb := deck.TextBlock{
			Content:      b.Content,
			XPercent:     b.XPercent,
			YPercent:     b.YPercent,
			WidthPercent: b.WidthPercent,
			Size:         deck.ParseSizeClass(b.Size),
			Color:        b.Color,
			Align:        deck.ParseAlignment(b.Align),
		}
		if tb.Color == "" {
			tb.Color = "#ffffff"
		}
		if tb.WidthPercent <= 0 {
			tb.WidthPercent = 80
		}
		out = append(out, tb)
	}
	return out
}
