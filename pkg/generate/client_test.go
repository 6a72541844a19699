package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/httputil"
)

func serviceStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGenerateSuccess(t *testing.T) {
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "a mountain sunrise" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		respond(w, map[string]any{
			"success":              true,
			"image_url":            "https://cdn.example.com/base.png",
			"upscaled_url":         "https://cdn.example.com/up.png",
			"clean_background_url": "https://cdn.example.com/clean.png",
			"text_blocks": []map[string]any{
				{"content": "Sunrise", "x_percent": 50, "y_percent": 20, "width_percent": 60, "size": "large", "color": "#ffffff", "align": "center"},
			},
		})
	})

	c := NewClient(srv.URL, "secret")
	res, err := c.Generate(context.Background(), Request{Prompt: "a mountain sunrise"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.ImageURL != "https://cdn.example.com/base.png" {
		t.Errorf("ImageURL = %s", res.ImageURL)
	}
	if res.CleanBackgroundURL == "" || res.UpscaledURL == "" {
		t.Error("optional URLs should be carried through")
	}
	if len(res.TextBlocks) != 1 || res.TextBlocks[0].Content != "Sunrise" {
		t.Fatalf("TextBlocks = %+v", res.TextBlocks)
	}
}

func TestGenerateMissingSuccessFlagFails(t *testing.T) {
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"image_url": "https://cdn.example.com/base.png"})
	})

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, errors.ErrCodeGenerationFailed) {
		t.Errorf("want GENERATION_FAILED, got %v", err)
	}
}

func TestGenerateExplicitFailureCarriesMessage(t *testing.T) {
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"success": false, "error": "quota exceeded"})
	})

	c := NewClient(srv.URL, "")
	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, errors.ErrCodeGenerationFailed) {
		t.Fatalf("want GENERATION_FAILED, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "quota exceeded") {
		t.Errorf("error should carry service message: %q", msg)
	}
}

func TestGenerateValidationBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(w, map[string]any{"success": true, "image_url": "u"})
	})
	c := NewClient(srv.URL, "")

	if _, err := c.Generate(context.Background(), Request{Prompt: "   "}); !errors.Is(err, errors.ErrCodeInvalidPrompt) {
		t.Errorf("empty prompt: want INVALID_PROMPT, got %v", err)
	}
	if _, err := c.Generate(context.Background(), Request{
		Prompt:          "ok",
		ReferenceImages: []string{"ftp://example.com/x.png"},
	}); !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Errorf("bad reference: want INVALID_REFERENCE, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("validation failures should not reach the network: %d calls", calls.Load())
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		respond(w, map[string]any{"success": true, "image_url": "https://cdn.example.com/base.png"})
	})

	c := NewClient(srv.URL, "")
	res, err := c.Generate(context.Background(), Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate after retry: %v", err)
	}
	if res.ImageURL == "" {
		t.Error("expected image URL after retry")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGenerateDeckIsolatesFailures(t *testing.T) {
	var calls atomic.Int32
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		calls.Add(1)
		if req.Prompt == "bad" {
			respond(w, map[string]any{"success": false, "error": "nope"})
			return
		}
		respond(w, map[string]any{"success": true, "image_url": "https://cdn.example.com/" + req.Prompt + ".png"})
	})

	c := NewClient(srv.URL, "")
	d, failures := c.GenerateDeck(context.Background(), "demo", []Request{
		{Prompt: "one"}, {Prompt: "bad"}, {Prompt: "three"},
	})

	if len(d.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(d.Slides))
	}
	if d.Slides[0].Number != 1 || d.Slides[1].Number != 3 {
		t.Errorf("slide numbers = %d, %d; want 1, 3", d.Slides[0].Number, d.Slides[1].Number)
	}
	if len(failures) != 1 || failures[2] == nil {
		t.Errorf("failures = %v, want one entry for slide 2", failures)
	}
	if calls.Load() != 3 {
		t.Errorf("all three prompts should be attempted: %d calls", calls.Load())
	}
}

func TestGenerateDeckNoTextExtraction(t *testing.T) {
	// A deployment without OCR returns only the base image. The slide is
	// still usable; it just has no editable overlays.
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"success": true, "image_url": "https://cdn.example.com/base.png"})
	})

	c := NewClient(srv.URL, "")
	d, failures := c.GenerateDeck(context.Background(), "demo", []Request{{Prompt: "p"}})
	if len(failures) != 0 {
		t.Fatalf("failures = %v", failures)
	}
	s := d.Slides[0]
	if s.CleanBackground != "" {
		t.Error("no clean background expected without text extraction")
	}
	if len(s.TextBlocks) != 0 {
		t.Errorf("expected zero overlays, got %d", len(s.TextBlocks))
	}
	if s.HasEditableOverlays() {
		t.Error("slide should not report editable overlays")
	}
}

func TestGenerateCachesSuccesses(t *testing.T) {
	var calls atomic.Int32
	srv := serviceStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(w, map[string]any{"success": true, "image_url": "https://cdn.example.com/base.png"})
	})

	hc, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	c := NewClient(srv.URL, "", WithCache(hc))

	for i := 0; i < 2; i++ {
		if _, err := c.Generate(context.Background(), Request{Prompt: "same prompt"}); err != nil {
			t.Fatalf("Generate #%d: %v", i+1, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("second call should be served from cache: %d calls", calls.Load())
	}
}
