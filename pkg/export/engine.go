package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/fonts"
	"github.com/deckforge/deckforge/pkg/observability"
	"github.com/deckforge/deckforge/pkg/render"
)

// Format identifies an export target.
type Format string

// Export formats.
const (
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatPPTX Format = "pptx"
)

// ParseFormat validates and normalizes a format string.
func ParseFormat(s string) (Format, error) {
	if err := errors.ValidateExportFormat(s); err != nil {
		return "", err
	}
	return Format(strings.ToLower(s)), nil
}

// Deterministic artifact names. Raster exports use one file per slide.
const (
	pdfFilename  = "presentation.pdf"
	pptxFilename = "presentation.pptx"
)

func pngFilename(slideNumber int) string {
	return fmt.Sprintf("slide-%d.png", slideNumber)
}

// Engine builds export artifacts from a deck.
type Engine struct {
	renderer *render.Renderer
	loader   render.Loader
	fonts    *fonts.Collection
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an export engine. The renderer handles raster composition;
// the loader resolves image references for the document and package
// targets, which embed assets themselves.
func New(renderer *render.Renderer, loader render.Loader, fc *fonts.Collection, opts ...Option) *Engine {
	e := &Engine{
		renderer: renderer,
		loader:   loader,
		fonts:    fc,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds the artifact set for the given format and writes it into
// dir. It returns the written file paths. On any error nothing remains on
// disk.
func (e *Engine) Export(ctx context.Context, d *deck.Deck, format Format, dir string) (paths []string, err error) {
	if d == nil || len(d.Slides) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "deck has no slides")
	}

	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, string(format), len(d.Slides))
	defer func() {
		observability.Pipeline().OnExportComplete(ctx, string(format), len(paths), time.Since(start), err)
	}()

	e.logger.Info("exporting deck", "deck", d.ID, "format", format, "slides", len(d.Slides))

	var files map[string][]byte
	switch format {
	case FormatPNG:
		files, err = e.buildPNG(ctx, d)
	case FormatPDF:
		var data []byte
		data, err = e.buildPDF(ctx, d)
		files = map[string][]byte{pdfFilename: data}
	case FormatPPTX:
		var data []byte
		data, err = e.buildPPTX(ctx, d)
		files = map[string][]byte{pptxFilename: data}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format: %q", format)
	}
	if err != nil {
		return nil, err
	}

	paths, err = writeAll(dir, files)
	if err != nil {
		return nil, err
	}

	e.logger.Info("export complete", "format", format, "files", len(paths), "duration", time.Since(start))
	return paths, nil
}

// buildPNG composes every slide to a raster frame.
func (e *Engine) buildPNG(ctx context.Context, d *deck.Deck) (map[string][]byte, error) {
	files := make(map[string][]byte, len(d.Slides))
	for _, s := range d.Slides {
		renderStart := time.Now()
		observability.Pipeline().OnRenderStart(ctx, s.Number)

		img, err := e.renderer.Compose(ctx, s)
		if err == nil {
			var data []byte
			data, err = render.EncodePNG(img)
			if err == nil {
				files[pngFilename(s.Number)] = data
			}
		}
		observability.Pipeline().OnRenderComplete(ctx, s.Number, time.Since(renderStart), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "slide %d", s.Number)
		}
	}
	return files, nil
}

// writeAll writes the in-memory file set into dir. A failed write removes
// everything written before it so no partial export survives.
func writeAll(dir string, files map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create output directory %s", dir)
	}

	paths := make([]string, 0, len(files))
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			for _, written := range paths {
				os.Remove(written)
			}
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parseHexRGB parses a #rgb or #rrggbb color into channel bytes.
// Invalid input degrades to white, matching the model's default text color.
func parseHexRGB(s string) (r, g, b uint8) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 255, 255, 255
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 255, 255, 255
	}
	return uint8(rv), uint8(gv), uint8(bv)
}

// argbHex converts a CSS hex color to the opaque AARRGGBB form the package
// writer expects.
func argbHex(s string) string {
	r, g, b := parseHexRGB(s)
	return fmt.Sprintf("FF%02X%02X%02X", r, g, b)
}
