package render

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/fonts"
)

// Default raster export resolution (16:9).
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Loader resolves an image reference (URL, data URL, or session path) to
// decoded pixels.
type Loader interface {
	Image(ctx context.Context, ref string) (image.Image, error)
}

// Renderer composites slides at a fixed raster resolution.
type Renderer struct {
	loader Loader
	fonts  *fonts.Collection
	width  int
	height int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize overrides the raster resolution.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// New creates a Renderer drawing with the given asset loader and fonts.
func New(loader Loader, fc *fonts.Collection, opts ...Option) *Renderer {
	r := &Renderer{
		loader: loader,
		fonts:  fc,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the raster resolution.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Compose renders one slide to a flat raster image.
func (r *Renderer) Compose(ctx context.Context, s deck.Slide) (image.Image, error) {
	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	if err := r.drawBackground(ctx, dc, s); err != nil {
		return nil, err
	}
	if err := r.drawImageBlocks(ctx, dc, s); err != nil {
		return nil, err
	}
	r.drawTextBlocks(dc, s)

	return dc.Image(), nil
}

func (r *Renderer) drawBackground(ctx context.Context, dc *gg.Context, s deck.Slide) error {
	ref := s.DisplayImage(true)
	if ref == "" {
		return errors.New(errors.ErrCodeInvalidInput, "slide %d has no background image", s.Number)
	}

	img, err := r.loader.Image(ctx, ref)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecodeFailed, err, "background for slide %d", s.Number)
	}

	// Scale to fit in both directions, upscaling small sources, and
	// letterbox the remainder. Matches the document targets.
	b := img.Bounds()
	scale := float64(r.width) / float64(b.Dx())
	if alt := float64(r.height) / float64(b.Dy()); alt < scale {
		scale = alt
	}
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)

	fitted := imaging.Resize(img, w, h, imaging.Lanczos)
	dc.DrawImageAnchored(fitted, r.width/2, r.height/2, 0.5, 0.5)
	return nil
}

func (r *Renderer) drawImageBlocks(ctx context.Context, dc *gg.Context, s deck.Slide) error {
	fw := float64(r.width)
	for _, b := range s.ImageBlocks {
		img, err := r.loader.Image(ctx, b.Src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDecodeFailed, err, "image block %s", b.ID)
		}

		w := deck.BlockWidth(b.WidthPercent, fw)
		h := deck.ImageHeight(b, fw)
		resized := imaging.Resize(img, int(w+0.5), int(h+0.5), imaging.Lanczos)

		x := int(deck.AnchorX(b.XPercent, fw) + 0.5)
		y := int(deck.AnchorY(b.YPercent, float64(r.height)) + 0.5)
		dc.DrawImageAnchored(resized, x, y, 0.5, 0.5)
	}
	return nil
}

func (r *Renderer) drawTextBlocks(dc *gg.Context, s deck.Slide) {
	fw := float64(r.width)
	fh := float64(r.height)

	for _, t := range s.TextBlocks {
		size := t.RasterFontPixels()
		if t.Bold() {
			dc.SetFontFace(r.fonts.BoldFace(size))
		} else {
			dc.SetFontFace(r.fonts.Face(size))
		}
		dc.SetHexColor(t.EffectiveColor())

		anchorY := deck.AnchorY(t.YPercent, fh)
		lines := t.Lines()
		offsets := deck.LineOffsets(len(lines), size*deck.LineHeightFactor)

		x, ax := alignedAnchor(t, fw)
		for i, line := range lines {
			dc.DrawStringAnchored(line, x, anchorY+offsets[i], ax, 0.5)
		}
	}
}

// alignedAnchor maps a block's alignment onto a draw position and the
// horizontal anchor fraction gg expects. Centered text anchors at the
// block's center; left and right anchor at the respective block edge.
func alignedAnchor(t deck.TextBlock, canvasWidth float64) (x, ax float64) {
	center := deck.AnchorX(t.XPercent, canvasWidth)
	half := deck.BlockWidth(t.WidthPercent, canvasWidth) / 2

	switch t.Align {
	case deck.AlignLeft:
		return center - half, 0
	case deck.AlignRight:
		return center + half, 1
	default:
		return center, 0.5
	}
}

// EncodePNG encodes a composed image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "png encode")
	}
	return buf.Bytes(), nil
}
