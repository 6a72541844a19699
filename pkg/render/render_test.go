package render

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/fonts"
)

// solidLoader serves fixed-size solid-color images keyed by reference.
type solidLoader struct {
	images map[string]image.Image
}

func (l *solidLoader) Image(_ context.Context, ref string) (image.Image, error) {
	img, ok := l.images[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no asset %q", ref)
	}
	return img, nil
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testRenderer(t *testing.T, loader Loader) *Renderer {
	t.Helper()
	fc, err := fonts.Load()
	if err != nil {
		t.Fatalf("fonts.Load: %v", err)
	}
	return New(loader, fc, WithSize(320, 180))
}

func TestComposeBackgroundFillsCanvas(t *testing.T) {
	loader := &solidLoader{images: map[string]image.Image{
		"bg.png": solid(320, 180, color.RGBA{R: 200, A: 255}),
	}}
	r := testRenderer(t, loader)

	img, err := r.Compose(context.Background(), deck.Slide{Number: 1, BaseImage: "bg.png"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("bounds = %v, want 320x180", b)
	}

	red, _, _, _ := img.At(160, 90).RGBA()
	if red == 0 {
		t.Error("center pixel should carry the background color")
	}
}

func TestComposeLetterboxesMismatchedAspect(t *testing.T) {
	// A square background on a 16:9 canvas leaves black bars left and right.
	loader := &solidLoader{images: map[string]image.Image{
		"square.png": solid(100, 100, color.RGBA{G: 255, A: 255}),
	}}
	r := testRenderer(t, loader)

	img, err := r.Compose(context.Background(), deck.Slide{Number: 1, BaseImage: "square.png"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	rr, gg, bb, _ := img.At(2, 90).RGBA()
	if rr != 0 || gg != 0 || bb != 0 {
		t.Errorf("left edge should be letterbox black, got (%d, %d, %d)", rr, gg, bb)
	}
	_, gCenter, _, _ := img.At(160, 90).RGBA()
	if gCenter == 0 {
		t.Error("center should carry the background color")
	}
}

func TestComposeUpscalesSmallBackground(t *testing.T) {
	// A 100x50 source on a 320x180 canvas scales up to 320x160, so the
	// sides are covered and only the top and bottom are letterboxed.
	loader := &solidLoader{images: map[string]image.Image{
		"small.png": solid(100, 50, color.RGBA{R: 255, A: 255}),
	}}
	r := testRenderer(t, loader)

	img, err := r.Compose(context.Background(), deck.Slide{Number: 1, BaseImage: "small.png"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	red, _, _, _ := img.At(10, 90).RGBA()
	if red == 0 {
		t.Error("left edge at mid height should carry the upscaled background")
	}
	rr, gg, bb, _ := img.At(10, 4).RGBA()
	if rr != 0 || gg != 0 || bb != 0 {
		t.Errorf("top edge should be letterbox black, got (%d, %d, %d)", rr, gg, bb)
	}
}

func TestComposePrefersCleanBackground(t *testing.T) {
	loader := &solidLoader{images: map[string]image.Image{
		"base.png":  solid(320, 180, color.RGBA{R: 255, A: 255}),
		"clean.png": solid(320, 180, color.RGBA{B: 255, A: 255}),
	}}
	r := testRenderer(t, loader)

	slide := deck.Slide{Number: 1, BaseImage: "base.png", CleanBackground: "clean.png"}
	img, err := r.Compose(context.Background(), slide)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	_, _, blue, _ := img.At(160, 90).RGBA()
	if blue == 0 {
		t.Error("clean background should win over base image")
	}
}

func TestComposeDrawsTextBlocks(t *testing.T) {
	loader := &solidLoader{images: map[string]image.Image{
		"bg.png": solid(320, 180, color.Black),
	}}
	r := testRenderer(t, loader)

	slide := deck.Slide{
		Number:    1,
		BaseImage: "bg.png",
		TextBlocks: []deck.TextBlock{{
			Content:      "Hello",
			XPercent:     50,
			YPercent:     50,
			WidthPercent: 60,
			Size:         deck.SizeLarge,
			Color:        "#ffffff",
		}},
	}
	img, err := r.Compose(context.Background(), slide)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !hasNonBlackPixel(img) {
		t.Error("white text on black background should produce visible pixels")
	}
}

func TestComposeRendersHeadingsBold(t *testing.T) {
	// At the same font size, the bold face covers more pixels than the
	// regular one, so a large block lights up more of the canvas than a
	// medium block with the same content and custom size.
	loader := &solidLoader{images: map[string]image.Image{
		"bg.png": solid(320, 180, color.Black),
	}}
	r := testRenderer(t, loader)

	compose := func(size deck.SizeClass) int {
		slide := deck.Slide{
			Number:    1,
			BaseImage: "bg.png",
			TextBlocks: []deck.TextBlock{{
				Content:        "HEADLINE",
				XPercent:       50,
				YPercent:       50,
				WidthPercent:   80,
				Size:           size,
				CustomFontSize: 30,
				Color:          "#ffffff",
			}},
		}
		img, err := r.Compose(context.Background(), slide)
		if err != nil {
			t.Fatalf("Compose: %v", err)
		}
		return countNonBlackPixels(img)
	}

	if bold, regular := compose(deck.SizeLarge), compose(deck.SizeMedium); bold <= regular {
		t.Errorf("bold coverage = %d, regular = %d, want bold > regular", bold, regular)
	}
}

func TestComposeDrawsImageBlocks(t *testing.T) {
	loader := &solidLoader{images: map[string]image.Image{
		"bg.png":   solid(320, 180, color.Black),
		"logo.png": solid(40, 40, color.RGBA{R: 255, G: 255, A: 255}),
	}}
	r := testRenderer(t, loader)

	block := deck.NewImageBlock("logo.png", 40, 40)
	block.XPercent, block.YPercent, block.WidthPercent = 50, 50, 25

	slide := deck.Slide{Number: 1, BaseImage: "bg.png", ImageBlocks: []deck.ImageBlock{block}}
	img, err := r.Compose(context.Background(), slide)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	rr, gg, _, _ := img.At(160, 90).RGBA()
	if rr == 0 || gg == 0 {
		t.Error("image block should be drawn at its center anchor")
	}
}

func TestComposeMissingBackgroundFails(t *testing.T) {
	r := testRenderer(t, &solidLoader{images: map[string]image.Image{}})

	_, err := r.Compose(context.Background(), deck.Slide{Number: 1, BaseImage: "gone.png"})
	if !errors.Is(err, errors.ErrCodeDecodeFailed) {
		t.Errorf("error = %v, want DECODE_FAILED", err)
	}

	_, err = r.Compose(context.Background(), deck.Slide{Number: 2})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error for empty background = %v, want INVALID_INPUT", err)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(solid(4, 4, color.White))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	// PNG magic bytes.
	if len(data) < 8 || data[1] != 'P' || data[2] != 'N' || data[3] != 'G' {
		t.Error("output does not look like a PNG")
	}
}

func hasNonBlackPixel(img image.Image) bool {
	return countNonBlackPixels(img) > 0
}

func countNonBlackPixels(img image.Image) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0 || g != 0 || bl != 0 {
				n++
			}
		}
	}
	return n
}
