package deck

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// Size Classes and Alignment
// =============================================================================

// SizeClass is the coarse semantic size of a text block, assigned by text
// extraction and kept stable across render targets.
type SizeClass string

// Size classes, largest to smallest.
const (
	SizeLarge  SizeClass = "large"
	SizeMedium SizeClass = "medium"
	SizeSmall  SizeClass = "small"
	SizeTiny   SizeClass = "tiny"
)

// Per-target size tables. Each target has its own tuned values; none is
// derived from another.
var (
	editorPixels = map[SizeClass]float64{
		SizeLarge: 48, SizeMedium: 32, SizeSmall: 24, SizeTiny: 16,
	}
	rasterPixels = map[SizeClass]float64{
		SizeLarge: 77, SizeMedium: 48, SizeSmall: 35, SizeTiny: 23,
	}
	documentPoints = map[SizeClass]float64{
		SizeLarge: 58, SizeMedium: 36, SizeSmall: 26, SizeTiny: 17,
	}
)

// Conversion factors applied to a custom font size (always stored in editor
// pixels) when rendering to the other targets.
const (
	rasterCustomScale   = 1.6
	documentCustomScale = 1.2
)

// EditorPixels returns the class's default size on the editor canvas.
// Unknown classes fall back to medium.
func (c SizeClass) EditorPixels() float64 { return sizeOrMedium(editorPixels, c) }

// RasterPixels returns the class's default size at export raster resolution.
func (c SizeClass) RasterPixels() float64 { return sizeOrMedium(rasterPixels, c) }

// Points returns the class's default size in points for the document and
// package targets.
func (c SizeClass) Points() float64 { return sizeOrMedium(documentPoints, c) }

func sizeOrMedium(table map[SizeClass]float64, c SizeClass) float64 {
	if v, ok := table[c]; ok {
		return v
	}
	return table[SizeMedium]
}

// ParseSizeClass converts a wire-format size string to a SizeClass.
// Unknown or empty values map to medium.
func ParseSizeClass(s string) SizeClass {
	switch c := SizeClass(strings.ToLower(strings.TrimSpace(s))); c {
	case SizeLarge, SizeMedium, SizeSmall, SizeTiny:
		return c
	default:
		return SizeMedium
	}
}

// Alignment is the horizontal text alignment of a text block.
type Alignment string

// Alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment converts a wire-format alignment string to an Alignment.
// Unknown or empty values map to center.
func ParseAlignment(s string) Alignment {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignLeft, AlignCenter, AlignRight:
		return a
	default:
		return AlignCenter
	}
}

// =============================================================================
// TextBlock
// =============================================================================

// TextBlock is a positioned, styled span of editable text overlaid on a
// slide background. XPercent/YPercent locate the block's center relative to
// the slide; WidthPercent is the block width as a percentage of slide width.
// Height is never stored: it follows from content and font metrics.
type TextBlock struct {
	Content      string    `json:"content" bson:"content"`
	XPercent     float64   `json:"x_percent" bson:"x_percent"`
	YPercent     float64   `json:"y_percent" bson:"y_percent"`
	WidthPercent float64   `json:"width_percent" bson:"width_percent"`
	Size         SizeClass `json:"size" bson:"size"`

	// CustomFontSize, when non-zero, overrides the size class in every
	// render target. It is expressed in editor-canvas pixels.
	CustomFontSize float64 `json:"custom_font_size,omitempty" bson:"custom_font_size,omitempty"`

	Color string `json:"color" bson:"color"`

	// CustomColor, when non-empty, overrides Color.
	CustomColor string `json:"custom_color,omitempty" bson:"custom_color,omitempty"`

	Align Alignment `json:"align" bson:"align"`
}

// EffectiveColor resolves the color override. Exactly one of Color and
// CustomColor is effective at render time.
func (t TextBlock) EffectiveColor() string {
	if t.CustomColor != "" {
		return t.CustomColor
	}
	return t.Color
}

// EditorFontPixels resolves the effective font size on the editor canvas.
func (t TextBlock) EditorFontPixels() float64 {
	if t.CustomFontSize > 0 {
		return t.CustomFontSize
	}
	return t.Size.EditorPixels()
}

// RasterFontPixels resolves the effective font size at raster export
// resolution. Custom sizes are converted from editor pixels with a fixed
// factor rather than re-read from the class table.
func (t TextBlock) RasterFontPixels() float64 {
	if t.CustomFontSize > 0 {
		return t.CustomFontSize * rasterCustomScale
	}
	return t.Size.RasterPixels()
}

// FontPoints resolves the effective font size in points for the document
// and package targets.
func (t TextBlock) FontPoints() float64 {
	if t.CustomFontSize > 0 {
		return t.CustomFontSize * documentCustomScale
	}
	return t.Size.Points()
}

// Bold reports whether the block renders in the bold face. Large blocks
// are headings and render bold in every target.
func (t TextBlock) Bold() bool {
	return t.Size == SizeLarge
}

// Lines splits the content on explicit newlines. Every render target
// preserves these breaks.
func (t TextBlock) Lines() []string {
	return strings.Split(t.Content, "\n")
}

// =============================================================================
// ImageBlock
// =============================================================================

// ImageBlock is a positioned, resizable user-added image overlaid on a
// slide background. Height is always derived from WidthPercent and the
// aspect ratio captured at insertion time.
type ImageBlock struct {
	// ID is an opaque unique identifier assigned at creation. Block content
	// is not unique, so ID is the only safe render key.
	ID string `json:"id" bson:"id"`

	Src          string  `json:"src" bson:"src"`
	XPercent     float64 `json:"x_percent" bson:"x_percent"`
	YPercent     float64 `json:"y_percent" bson:"y_percent"`
	WidthPercent float64 `json:"width_percent" bson:"width_percent"`

	// AspectRatio is the source image's width/height ratio, captured when
	// the block is created and invariant thereafter.
	AspectRatio float64 `json:"aspect_ratio" bson:"aspect_ratio"`
}

// NewImageBlock creates an image block from a source reference and the
// decoded pixel dimensions of that source.
func NewImageBlock(src string, pixelWidth, pixelHeight int) ImageBlock {
	ratio := 1.0
	if pixelWidth > 0 && pixelHeight > 0 {
		ratio = float64(pixelWidth) / float64(pixelHeight)
	}
	return ImageBlock{
		ID:          uuid.NewString(),
		Src:         src,
		AspectRatio: ratio,
	}
}

// =============================================================================
// Slide
// =============================================================================

// Slide is one page of the deck: a generated background plus positioned
// overlay elements.
type Slide struct {
	// Number is the slide's stable ordinal position, unique across the deck.
	Number int `json:"number" bson:"number"`

	// BaseImage is the AI-generated background. Required, immutable once set.
	BaseImage string `json:"base_image" bson:"base_image"`

	// UpscaledImage is an optional higher-resolution version of the same
	// composition.
	UpscaledImage string `json:"upscaled_image,omitempty" bson:"upscaled_image,omitempty"`

	// CleanBackground is an optional background with the originally baked-in
	// text removed. Its presence signals that the slide's text blocks stand
	// in for extracted text and may be edited in place.
	CleanBackground string `json:"clean_background,omitempty" bson:"clean_background,omitempty"`

	TextBlocks  []TextBlock  `json:"text_blocks,omitempty" bson:"text_blocks,omitempty"`
	ImageBlocks []ImageBlock `json:"image_blocks,omitempty" bson:"image_blocks,omitempty"`
}

// HasEditableOverlays reports whether the slide's text blocks have a clean
// background backing them. Without one, text blocks must not be treated as
// editable for display-priority purposes.
func (s Slide) HasEditableOverlays() bool {
	return s.CleanBackground != ""
}

// DisplayImage returns the background to display: the clean background when
// present and overlay-edit mode is active, else the upscaled image, else
// the base image.
func (s Slide) DisplayImage(overlayEdit bool) string {
	if overlayEdit && s.CleanBackground != "" {
		return s.CleanBackground
	}
	if s.UpscaledImage != "" {
		return s.UpscaledImage
	}
	return s.BaseImage
}

// Clone returns a deep copy of the slide: block slices are copied so
// mutations of the clone never reach the original.
func (s Slide) Clone() Slide {
	out := s
	if s.TextBlocks != nil {
		out.TextBlocks = make([]TextBlock, len(s.TextBlocks))
		copy(out.TextBlocks, s.TextBlocks)
	}
	if s.ImageBlocks != nil {
		out.ImageBlocks = make([]ImageBlock, len(s.ImageBlocks))
		copy(out.ImageBlocks, s.ImageBlocks)
	}
	return out
}
