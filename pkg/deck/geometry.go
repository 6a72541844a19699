package deck

// Geometry helpers shared by the render pipeline and all three export
// serializers. Each target computes absolute units independently, but the
// percent-to-absolute conversions live here so the semantic position of a
// block agrees across targets.

// LineHeightFactor is the line height multiplier applied to the effective
// font size when laying out multi-line text in every render target.
const LineHeightFactor = 1.3

// AnchorX converts a center x position in percent to an absolute coordinate
// on a target of the given width.
func AnchorX(xPercent, width float64) float64 {
	return xPercent / 100 * width
}

// AnchorY converts a center y position in percent to an absolute coordinate
// on a target of the given height.
func AnchorY(yPercent, height float64) float64 {
	return yPercent / 100 * height
}

// BlockWidth converts a width in percent to an absolute width.
func BlockWidth(widthPercent, width float64) float64 {
	return widthPercent / 100 * width
}

// ImageHeight derives the absolute height of an image block on a canvas of
// the given width. Height is never stored; it always follows from the width
// and the aspect ratio captured at insertion.
func ImageHeight(b ImageBlock, canvasWidth float64) float64 {
	w := BlockWidth(b.WidthPercent, canvasWidth)
	if b.AspectRatio <= 0 {
		return w
	}
	return w / b.AspectRatio
}

// LineOffsets returns the vertical offsets, relative to the block's center,
// of n lines spaced lineHeight apart. The lines as a group are centered:
// for n=1 the only offset is 0, for n=2 the offsets are ±lineHeight/2.
func LineOffsets(n int, lineHeight float64) []float64 {
	offsets := make([]float64, n)
	first := -float64(n-1) / 2 * lineHeight
	for i := range offsets {
		offsets[i] = first + float64(i)*lineHeight
	}
	return offsets
}

// TopLeft converts a percent-center position and absolute block dimensions
// to an absolute top-left corner, clamped to be non-negative. The package
// serializer needs top-left coordinates in its native units.
func TopLeft(xPercent, yPercent, blockW, blockH, targetW, targetH float64) (x, y float64) {
	x = AnchorX(xPercent, targetW) - blockW/2
	y = AnchorY(yPercent, targetH) - blockH/2
	return max(x, 0), max(y, 0)
}
