package deck

import (
	"math"
	"testing"
)

func TestAnchorCentering(t *testing.T) {
	// A block centered at 50% must anchor at exactly half the target width
	// in every target's unit system.
	targets := []struct {
		name  string
		width float64
	}{
		{"raster", 1920},
		{"document", 960},
		{"package emu", 9144000},
	}
	for _, tt := range targets {
		if got := AnchorX(50, tt.width); got != tt.width/2 {
			t.Errorf("%s: AnchorX(50) = %v, want %v", tt.name, got, tt.width/2)
		}
	}

	if got := AnchorY(25, 1080); got != 270 {
		t.Errorf("AnchorY(25, 1080) = %v, want 270", got)
	}
	if got := BlockWidth(40, 1920); got != 768 {
		t.Errorf("BlockWidth(40, 1920) = %v, want 768", got)
	}
}

func TestImageHeight(t *testing.T) {
	b := ImageBlock{WidthPercent: 50, AspectRatio: 2}
	if got := ImageHeight(b, 1920); got != 480 {
		t.Errorf("ImageHeight = %v, want 480", got)
	}

	// Zero aspect ratio degrades to a square rather than dividing by zero.
	b.AspectRatio = 0
	if got := ImageHeight(b, 1920); got != 960 {
		t.Errorf("ImageHeight with zero ratio = %v, want 960", got)
	}
}

func TestLineOffsets(t *testing.T) {
	const lh = 26.0

	one := LineOffsets(1, lh)
	if len(one) != 1 || one[0] != 0 {
		t.Errorf("LineOffsets(1) = %v, want [0]", one)
	}

	two := LineOffsets(2, lh)
	if two[0] != -lh/2 || two[1] != lh/2 {
		t.Errorf("LineOffsets(2) = %v, want [-13 13]", two)
	}

	three := LineOffsets(3, lh)
	want := []float64{-lh, 0, lh}
	for i := range want {
		if math.Abs(three[i]-want[i]) > 1e-9 {
			t.Fatalf("LineOffsets(3) = %v, want %v", three, want)
		}
	}
}

func TestTopLeftClampsNonNegative(t *testing.T) {
	x, y := TopLeft(50, 50, 400, 100, 1920, 1080)
	if x != 760 || y != 490 {
		t.Errorf("TopLeft = (%v, %v), want (760, 490)", x, y)
	}

	// A block whose box extends past the origin clamps to zero.
	x, y = TopLeft(1, 1, 400, 100, 1920, 1080)
	if x != 0 || y != 0 {
		t.Errorf("TopLeft near origin = (%v, %v), want (0, 0)", x, y)
	}
}
