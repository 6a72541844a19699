package editor

// PointerKind discriminates the phases of a pointer gesture.
type PointerKind string

// Pointer event kinds.
const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
)

// TargetKind identifies what a pointer event landed on.
type TargetKind string

// Pointer targets.
const (
	TargetCanvas TargetKind = "canvas" // empty canvas area
	TargetText   TargetKind = "text"
	TargetImage  TargetKind = "image"
	TargetHandle TargetKind = "handle" // corner resize handle of an image block
)

// Target describes the element under the pointer. Index addresses the block
// within its kind's slice on the active slide; it is ignored for
// TargetCanvas.
type Target struct {
	Kind  TargetKind `json:"kind"`
	Index int        `json:"index"`
}

// PointerEvent is a raw pointer (mouse/touch) event in container pixel
// coordinates. Modifier reports whether the platform multi-select modifier
// was held.
type PointerEvent struct {
	Kind     PointerKind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Modifier bool        `json:"modifier,omitempty"`
	Target   Target      `json:"target"`
}

// Key is a keyboard command relevant to the editor. The transport layer is
// responsible for mapping platform conventions (Cmd+Z vs Ctrl+Z) onto
// KeyUndo before events reach the editor.
type Key string

// Keyboard commands.
const (
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyUndo      Key = "undo"
)

// DragThreshold is the distance in pixels a pointer must travel from its
// down position before a press becomes a drag.
const DragThreshold = 3.0
