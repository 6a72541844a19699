// Package editor translates raw pointer and keyboard events into slide
// model mutations, with selection state layered on top.
//
// # State Machine
//
// Each interactive element follows the same lifecycle:
//
//	Idle ──pointer-down on block──▶ Selected
//	Selected ──down + drag threshold──▶ Dragging ──up──▶ Selected (commit)
//	Selected ──down on corner handle──▶ Resizing ──up──▶ Selected (commit)
//	Selected ──double-click (text)──▶ Editing ──blur──▶ Selected (commit)
//	any ──click on empty canvas──▶ Idle (selection cleared)
//
// Drag deltas are converted to container-relative percentage units
// (deltaPixels / containerSize * 100) against the positions captured when
// the gesture started, clamped to [0,100], and written to the live deck.
// The expensive history commit happens once, on pointer-up, so the undo
// stack never sees intermediate frames of a drag.
//
// # Selection
//
// Text and image selections are mutually exclusive: selecting a block of
// one kind always empties the other kind's selection set, because batch
// style operations (font size, color) apply only to text blocks. A
// modifier-held click toggles membership in the multi-select set; a plain
// click replaces it.
//
// Selection indices are revalidated against the current block count before
// every use. Selection and model state are updated in separate steps, so a
// stale index degrades to a no-op instead of panicking.
//
// # Events
//
// The editor consumes plain event values ([PointerEvent], [Key]) rather
// than any UI framework's types, so the same engine serves the websocket
// channel in the HTTP server and direct calls in tests. All methods must be
// invoked from a single goroutine; the server serializes websocket frames
// and the CLI is sequential, so there is no internal locking.
package editor
