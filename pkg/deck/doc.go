// Package deck defines the canonical in-memory representation of a slide
// deck: ordered slides, each holding a generated background image plus two
// independently ordered collections of overlay elements (text blocks and
// image blocks).
//
// # Value Semantics
//
// A Deck is a value. Every structural operation (append, remove, replace,
// move, resize) returns a new Deck with freshly copied block slices, so a
// snapshot taken before an edit is never affected by it. This is what makes
// the history ring in [github.com/deckforge/deckforge/pkg/deck/history]
// cheap: recording a snapshot is just keeping the old value.
//
// Operations do not clamp. Positions must already be in [0,100] and widths
// in (0,100] when an operation is invoked; passing values outside those
// ranges is a caller bug, not a recoverable error. The editor performs all
// clamping before it constructs an update.
//
// # Z-Order
//
// Insertion order is z-order: a block later in its slice draws on top of
// earlier ones. There is no separate z-index field; BringToFront variants
// move an element within its owning slice so there is a single source of
// truth.
//
// # Size Classes
//
// Text blocks carry a coarse semantic size (large, medium, small, tiny)
// inherited from text extraction. Each render target maps the class to a
// concrete size through its own fixed table:
//
//	class   editor px  raster px  document pt
//	large      48         77          58
//	medium     32         48          36
//	small      24         35          26
//	tiny       16         23          17
//
// The tables are deliberately not proportional to one another; they are
// tuned per medium and must be kept verbatim. A per-block custom font size
// (set in editor pixels) supersedes the class in every target via a fixed
// per-target conversion factor.
//
// # Serialization
//
// All types carry JSON and BSON tags so a deck round-trips through the
// file store and the MongoDB store identically.
package deck
