// Package history implements the snapshot-based undo stack over a deck.
//
// The stack is a bounded linear history: recording a snapshot truncates any
// "future" snapshots beyond the cursor, and the ring retains at most the 50
// most recent snapshots, silently evicting the oldest. That bound is a
// deliberate memory/undo-depth trade-off. Undo moves the cursor back one
// position and clamps at the oldest retained snapshot; calling it at the
// boundary keeps returning that snapshot without error.
//
// There is no redo: a new edit after an undo overwrites the discarded tail.
package history

import "github.com/deckforge/deckforge/pkg/deck"

// DefaultDepth is the maximum number of retained snapshots.
const DefaultDepth = 50

// Stack is a bounded snapshot stack. The zero value is not usable; create
// one with New.
type Stack struct {
	snapshots []deck.Deck
	cursor    int // index of the current snapshot
	depth     int
}

// New creates a history stack seeded with the initial deck state and a
// retention depth of DefaultDepth.
func New(initial deck.Deck) *Stack {
	return NewWithDepth(initial, DefaultDepth)
}

// NewWithDepth creates a history stack with a custom retention depth.
// Depths below 1 are raised to 1.
func NewWithDepth(initial deck.Deck, depth int) *Stack {
	if depth < 1 {
		depth = 1
	}
	return &Stack{
		snapshots: []deck.Deck{initial.Clone()},
		cursor:    0,
		depth:     depth,
	}
}

// Record pushes a new snapshot, discarding any snapshots beyond the cursor
// and evicting the oldest once the retention depth is exceeded.
func (s *Stack) Record(d deck.Deck) {
	s.snapshots = append(s.snapshots[:s.cursor+1], d.Clone())
	if len(s.snapshots) > s.depth {
		evict := len(s.snapshots) - s.depth
		s.snapshots = s.snapshots[evict:]
	}
	s.cursor = len(s.snapshots) - 1
}

// Undo moves the cursor back one position and returns that snapshot. At the
// oldest retained snapshot it is a no-op that keeps returning the same
// snapshot; it never errors and never goes further back.
func (s *Stack) Undo() deck.Deck {
	if s.cursor > 0 {
		s.cursor--
	}
	return s.snapshots[s.cursor].Clone()
}

// Current returns the snapshot at the cursor.
func (s *Stack) Current() deck.Deck {
	return s.snapshots[s.cursor].Clone()
}

// Len returns the number of retained snapshots.
func (s *Stack) Len() int {
	return len(s.snapshots)
}
