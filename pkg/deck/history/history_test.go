package history

import (
	"fmt"
	"testing"

	"github.com/deckforge/deckforge/pkg/deck"
)

func deckWithTitle(title string) deck.Deck {
	return deck.Deck{ID: "d1", Title: title}
}

func TestRecordAndUndo(t *testing.T) {
	s := New(deckWithTitle("v0"))

	s.Record(deckWithTitle("v1"))
	s.Record(deckWithTitle("v2"))

	if got := s.Current().Title; got != "v2" {
		t.Errorf("Current = %q, want v2", got)
	}
	if got := s.Undo().Title; got != "v1" {
		t.Errorf("Undo = %q, want v1", got)
	}
	if got := s.Undo().Title; got != "v0" {
		t.Errorf("Undo = %q, want v0", got)
	}
}

func TestUndoDepth(t *testing.T) {
	// After 60 sequential edits exactly 50 snapshots are recoverable;
	// anything older was evicted from the ring.
	s := New(deckWithTitle("initial"))
	for i := 1; i <= 60; i++ {
		s.Record(deckWithTitle(fmt.Sprintf("edit-%d", i)))
	}

	if s.Len() != DefaultDepth {
		t.Fatalf("Len = %d, want %d", s.Len(), DefaultDepth)
	}

	// 49 undos walk back to the oldest retained snapshot.
	var last deck.Deck
	for i := 0; i < DefaultDepth-1; i++ {
		last = s.Undo()
	}
	if last.Title != "edit-11" {
		t.Errorf("oldest recoverable = %q, want edit-11", last.Title)
	}

	// The 51st-oldest edit is unrecoverable.
	if got := s.Undo().Title; got != "edit-11" {
		t.Errorf("Undo past boundary = %q, want edit-11", got)
	}
}

func TestUndoIdempotentAtBoundary(t *testing.T) {
	s := New(deckWithTitle("v0"))
	s.Record(deckWithTitle("v1"))

	s.Undo() // back to v0
	for i := 0; i < 5; i++ {
		if got := s.Undo().Title; got != "v0" {
			t.Fatalf("Undo #%d = %q, want v0", i, got)
		}
	}
}

func TestRecordTruncatesFuture(t *testing.T) {
	s := New(deckWithTitle("v0"))
	s.Record(deckWithTitle("v1"))
	s.Record(deckWithTitle("v2"))

	s.Undo() // cursor at v1
	s.Record(deckWithTitle("v1b"))

	if got := s.Current().Title; got != "v1b" {
		t.Errorf("Current = %q, want v1b", got)
	}
	if got := s.Undo().Title; got != "v1" {
		t.Errorf("Undo = %q, want v1", got)
	}
	// v2 was discarded; undoing further reaches v0, never v2.
	if got := s.Undo().Title; got != "v0" {
		t.Errorf("Undo = %q, want v0", got)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	d := deck.New("deck")
	d = d.AppendSlide(deck.Slide{BaseImage: "a.png"})
	d = d.AppendTextBlock(0, deck.TextBlock{Content: "hello", Size: deck.SizeMedium})

	s := New(d)
	edited := d.ReplaceTextBlock(0, 0, deck.TextBlock{Content: "edited", Size: deck.SizeMedium})
	s.Record(edited)

	// Mutating the recorded value afterwards must not reach the snapshot.
	edited.Slides[0].TextBlocks[0].Content = "mutated"

	if got := s.Current().Slides[0].TextBlocks[0].Content; got != "edited" {
		t.Errorf("snapshot content = %q, want edited", got)
	}
	if got := s.Undo().Slides[0].TextBlocks[0].Content; got != "hello" {
		t.Errorf("undone content = %q, want hello", got)
	}
}
