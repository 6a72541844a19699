package deckstore

import (
	"context"
	"testing"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
)

// storeUnderTest exercises the Store contract against any backend.
func storeUnderTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	d := deck.New("roadmap")
	d = d.AppendSlide(deck.Slide{
		Number:    1,
		BaseImage: "https://cdn.example.com/1.png",
		TextBlocks: []deck.TextBlock{
			{Content: "Q3 Goals", XPercent: 50, YPercent: 20, WidthPercent: 60, Size: deck.SizeLarge, Color: "#ffffff", Align: deck.AlignCenter},
		},
	})

	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "roadmap" || len(got.Slides) != 1 {
		t.Fatalf("Get = %+v", got)
	}
	if got.Slides[0].TextBlocks[0].Content != "Q3 Goals" {
		t.Errorf("text block lost in round trip: %+v", got.Slides[0].TextBlocks)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != d.ID {
		t.Errorf("List = %v, want [%s]", ids, d.ID)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeDeckNotFound) {
		t.Errorf("missing deck: want DECK_NOT_FOUND, got %v", err)
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, errors.ErrCodeDeckNotFound) {
		t.Errorf("double delete: want DECK_NOT_FOUND, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	storeUnderTest(t, s)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	d := deck.New("t")
	d = d.AppendSlide(deck.Slide{Number: 1, BaseImage: "a"})
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _ := s.Get(ctx, d.ID)
	got.Slides[0].BaseImage = "mutated"

	again, _ := s.Get(ctx, d.ID)
	if again.Slides[0].BaseImage != "a" {
		t.Error("stored deck mutated through a Get result")
	}
}

func TestFileStorePutWithoutID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Put(context.Background(), deck.Deck{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}
