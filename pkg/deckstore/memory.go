package deckstore

import (
	"context"
	"sort"
	"sync"

	"github.com/deckforge/deckforge/pkg/deck"
)

// MemoryStore keeps decks in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	decks map[string]deck.Deck
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{decks: make(map[string]deck.Deck)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (deck.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decks[id]
	if !ok {
		return deck.Deck{}, notFound(id)
	}
	// Clone so callers cannot mutate stored block slices.
	return d.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, d deck.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[d.ID] = d.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return notFound(id)
	}
	delete(s.decks, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.decks))
	for id := range s.decks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
