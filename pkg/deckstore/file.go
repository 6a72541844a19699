package deckstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
)

// FileStore persists each deck as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based deck store.
// If baseDir is empty, defaults to ~/.config/deckforge/decks/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "deckforge", "decks")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create deck dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) deckPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (deck.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.deckPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return deck.Deck{}, notFound(id)
		}
		return deck.Deck{}, fmt.Errorf("read deck file: %w", err)
	}

	var d deck.Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return deck.Deck{}, errors.Wrap(errors.ErrCodeDecodeFailed, err, "parse deck %q", id)
	}
	return d, nil
}

func (s *FileStore) Put(_ context.Context, d deck.Deck) error {
	if d.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "deck has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	if err := os.WriteFile(s.deckPath(d.ID), data, 0o600); err != nil {
		return fmt.Errorf("write deck file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.deckPath(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("remove deck file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the base directory for deck files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
