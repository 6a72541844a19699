// Package deckstore persists decks between sessions.
//
// Three backends implement [Store]:
//   - memory: process-local, for tests and throwaway sessions
//   - file: one JSON document per deck, for CLI use
//   - mongo: BSON documents in MongoDB, for server deployments
package deckstore

import (
	"context"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
)

// Store is the interface for deck persistence backends.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a deck by ID. A missing deck is DECK_NOT_FOUND.
	Get(ctx context.Context, id string) (deck.Deck, error)

	// Put stores a deck, overwriting any existing deck with the same ID.
	Put(ctx context.Context, d deck.Deck) error

	// Delete removes a deck. Deleting a missing deck is DECK_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored decks.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeDeckNotFound, "deck %q not found", id)
}
