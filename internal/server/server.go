// Package server exposes the deck engine over HTTP.
//
// Routes:
//
//	POST   /api/decks                      create a deck (optionally generating slides)
//	GET    /api/decks                      list deck IDs
//	GET    /api/decks/{id}                 fetch a deck document
//	DELETE /api/decks/{id}                 delete a deck
//	POST   /api/decks/{id}/slides          generate and append slides
//	GET    /api/decks/{id}/export/{format} download an export artifact
//	GET    /api/decks/{id}/editor          websocket editor channel
//
// Editing happens over the websocket channel: the client streams pointer
// and keyboard frames, the server feeds them through one editor per
// connection, and replies carry deck snapshots. Frames for one connection
// are processed sequentially, which keeps editor mutation single-threaded.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deckforge/deckforge/pkg/deckstore"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/export"
	"github.com/deckforge/deckforge/pkg/generate"
	"github.com/deckforge/deckforge/pkg/storage"
)

// Server wires the deck store, generation client, and export engine into
// an HTTP handler.
type Server struct {
	store     deckstore.Store
	generator *generate.Client
	engine    *export.Engine
	assets    storage.Store
	logger    *log.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAssetStore sets the store that uploaded editor images are written
// to. The default inlines them as data URLs.
func WithAssetStore(store storage.Store) Option {
	return func(s *Server) { s.assets = store }
}

// New creates a Server. The generator may be nil, in which case the
// slide generation routes report GENERATION_FAILED.
func New(store deckstore.Store, generator *generate.Client, engine *export.Engine, opts ...Option) *Server {
	s := &Server{
		store:     store,
		generator: generator,
		engine:    engine,
		assets:    storage.NewInlineStore(),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/decks", func(r chi.Router) {
		r.Post("/", s.handleCreateDeck)
		r.Get("/", s.handleListDecks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Delete("/", s.handleDeleteDeck)
			r.Post("/slides", s.handleGenerateSlides)
			r.Get("/export/{format}", s.handleExport)
			r.Get("/editor", s.handleEditor)
		})
	})
	return r
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a structured error code to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPrompt,
		errors.ErrCodeInvalidReference, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidColor:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDeckNotFound:
		return http.StatusNotFound
	case errors.ErrCodeGenerationFailed, errors.ErrCodeOCRUnavailable,
		errors.ErrCodeStorageFailed, errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
