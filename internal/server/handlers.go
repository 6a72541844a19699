package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/export"
	"github.com/deckforge/deckforge/pkg/generate"
)

// createDeckRequest creates a deck, optionally generating slides in the
// same call.
type createDeckRequest struct {
	Title   string         `json:"title"`
	Prompts []slideRequest `json:"prompts,omitempty"`
}

type slideRequest struct {
	Prompt          string   `json:"prompt"`
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// slideFailure reports one failed slide in a batch.
type slideFailure struct {
	Slide   int    `json:"slide"`
	Message string `json:"message"`
}

type deckResponse struct {
	Deck     deck.Deck      `json:"deck"`
	Failures []slideFailure `json:"failures,omitempty"`
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := errors.ValidateDeckTitle(req.Title); err != nil {
		s.writeError(w, err)
		return
	}

	d := deck.New(req.Title)
	var failures []slideFailure
	if len(req.Prompts) > 0 {
		if s.generator == nil {
			s.writeError(w, errors.New(errors.ErrCodeGenerationFailed, "no generation service configured"))
			return
		}
		generated, failed := s.generator.GenerateDeck(r.Context(), req.Title, toGenerateRequests(req.Prompts))
		generated.ID = d.ID
		d = generated
		failures = toSlideFailures(failed)
	}

	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deckResponse{Deck: d, Failures: failures})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"decks": ids})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deckResponse{Deck: d})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerateSlides(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		s.writeError(w, errors.New(errors.ErrCodeGenerationFailed, "no generation service configured"))
		return
	}

	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req struct {
		Prompts []slideRequest `json:"prompts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Prompts) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "no prompts given"))
		return
	}

	generated, failed := s.generator.GenerateDeck(r.Context(), d.Title, toGenerateRequests(req.Prompts))
	for _, slide := range generated.Slides {
		slide.Number = len(d.Slides) + 1
		d = d.AppendSlide(slide)
	}
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deckResponse{Deck: d, Failures: toSlideFailures(failed)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	dir, err := os.MkdirTemp("", "deckforge-export-")
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeExportFailed, err, "create export dir"))
		return
	}
	defer os.RemoveAll(dir)

	paths, err := s.engine.Export(r.Context(), &d, format, dir)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if len(paths) == 1 {
		serveArtifact(w, r, paths[0])
		return
	}
	// The raster target produces one file per slide; bundle them.
	s.serveZip(w, paths)
}

func serveArtifact(w http.ResponseWriter, r *http.Request, path string) {
	name := filepath.Base(path)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Type", contentTypeFor(name))
	http.ServeFile(w, r, path)
}

func contentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(name, ".pptx"):
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".zip"):
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

func toGenerateRequests(prompts []slideRequest) []generate.Request {
	out := make([]generate.Request, len(prompts))
	for i, p := range prompts {
		out[i] = generate.Request{Prompt: p.Prompt, ReferenceImages: p.ReferenceImages}
	}
	return out
}

func toSlideFailures(failed map[int]error) []slideFailure {
	if len(failed) == 0 {
		return nil
	}
	out := make([]slideFailure, 0, len(failed))
	for n, err := range failed {
		out = append(out, slideFailure{Slide: n, Message: errors.UserMessage(err)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slide < out[j].Slide })
	return out
}
