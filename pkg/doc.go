// Package pkg provides the core libraries for Deckforge slide-deck creation.
//
// # Overview
//
// Deckforge turns one prompt per slide into an editable deck and exports it
// as PNG, PDF, or PPTX. The pkg directory is organized into five main areas:
//
//  1. [deck] - Domain model (decks, slides, text and image blocks)
//  2. [editor] - Direct-manipulation editing (pointer events, selection, undo)
//  3. [generate] - AI generation client (one request per slide)
//  4. [render] / [export] - Deterministic compositing and the three export targets
//  5. [assets] / [cache] / [deckstore] - Asset loading, caching, and persistence
//
// # Architecture
//
// The typical data flow through Deckforge:
//
//	Prompts
//	     ↓
//	[generate] package (one slide per prompt, failures isolated)
//	     ↓
//	[deck] package (immutable value model, copy-on-write updates)
//	     ↓
//	[editor] package (pointer gestures, 50-deep undo history)
//	     ↓
//	[render] package (compose backgrounds and overlays at 1920x1080)
//	     ↓
//	[export] package (PNG files, PDF pages, PPTX shapes)
//
// # Quick Start
//
// Generate a deck and export it as a PDF:
//
//	import (
//	    "context"
//	    "github.com/deckforge/deckforge/pkg/assets"
//	    "github.com/deckforge/deckforge/pkg/export"
//	    "github.com/deckforge/deckforge/pkg/fonts"
//	    "github.com/deckforge/deckforge/pkg/generate"
//	    "github.com/deckforge/deckforge/pkg/render"
//	)
//
//	// 1. Generate one slide per prompt
//	client := generate.NewClient(endpoint, apiKey)
//	d, failures := client.GenerateDeck(ctx, "Launch", []generate.Request{
//	    {Prompt: "title slide: product launch"},
//	    {Prompt: "roadmap backdrop with three milestones"},
//	})
//
//	// 2. Build the render pipeline
//	fc, _ := fonts.Load()
//	loader := assets.NewLoader()
//	engine := export.New(render.New(loader, fc), loader, fc)
//
//	// 3. Export (atomic: no files are written if any slide fails)
//	paths, _ := engine.Export(ctx, &d, export.FormatPDF, ".")
//
// # Main Packages
//
// [deck] - Immutable deck model. Every mutation returns a new value; block
// positions are percent coordinates of the block center. [deck/history]
// keeps the bounded undo stack.
//
// [editor] - Pointer-event state machine: drag with a 3px threshold, resize
// handles, multi-select for text, double-click text editing. One history
// commit per completed gesture.
//
// [generate] - HTTP client for the generation service. Each slide is an
// independent request; a failed slide never discards its siblings.
//
// [render] - Composes a slide into a raster image: background by display
// priority (clean, upscaled, base), then image blocks, then text blocks.
//
// [export] - Three targets from one deck: PNG per slide, a 16:9 PDF with
// selectable text, and an editable PPTX.
//
// [assets] - Resolves image references (http, data URLs, asset registry,
// local files) with retries and cache backends from [cache].
//
// [deckstore] - Deck persistence: memory, JSON files, or MongoDB.
//
// [errors] - Coded errors shared across packages, plus input validation.
//
// [observability] - Pipeline, cache, and HTTP hooks for instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/editor/...   # Specific package
//
// [deck]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/deck
// [deck/history]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/deck/history
// [editor]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/editor
// [generate]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/generate
// [render]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/render
// [export]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/export
// [assets]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/assets
// [cache]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/cache
// [deckstore]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/deckstore
// [errors]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/deckforge/deckforge/pkg/observability
package pkg
