// Package render composites slides into raster images.
//
// # Overview
//
// This package contains the deterministic half of the export pipeline: it
// takes a slide's background reference and overlay blocks and produces a
// flat pixel image. The same geometry rules the editor uses (percent
// anchors measured at block centers, width-derived image heights, fixed
// line-height multiplier) are re-applied here at raster resolution, so the
// exported frame matches what the editor shows.
//
// # Pipeline
//
// Composition is layered, bottom to top:
//
//  1. Solid black canvas at the target resolution
//  2. Background image, letterboxed with preserved aspect ratio
//  3. Image blocks, in insertion order
//  4. Text blocks, in insertion order
//
// Insertion order is z-order: a block appended later paints over an
// earlier one.
//
// The background is chosen with display priority: the clean background
// when present (overlay text is re-drawn from the text blocks, so a baked
// copy would double it), else the upscaled image, else the base image.
//
// # Usage
//
//	r := render.New(loader, fontset)
//	img, err := r.Compose(ctx, slide)
//	data, err := render.EncodePNG(img)
package render
