// Package export turns a deck into downloadable artifacts.
//
// # Overview
//
// Three formats are supported, each built from the same slide model:
//
//   - PNG: one flattened raster image per slide, via the render package
//   - PDF: one page per slide, background and image blocks embedded as
//     images, text drawn as real selectable PDF text
//   - PPTX: an editable package where every text and image block becomes
//     its own shape
//
// All three targets re-apply the model's percent-center geometry in their
// own unit system (raster pixels, points, EMU), so a block keeps its place
// no matter which format is produced.
//
// # Atomicity
//
// An export either produces its complete file set or nothing. Artifacts
// are built fully in memory before any file is written, and a failed write
// removes the files written before it. Callers never observe a partial
// export on disk.
//
// Callers are responsible for flushing in-flight editor state (via the
// editor's Sync) before handing a deck to the engine.
package export
