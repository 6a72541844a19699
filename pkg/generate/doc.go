// Package generate provides the client for the slide generation service.
//
// # Overview
//
// The generation service turns a text prompt (plus optional reference
// images) into a slide background. Depending on the service deployment it
// may also upscale the image and run text extraction, returning a clean
// background plus the recognized text as editable overlay blocks.
//
// The client speaks a small JSON contract:
//
//	request:  {prompt, reference_images}
//	response: {success, image_url, upscaled_url, clean_background_url,
//	           text_blocks, error}
//
// A response without an explicit success flag is treated as a failure.
//
// # Batch generation
//
// [Client.GenerateDeck] generates one slide per request and assembles a
// deck. Slides are isolated: a failed slide is reported in the returned
// failure map and does not abort its siblings. When the service cannot
// extract text (no OCR capability), the slide keeps its base image and
// simply has no overlay blocks.
//
// # Caching and retries
//
// Responses are cached through [httputil.Cache] under the "generate:"
// namespace, keyed by a hash of the request. Network errors and 5xx
// responses are retried with exponential backoff.
package generate
