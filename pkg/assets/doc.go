// Package assets fetches and decodes slide images.
//
// A slide references its backgrounds and image blocks by URL. The
// [Loader] resolves those references to decoded images, handling three
// reference forms:
//
//   - data URLs: decoded inline, no network
//   - http(s) URLs: fetched with retry and cached by content hash
//   - anything else: treated as a local file path
//
// The [Registry] keeps assets dropped into an editing session. It is
// created per session and injected where needed rather than shared
// globally, so concurrent sessions cannot see each other's assets.
// Registry entries resolve through the loader via "asset://<id>" refs.
package assets
