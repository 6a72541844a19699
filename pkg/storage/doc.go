// Package storage provides object storage for slide assets.
//
// Generated and user-dropped images are uploaded through a [Store] and
// referenced by URL from the deck. The package ships three stores:
//
//   - [HTTPStore]: uploads blobs to an HTTP endpoint and returns the
//     durable URL it reports.
//   - [InlineStore]: encodes the blob as a base64 data URL. Always
//     succeeds; the "URL" carries the payload itself.
//   - [FallbackStore]: tries a primary store and degrades to an inline
//     data URL when it fails, so an asset is never lost to a storage
//     outage.
package storage
