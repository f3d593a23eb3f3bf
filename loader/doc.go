// Package loader reads program inputs (wasm binaries, scripts, data files)
// through a host filesystem before any mount exists.
//
// Names may be plain host paths, file:// URLs, or data: URIs carrying the
// content inline.
package loader
