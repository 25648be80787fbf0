// Package domain defines the core entities for sdindex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SelfDescribe: A raw self-description document as decoded from JSON
//   - Sanitized: A redacted, shape-normalised self-description
//   - Observer, Monitor: The capability entries of a Sanitized document
//   - Entry: The "bare name or named object" union found in the raw input
//   - Version: One source version of the self-description
//   - FlatDocument: A denormalised record destined for a search index
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
