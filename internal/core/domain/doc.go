// Package domain defines the core business entities for Tailor.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested résumé and its extracted text
//   - Chunk: A bounded, citable segment of a document
//   - RetrievalResult: Chunks ranked by similarity to a query
//   - TailoredBullet: A generated statement with its resolved citations
//   - RawDocument: Opaque bytes before text extraction
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
