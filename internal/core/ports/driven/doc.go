// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document and chunk persistence (the chunk store)
//   - EmbeddingService: Generates unit-length vector embeddings
//   - PostProcessorPipeline: Splits document text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, tailoring is disabled and only
//     retrieval previews are available.
//   - NormaliserRegistry: Text extraction from binary formats. Without it only
//     plain text can be ingested.
//   - BlobStore: Object storage for queued ingestion jobs.
//   - EventPublisher: Job status events for queued work.
//   - Metrics: Pipeline counters and timings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
