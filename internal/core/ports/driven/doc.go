// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the mapping pipeline to function:
//
//   - LLMService: Term extraction and candidate selection
//   - EmbeddingService: Query embeddings for candidate retrieval
//   - VectorIndex: Precomputed ontology term vectors (read-only)
//
// Pipeline construction fails with domain.ErrConfiguration when any of
// these is missing - configuration errors surface before any document is
// processed, never mid-batch.
//
// # Optional Interfaces
//
//   - AnnotationStore: Gene/HPO/disease lookups (CLI and MCP read paths)
//   - PromptStore: User-customisable prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
