package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates the extraction LLM output could not be parsed
	// into the expected schema. Fatal to the containing document; a batch
	// continues with the next document.
	ErrExtraction = errors.New("extraction failed")

	// ErrRetrieval indicates an embedding or index lookup failure.
	// Recovered locally as an empty candidate list; the term proceeds
	// to unmapped.
	ErrRetrieval = errors.New("candidate retrieval failed")

	// ErrSelection indicates the selection LLM output was malformed or
	// failed validation (confidence outside [0,1], chosen term not in the
	// presented candidate set). Recovered locally as no mapping for the
	// term; the document continues.
	ErrSelection = errors.New("term selection failed")

	// ErrConfiguration indicates missing required credentials or artifacts
	// (embedding backend, index files). Fatal at pipeline construction,
	// before any document is processed.
	ErrConfiguration = errors.New("pipeline configuration invalid")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the ontology vector index is not
	// configured or could not be loaded.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
