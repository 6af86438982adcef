package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// CandidateRetriever finds ontology candidates for a clinical term by
// embedding its query text and searching the vector index.
type CandidateRetriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewCandidateRetriever creates a retriever over the given embedding
// service and vector index.
func NewCandidateRetriever(embedder driven.EmbeddingService, index driven.VectorIndex) *CandidateRetriever {
	return &CandidateRetriever{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve finds up to k candidates for the query text, ordered by
// descending similarity. It fails open: transient embedding or index
// errors yield an empty candidate list, never an error, so an
// unretrievable term degrades to "unmapped" instead of aborting the
// document.
func (r *CandidateRetriever) Retrieve(ctx context.Context, query string, k int) []domain.OntologyCandidate {
	candidates, err := r.Query(ctx, query, k)
	if err != nil {
		logger.Warn("Retrieval failed for %q, continuing with no candidates: %v", query, err)
		return []domain.OntologyCandidate{}
	}
	return candidates
}

// Query is the strict variant of Retrieve used by the standalone symptom
// search path, where the caller wants to see the failure. Errors wrap
// domain.ErrRetrieval.
func (r *CandidateRetriever) Query(ctx context.Context, query string, k int) ([]domain.OntologyCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = domain.DefaultRetrievalK
	}

	logger.Debug("Retrieval: query=%q, k=%d", query, k)

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}
	logger.Debug("Retrieval: query embedding has %d dimensions", len(embedding))

	hits, err := r.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: index search: %w", domain.ErrRetrieval, err)
	}

	// Hits arrive ordered by ascending distance; similarity conversion is
	// monotonic, so the descending-similarity order is preserved.
	candidates := make([]domain.OntologyCandidate, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.OntologyCandidate{
			TermID:      hit.TermID,
			TermLabel:   hit.Label,
			Description: hit.Description,
			Similarity:  domain.SimilarityFromDistance(hit.Distance),
		}
	}

	logger.Debug("Retrieval: %d candidates", len(candidates))
	return candidates, nil
}
