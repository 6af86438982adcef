package driving

import (
	"context"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
)

// PipelineService transforms clinical narratives into ontology mappings.
type PipelineService interface {
	// Transform processes one document through the full extraction,
	// retrieval and selection pipeline. It never returns an error for
	// document-level failures: a document that fails extraction yields a
	// result with the Error field set. The returned error is reserved for
	// caller mistakes (nil context, cancelled before start).
	Transform(ctx context.Context, text string) *domain.DocumentResult

	// BatchTransform processes each document independently and returns one
	// result per input, in input order. A failed document does not stop
	// the batch.
	BatchTransform(ctx context.Context, texts []string) []*domain.DocumentResult

	// SearchSymptom runs a standalone candidate retrieval for one symptom
	// phrase, without extraction or selection. Used by the CLI search
	// command and the MCP search tool.
	SearchSymptom(ctx context.Context, symptom string, k int) ([]domain.OntologyCandidate, error)
}
