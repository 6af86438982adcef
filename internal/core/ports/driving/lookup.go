package driving

import (
	"context"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
)

// LookupService exposes the annotation database's gene/HPO/disease joins
// as an unrelated read path alongside the mapping pipeline.
type LookupService interface {
	// GenesByHPO returns the genes associated with an HPO term.
	GenesByHPO(ctx context.Context, hpoID string) (driven.HPOTerm, []driven.Gene, error)

	// HPOByGene returns the HPO terms associated with a gene.
	HPOByGene(ctx context.Context, geneID string) (driven.Gene, []driven.HPOTerm, error)

	// DiseasesByGene returns the diseases associated with a gene.
	DiseasesByGene(ctx context.Context, geneID string) (driven.Gene, []driven.Disease, error)

	// GenesByDisease returns the genes associated with a disease.
	GenesByDisease(ctx context.Context, diseaseID string) ([]driven.Gene, error)

	// DiseasesByHPO returns the diseases annotated with an HPO term.
	DiseasesByHPO(ctx context.Context, hpoID string) ([]driven.Disease, error)

	// HPOByDisease returns the HPO terms annotating a disease.
	HPOByDisease(ctx context.Context, diseaseID string) ([]driven.HPOTerm, error)

	// HPOName resolves an HPO code to its primary label.
	HPOName(ctx context.Context, hpoID string) (driven.HPOTerm, error)
}
