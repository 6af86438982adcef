package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Ensure AnnotationService implements the interface.
var _ driving.LookupService = (*AnnotationService)(nil)

// AnnotationService answers gene/phenotype/disease association queries
// from the annotation database. It normalises identifiers before lookup
// so callers can pass "hp:0000007" or "omim:243400" as typed.
type AnnotationService struct {
	store driven.AnnotationStore
}

// NewAnnotationService creates a lookup service over the given store.
func NewAnnotationService(store driven.AnnotationStore) (*AnnotationService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: annotation store is required", domain.ErrConfiguration)
	}
	return &AnnotationService{store: store}, nil
}

// GenesByHPO returns the genes associated with an HPO term.
func (s *AnnotationService) GenesByHPO(ctx context.Context, hpoID string) (driven.HPOTerm, []driven.Gene, error) {
	hpoID, err := normaliseHPOID(hpoID)
	if err != nil {
		return driven.HPOTerm{}, nil, err
	}
	logger.Debug("Lookup: genes for %s", hpoID)
	return s.store.GenesByHPO(ctx, hpoID)
}

// HPOByGene returns the HPO terms associated with a gene.
func (s *AnnotationService) HPOByGene(ctx context.Context, geneID string) (driven.Gene, []driven.HPOTerm, error) {
	geneID, err := normaliseID(geneID, "gene ID")
	if err != nil {
		return driven.Gene{}, nil, err
	}
	logger.Debug("Lookup: phenotypes for gene %s", geneID)
	return s.store.HPOByGene(ctx, geneID)
}

// DiseasesByGene returns the diseases associated with a gene.
func (s *AnnotationService) DiseasesByGene(ctx context.Context, geneID string) (driven.Gene, []driven.Disease, error) {
	geneID, err := normaliseID(geneID, "gene ID")
	if err != nil {
		return driven.Gene{}, nil, err
	}
	logger.Debug("Lookup: diseases for gene %s", geneID)
	return s.store.DiseasesByGene(ctx, geneID)
}

// GenesByDisease returns the genes associated with a disease.
func (s *AnnotationService) GenesByDisease(ctx context.Context, diseaseID string) ([]driven.Gene, error) {
	diseaseID, err := normaliseID(diseaseID, "disease ID")
	if err != nil {
		return nil, err
	}
	logger.Debug("Lookup: genes for disease %s", diseaseID)
	return s.store.GenesByDisease(ctx, diseaseID)
}

// DiseasesByHPO returns the diseases annotated with an HPO term.
func (s *AnnotationService) DiseasesByHPO(ctx context.Context, hpoID string) ([]driven.Disease, error) {
	hpoID, err := normaliseHPOID(hpoID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Lookup: diseases for %s", hpoID)
	return s.store.DiseasesByHPO(ctx, hpoID)
}

// HPOByDisease returns the HPO terms annotating a disease.
func (s *AnnotationService) HPOByDisease(ctx context.Context, diseaseID string) ([]driven.HPOTerm, error) {
	diseaseID, err := normaliseID(diseaseID, "disease ID")
	if err != nil {
		return nil, err
	}
	logger.Debug("Lookup: phenotypes for disease %s", diseaseID)
	return s.store.HPOByDisease(ctx, diseaseID)
}

// HPOName resolves an HPO code to its primary label.
func (s *AnnotationService) HPOName(ctx context.Context, hpoID string) (driven.HPOTerm, error) {
	hpoID, err := normaliseHPOID(hpoID)
	if err != nil {
		return driven.HPOTerm{}, err
	}
	logger.Debug("Lookup: name for %s", hpoID)
	return s.store.HPONameByID(ctx, hpoID)
}

// normaliseHPOID trims and upper-cases an HPO code ("hp:0000007" becomes
// "HP:0000007") and rejects inputs that do not look like HPO codes.
func normaliseHPOID(hpoID string) (string, error) {
	hpoID = strings.ToUpper(strings.TrimSpace(hpoID))
	if hpoID == "" {
		return "", fmt.Errorf("%w: empty HPO ID", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(hpoID, "HP:") {
		return "", fmt.Errorf("%w: %q is not an HPO ID", domain.ErrInvalidInput, hpoID)
	}
	return hpoID, nil
}

// normaliseID trims a generic identifier and rejects empty input.
func normaliseID(id, kind string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty %s", domain.ErrInvalidInput, kind)
	}
	return id, nil
}
