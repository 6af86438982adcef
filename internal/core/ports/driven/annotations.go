package driven

import "context"

// Gene is a gene associated with a phenotype or disease.
type Gene struct {
	// NCBIGeneID is the NCBI gene identifier (e.g. "675").
	NCBIGeneID string

	// Symbol is the gene symbol (e.g. "BRCA2").
	Symbol string
}

// HPOTerm is an ontology term reference from the annotation database.
type HPOTerm struct {
	// ID is the HPO code (e.g. "HP:0000007").
	ID string

	// Name is the term's primary label. May be empty for tables that do
	// not carry names.
	Name string
}

// Disease is a disease reference from the annotation database.
type Disease struct {
	// ID is the disease identifier (e.g. "OMIM:243400").
	ID string

	// Name is the disease name. May be empty for tables that do not
	// carry names.
	Name string
}

// AnnotationStore provides keyed lookups over the HPO annotation database
// (gene-to-phenotype, phenotype-to-gene, gene-to-disease and disease
// annotation tables). All lookups are exact-match on the key; a miss
// returns domain.ErrNotFound.
type AnnotationStore interface {
	// GenesByHPO returns the genes associated with an HPO term, along with
	// the term's name.
	GenesByHPO(ctx context.Context, hpoID string) (HPOTerm, []Gene, error)

	// HPOByGene returns the HPO terms associated with a gene, along with
	// the gene's symbol.
	HPOByGene(ctx context.Context, geneID string) (Gene, []HPOTerm, error)

	// DiseasesByGene returns the diseases associated with a gene.
	DiseasesByGene(ctx context.Context, geneID string) (Gene, []Disease, error)

	// GenesByDisease returns the genes associated with a disease.
	GenesByDisease(ctx context.Context, diseaseID string) ([]Gene, error)

	// DiseasesByHPO returns the diseases annotated with an HPO term.
	DiseasesByHPO(ctx context.Context, hpoID string) ([]Disease, error)

	// HPOByDisease returns the HPO terms annotating a disease.
	HPOByDisease(ctx context.Context, diseaseID string) ([]HPOTerm, error)

	// HPONameByID resolves an HPO code to its primary label.
	HPONameByID(ctx context.Context, hpoID string) (HPOTerm, error)

	// AllHPOTerms returns every distinct HPO term in the database. Used
	// as the term universe when building the vector index.
	AllHPOTerms(ctx context.Context) ([]HPOTerm, error)

	// Close releases resources.
	Close() error
}
