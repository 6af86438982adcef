package driven

import "context"

// VectorIndex provides nearest-neighbour search over precomputed ontology
// term embeddings. The index is an external artifact built offline; it is
// read-only during pipeline execution.
type VectorIndex interface {
	// Search finds the k nearest neighbours to the query vector, ordered
	// by ascending distance. Fewer than k hits are returned when the index
	// holds fewer eligible entries.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of ontology terms in the index.
	Size() int

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result over the ontology index.
type VectorHit struct {
	// TermID is the matched ontology code (e.g. "HP:0001263").
	TermID string

	// Label is the ontology term's primary label.
	Label string

	// Description is the indexed text for the term.
	Description string

	// Distance is the raw index distance (lower is closer).
	Distance float64
}
