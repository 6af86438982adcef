package domain

// OntologyCandidate is a single nearest-neighbour hit from the ontology
// vector index, scored for one retrieval query. Candidates are ephemeral:
// they exist only for the duration of one mapping decision.
type OntologyCandidate struct {
	// TermID is the stable ontology code (e.g. "HP:0001263").
	TermID string

	// TermLabel is the ontology term's primary label.
	TermLabel string

	// Description is the indexed text for the term (definition, synonyms).
	Description string

	// Similarity is the retrieval similarity in (0,1], derived from the
	// index distance via SimilarityFromDistance. This is a retrieval score,
	// not the selector's confidence.
	Similarity float64
}

// SimilarityFromDistance converts a non-negative index distance to a
// similarity score: 1/(1+d). A distance of zero maps to 1.0 and the score
// decreases monotonically towards zero as distance grows.
func SimilarityFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
