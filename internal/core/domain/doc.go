// Package domain defines the core business entities for PhenoMap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ClinicalTerm: A symptom extracted from a clinical narrative
//   - OntologyCandidate: A nearest-neighbour hit from the ontology index
//   - OntologyMapping: An accepted term-to-ontology mapping
//   - TermOutcome: The discriminated per-term mapping result
//   - DocumentResult: The complete pipeline output for one document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
