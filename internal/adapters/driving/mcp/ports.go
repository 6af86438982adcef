package mcp

import (
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs the phenotype mapping pipeline.
	Pipeline driving.PipelineService

	// Lookup queries the HPO annotation database.
	Lookup driving.LookupService

	// Status describes the server's data files for the status resource.
	Status StatusInfo
}

// StatusInfo describes the data files backing the server. All fields are
// informational; empty values are reported as unconfigured.
type StatusInfo struct {
	// DatabasePath is the annotation database file path.
	DatabasePath string

	// IndexPath is the vector index artifact path.
	IndexPath string

	// IndexTerms is the number of terms in the loaded vector index.
	IndexTerms int

	// IndexDimensions is the embedding dimensionality of the loaded index.
	IndexDimensions int

	// LLMModel is the configured chat model name.
	LLMModel string

	// EmbeddingModel is the configured embedding model name.
	EmbeddingModel string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Lookup == nil {
		return ErrMissingLookupService
	}
	return nil
}
