// Package mcp provides an MCP (Model Context Protocol) server adapter for PhenoMap.
// It enables AI assistants like Claude to run phenotype analysis and query the
// HPO annotation database.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")

// ErrMissingLookupService is returned when the lookup service is not provided.
var ErrMissingLookupService = errors.New("mcp: lookup service is required")
