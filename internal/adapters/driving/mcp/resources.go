package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for PhenoMap resources.
	uriScheme = "phenomap://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Server health, annotation database and vector index availability",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// fileStatus describes one data file backing the server.
type fileStatus struct {
	Exists       bool   `json:"exists"`
	Path         string `json:"path,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// serverStatus is the status resource payload.
type serverStatus struct {
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp"`
	Database  fileStatus `json:"database"`
	Index     fileStatus `json:"index"`
	IndexInfo struct {
		Terms      int `json:"terms"`
		Dimensions int `json:"dimensions"`
	} `json:"index_info"`
	ServerInfo struct {
		Name           string `json:"name"`
		Version        string `json:"version"`
		LLMModel       string `json:"llm_model,omitempty"`
		EmbeddingModel string `json:"embedding_model,omitempty"`
	} `json:"server_info"`
}

// handleStatusResource reports database and index availability.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := serverStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  statFile(s.ports.Status.DatabasePath),
		Index:     statFile(s.ports.Status.IndexPath),
	}
	status.IndexInfo.Terms = s.ports.Status.IndexTerms
	status.IndexInfo.Dimensions = s.ports.Status.IndexDimensions
	status.ServerInfo.Name = "phenomap"
	status.ServerInfo.Version = Version
	status.ServerInfo.LLMModel = s.ports.Status.LLMModel
	status.ServerInfo.EmbeddingModel = s.ports.Status.EmbeddingModel

	if !status.Database.Exists || !status.Index.Exists {
		status.Status = "degraded"
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// statFile reports the existence, size and mtime of one data file.
func statFile(path string) fileStatus {
	if path == "" {
		return fileStatus{}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fileStatus{Path: path}
	}

	return fileStatus{
		Exists:       true,
		Path:         path,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime().Format(time.RFC3339),
	}
}
