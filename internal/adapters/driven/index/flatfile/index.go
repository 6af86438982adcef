// Package flatfile provides a vector index adapter over a precomputed
// embedding artifact. The artifact is JSON Lines, one ontology term per
// line with its label, description and embedding vector, built offline
// with the same model the pipeline embeds queries with.
//
// Search is exact brute-force L2. HPO-scale indexes (tens of thousands of
// terms) scan in a few milliseconds, which is noise next to the LLM calls
// either side of retrieval, so no approximate structure is needed.
package flatfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// maxLineBytes bounds a single artifact line. Description plus a
// 1536-dimension vector serialises well under this.
const maxLineBytes = 1 << 20

// entry is one indexed ontology term.
type entry struct {
	TermID      string    `json:"term_id"`
	TermLabel   string    `json:"term_label"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding"`
}

// VectorIndex is an in-memory flat index loaded from an artifact file.
// It is read-only after Open, so searches need no locking.
type VectorIndex struct {
	entries    []entry
	dimensions int
}

// Open loads the index artifact from disk and validates that every entry
// carries the same embedding dimensionality.
func Open(path string) (*VectorIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index artifact: %w", err)
	}
	defer f.Close()

	idx := &VectorIndex{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("index artifact line %d: %w", line, err)
		}
		if e.TermID == "" {
			return nil, fmt.Errorf("index artifact line %d: missing term_id", line)
		}
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("index artifact line %d: missing embedding for %s", line, e.TermID)
		}

		if idx.dimensions == 0 {
			idx.dimensions = len(e.Embedding)
		} else if len(e.Embedding) != idx.dimensions {
			return nil, fmt.Errorf("index artifact line %d: %s has %d dimensions, index has %d",
				line, e.TermID, len(e.Embedding), idx.dimensions)
		}

		idx.entries = append(idx.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index artifact: %w", err)
	}
	if len(idx.entries) == 0 {
		return nil, fmt.Errorf("index artifact %s is empty", path)
	}

	logger.Info("Vector index: %d terms, %d dimensions", len(idx.entries), idx.dimensions)
	return idx, nil
}

// Dimensions returns the embedding dimensionality of the index.
func (idx *VectorIndex) Dimensions() int {
	return idx.dimensions
}

// Search finds the k nearest terms to the query vector by squared L2
// distance, the metric the artifact build uses. Results are ordered by
// ascending distance.
func (idx *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d", len(query), idx.dimensions)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for i := range idx.entries {
		e := &idx.entries[i]
		hits = append(hits, driven.VectorHit{
			TermID:      e.TermID,
			Label:       e.TermLabel,
			Description: e.Description,
			Distance:    squaredL2(query, e.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Size returns the number of ontology terms in the index.
func (idx *VectorIndex) Size() int {
	return len(idx.entries)
}

// Close releases resources.
func (idx *VectorIndex) Close() error {
	idx.entries = nil
	return nil
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
