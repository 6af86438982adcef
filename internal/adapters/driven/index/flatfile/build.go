package flatfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

// DefaultBuildBatchSize is how many term labels are embedded per request
// when building an index artifact.
const DefaultBuildBatchSize = 64

// Build embeds the labels of the given ontology terms and writes a new
// index artifact at path, replacing any existing one. The artifact is
// written to a temporary file first and renamed into place, so a failed
// build leaves the previous index usable. Returns the number of terms
// written.
func Build(ctx context.Context, path string, terms []driven.HPOTerm, embedder driven.EmbeddingService, batchSize int) (int, error) {
	if len(terms) == 0 {
		return 0, fmt.Errorf("no terms to index")
	}
	if batchSize <= 0 {
		batchSize = DefaultBuildBatchSize
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return 0, fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-build-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary artifact: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)

	written := 0
	for start := 0; start < len(terms); start += batchSize {
		end := min(start+batchSize, len(terms))
		batch := terms[start:end]

		texts := make([]string, len(batch))
		for i, t := range batch {
			texts[i] = t.Name
		}

		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embedding terms %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("embedding terms %d-%d: got %d vectors for %d texts",
				start, end-1, len(vectors), len(batch))
		}

		for i, t := range batch {
			e := entry{TermID: t.ID, TermLabel: t.Name, Embedding: vectors[i]}
			if err := enc.Encode(e); err != nil {
				return 0, fmt.Errorf("writing entry for %s: %w", t.ID, err)
			}
			written++
		}
		logger.Debug("Index build: embedded %d/%d terms", written, len(terms))
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flushing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replacing index artifact: %w", err)
	}

	logger.Info("Index build: wrote %d terms to %s", written, path)
	return written, nil
}
