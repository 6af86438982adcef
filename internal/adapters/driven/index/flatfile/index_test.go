package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o600))
	return path
}

const sampleArtifact = `{"term_id": "HP:0001263", "term_label": "Global developmental delay", "description": "Delayed milestones", "embedding": [1, 0, 0]}
{"term_id": "HP:0012758", "term_label": "Neurodevelopmental delay", "description": "Delay in neurodevelopment", "embedding": [0.8, 0.2, 0]}

{"term_id": "HP:0004322", "term_label": "Short stature", "description": "Height below 2SD", "embedding": [0, 0, 1]}
`

func TestOpen(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 3, idx.Size())
	assert.Equal(t, 3, idx.Dimensions())
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines string
	}{
		{"empty artifact", ""},
		{"malformed line", "not json\n"},
		{"missing term_id", `{"term_label": "x", "embedding": [1]}` + "\n"},
		{"missing embedding", `{"term_id": "HP:0000001"}` + "\n"},
		{"dimension mismatch", `{"term_id": "HP:0000001", "embedding": [1, 0]}` + "\n" + `{"term_id": "HP:0000002", "embedding": [1, 0, 0]}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeArtifact(t, tt.lines))
			require.Error(t, err)
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// Exact match first, at distance zero.
	assert.Equal(t, "HP:0001263", hits[0].TermID)
	assert.Equal(t, "Global developmental delay", hits[0].Label)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)

	// Next closest, ordered by ascending distance.
	assert.Equal(t, "HP:0012758", hits[1].TermID)
	assert.InDelta(t, 0.08, hits[1].Distance, 1e-6)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search(context.Background(), []float32{0, 0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3, "fewer than k hits when the index is smaller")
	assert.Equal(t, "HP:0004322", hits[0].TermID)
}

func TestSearchDimensionMismatch(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	_, err = idx.Search(context.Background(), []float32{1, 0}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestSearchZeroK(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchCancelledContext(t *testing.T) {
	idx, err := Open(writeArtifact(t, sampleArtifact))
	require.NoError(t, err)
	defer idx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.Error(t, err)
}
