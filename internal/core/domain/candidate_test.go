package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityFromDistance_ZeroDistance(t *testing.T) {
	assert.InDelta(t, 1.0, SimilarityFromDistance(0.0), 1e-9)
}

func TestSimilarityFromDistance_LargeDistance(t *testing.T) {
	assert.Less(t, SimilarityFromDistance(1e9), 1e-8)
	assert.InDelta(t, 0.0, SimilarityFromDistance(math.Inf(1)), 1e-9)
}

func TestSimilarityFromDistance_Monotonic(t *testing.T) {
	distances := []float64{0.0, 0.1, 0.5, 1.0, 2.0, 10.0, 100.0}

	prev := math.Inf(1)
	for _, d := range distances {
		score := SimilarityFromDistance(d)
		assert.Less(t, score, prev, "score must decrease as distance grows (d=%v)", d)
		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		prev = score
	}
}

func TestSimilarityFromDistance_KnownValues(t *testing.T) {
	assert.InDelta(t, 0.5, SimilarityFromDistance(1.0), 1e-9)
	assert.InDelta(t, 0.25, SimilarityFromDistance(3.0), 1e-9)
}
