package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeMappedOutcome(confidence float64) TermOutcome {
	term := ClinicalTerm{OriginalText: "developmental delay", Category: CategoryNeurological}
	return TermOutcome{
		Term:   term,
		Status: StatusMapped,
		Mapping: &OntologyMapping{
			SourceTerm:        term,
			SelectedTermID:    "HP:0001263",
			SelectedTermLabel: "Global developmental delay",
			Confidence:        confidence,
		},
	}
}

func TestSummarise_Empty(t *testing.T) {
	summary := Summarise(nil)

	assert.Equal(t, 0, summary.TotalTerms)
	assert.Equal(t, 0, summary.SuccessfullyMapped)
	assert.Equal(t, 0, summary.HighConfidenceMapped)
	assert.Zero(t, summary.AverageConfidence)
	assert.Zero(t, summary.SuccessRate)
}

func TestSummarise_AllMapped(t *testing.T) {
	outcomes := []TermOutcome{
		makeMappedOutcome(0.9),
		makeMappedOutcome(0.7),
	}

	summary := Summarise(outcomes)

	assert.Equal(t, 2, summary.TotalTerms)
	assert.Equal(t, 2, summary.SuccessfullyMapped)
	assert.Equal(t, 1, summary.HighConfidenceMapped)
	assert.InDelta(t, 0.8, summary.AverageConfidence, 1e-9)
	assert.InDelta(t, 1.0, summary.SuccessRate, 1e-9)
}

func TestSummarise_Mixed(t *testing.T) {
	outcomes := []TermOutcome{
		makeMappedOutcome(0.85),
		{Status: StatusNoCandidates},
		{Status: StatusLowConfidence, Reason: "no candidate met the threshold"},
		{Status: StatusError, Reason: "malformed selector output"},
	}

	summary := Summarise(outcomes)

	assert.Equal(t, 4, summary.TotalTerms)
	assert.Equal(t, 1, summary.SuccessfullyMapped)
	assert.Equal(t, 1, summary.HighConfidenceMapped)
	// Average is over accepted mappings only, not all terms.
	assert.InDelta(t, 0.85, summary.AverageConfidence, 1e-9)
	assert.InDelta(t, 0.25, summary.SuccessRate, 1e-9)
}

func TestSummarise_Invariants(t *testing.T) {
	cases := [][]TermOutcome{
		nil,
		{makeMappedOutcome(0.95)},
		{makeMappedOutcome(0.7), makeMappedOutcome(0.8), {Status: StatusError}},
		{{Status: StatusNoCandidates}, {Status: StatusLowConfidence}},
	}

	for _, outcomes := range cases {
		summary := Summarise(outcomes)
		assert.LessOrEqual(t, summary.HighConfidenceMapped, summary.SuccessfullyMapped)
		assert.LessOrEqual(t, summary.SuccessfullyMapped, summary.TotalTerms)
	}
}

func TestDocumentResult_Failed(t *testing.T) {
	assert.False(t, DocumentResult{}.Failed())
	assert.True(t, DocumentResult{Error: "extraction failed"}.Failed())
}

func TestMappingQuality_IsValid(t *testing.T) {
	assert.True(t, QualityExcellent.IsValid())
	assert.True(t, QualityPoor.IsValid())
	assert.False(t, MappingQuality("great").IsValid())
}
