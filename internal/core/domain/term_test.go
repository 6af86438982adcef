package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermCategory_Normalise(t *testing.T) {
	assert.Equal(t, CategoryNeurological, CategoryNeurological.Normalise())
	assert.Equal(t, CategoryOther, TermCategory("endocrine").Normalise())
	assert.Equal(t, CategoryOther, TermCategory("").Normalise())
}

func TestSeverity_Normalise(t *testing.T) {
	assert.Equal(t, SeveritySevere, SeveritySevere.Normalise())
	assert.Equal(t, SeverityUnknown, Severity("critical").Normalise())
}

func TestTemporal_Normalise(t *testing.T) {
	assert.Equal(t, TemporalChronic, TemporalChronic.Normalise())
	assert.Equal(t, TemporalUnknown, Temporal("intermittent").Normalise())
}

func TestCategories_CoversAll(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 8)
	for _, c := range cats {
		assert.True(t, c.IsValid())
	}
}

func TestClinicalTerm_QueryText(t *testing.T) {
	tests := []struct {
		name string
		term ClinicalTerm
		want string
	}{
		{
			name: "prefers translation",
			term: ClinicalTerm{OriginalText: "发育迟缓", StandardizedText: "生长发育迟缓", TranslatedText: "developmental delay"},
			want: "developmental delay",
		},
		{
			name: "falls back to standardized",
			term: ClinicalTerm{OriginalText: "delay", StandardizedText: "global developmental delay"},
			want: "global developmental delay",
		},
		{
			name: "falls back to original",
			term: ClinicalTerm{OriginalText: "short stature"},
			want: "short stature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.QueryText())
		})
	}
}
