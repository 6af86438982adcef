package domain

// TermCategory classifies a clinical term into a body-system group.
type TermCategory string

// Available clinical categories.
const (
	CategoryNeurological    TermCategory = "neurological"
	CategoryCardiovascular  TermCategory = "cardiovascular"
	CategoryRespiratory     TermCategory = "respiratory"
	CategoryDigestive       TermCategory = "digestive"
	CategoryMusculoskeletal TermCategory = "musculoskeletal"
	CategoryDermatological  TermCategory = "dermatological"
	CategoryConstitutional  TermCategory = "constitutional"
	CategoryOther           TermCategory = "other"
)

// Categories returns all recognised clinical categories in a stable order.
func Categories() []TermCategory {
	return []TermCategory{
		CategoryNeurological,
		CategoryCardiovascular,
		CategoryRespiratory,
		CategoryDigestive,
		CategoryMusculoskeletal,
		CategoryDermatological,
		CategoryConstitutional,
		CategoryOther,
	}
}

// IsValid returns true if the category is recognised.
func (c TermCategory) IsValid() bool {
	switch c {
	case CategoryNeurological, CategoryCardiovascular, CategoryRespiratory,
		CategoryDigestive, CategoryMusculoskeletal, CategoryDermatological,
		CategoryConstitutional, CategoryOther:
		return true
	default:
		return false
	}
}

// Normalise maps an unrecognised category to CategoryOther.
func (c TermCategory) Normalise() TermCategory {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// String returns the string representation.
func (c TermCategory) String() string {
	return string(c)
}

// Severity grades how severe a symptom presentation is.
type Severity string

// Available severities.
const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityUnknown  Severity = "unknown"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityUnknown:
		return true
	default:
		return false
	}
}

// Normalise maps an unrecognised severity to SeverityUnknown.
func (s Severity) Normalise() Severity {
	if s.IsValid() {
		return s
	}
	return SeverityUnknown
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// Temporal describes the time course of a symptom.
type Temporal string

// Available temporal patterns.
const (
	TemporalAcute     Temporal = "acute"
	TemporalChronic   Temporal = "chronic"
	TemporalRecurrent Temporal = "recurrent"
	TemporalUnknown   Temporal = "unknown"
)

// IsValid returns true if the temporal pattern is recognised.
func (t Temporal) IsValid() bool {
	switch t {
	case TemporalAcute, TemporalChronic, TemporalRecurrent, TemporalUnknown:
		return true
	default:
		return false
	}
}

// Normalise maps an unrecognised temporal pattern to TemporalUnknown.
func (t Temporal) Normalise() Temporal {
	if t.IsValid() {
		return t
	}
	return TemporalUnknown
}

// String returns the string representation.
func (t Temporal) String() string {
	return string(t)
}

// ClinicalTerm is a single symptom, sign or phenotypic observation extracted
// from a clinical narrative. Terms are immutable once produced by extraction;
// the retriever and selector only read them.
type ClinicalTerm struct {
	// OriginalText is the exact phrase from the source document.
	OriginalText string

	// StandardizedText is the standard medical terminology for the phrase,
	// in the source language.
	StandardizedText string

	// TranslatedText is the precise English medical term when the source
	// language is not English. Empty for English input.
	TranslatedText string

	// Category is the clinical category.
	Category TermCategory

	// Severity grades the presentation.
	Severity Severity

	// Temporal describes the time course.
	Temporal Temporal

	// Context carries additional surrounding information from the narrative.
	Context string

	// Confidence is the extractor's self-reported confidence in [0,1].
	// Extraction performs no filtering on this value; acceptance decisions
	// are made per mapping by the selector.
	Confidence float64
}

// QueryText returns the text used for candidate retrieval: the English
// translation when present, otherwise the standardized term, otherwise
// the original phrase.
func (t ClinicalTerm) QueryText() string {
	if t.TranslatedText != "" {
		return t.TranslatedText
	}
	if t.StandardizedText != "" {
		return t.StandardizedText
	}
	return t.OriginalText
}

// DiagnosticNotes preserves diagnostic information captured during extraction
// that is not itself a mappable symptom.
type DiagnosticNotes struct {
	LabValues           []string
	ImagingFindings     []string
	PhysicalExamination []string
	TemporalInformation []string
	SeverityIndicators  []string
}

// Extraction is the full output of the term extraction stage for one document.
type Extraction struct {
	// Terms are the extracted clinical terms, in document order.
	Terms []ClinicalTerm

	// CategorySummary buckets standardized terms per clinical category.
	CategorySummary map[TermCategory][]string

	// Diagnostics holds non-symptom diagnostic information.
	Diagnostics DiagnosticNotes

	// ProcessingNotes is the extractor's free-text commentary.
	ProcessingNotes string
}
