package domain

import "time"

// Confidence thresholds for mapping acceptance.
const (
	// DefaultConfidenceThreshold is the minimum selector confidence required
	// before a mapping is accepted.
	DefaultConfidenceThreshold = 0.7

	// HighConfidenceThreshold marks a mapping as high confidence in the
	// document summary.
	HighConfidenceThreshold = 0.8
)

// MappingQuality is the selector's qualitative grade for a mapping.
type MappingQuality string

// Available mapping quality grades.
const (
	QualityExcellent MappingQuality = "excellent"
	QualityGood      MappingQuality = "good"
	QualityFair      MappingQuality = "fair"
	QualityPoor      MappingQuality = "poor"
)

// IsValid returns true if the quality grade is recognised.
func (q MappingQuality) IsValid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (q MappingQuality) String() string {
	return string(q)
}

// OntologyMapping is an accepted mapping from one clinical term to one
// ontology term. A mapping exists only when the selector's confidence met
// the acceptance threshold; rejected selections produce no mapping.
type OntologyMapping struct {
	// SourceTerm is the clinical term the mapping was made for.
	SourceTerm ClinicalTerm

	// SelectedTermID is the chosen ontology code. It is always a member of
	// the candidate set that was presented to the selector.
	SelectedTermID string

	// SelectedTermLabel is the chosen ontology term's label.
	SelectedTermLabel string

	// Confidence is the selector's self-reported confidence in [0,1].
	// It is not calibrated against retrieval similarity.
	Confidence float64

	// Reasoning is the selector's explanation for the choice.
	Reasoning string

	// Quality is the selector's qualitative grade.
	Quality MappingQuality
}

// MappingStatus discriminates the outcome of mapping one clinical term.
type MappingStatus string

// Per-term mapping outcomes.
const (
	// StatusMapped means a mapping was accepted.
	StatusMapped MappingStatus = "mapped"

	// StatusNoCandidates means retrieval produced no candidates.
	StatusNoCandidates MappingStatus = "no_candidates"

	// StatusLowConfidence means the selector declined every candidate or
	// reported a confidence below the threshold.
	StatusLowConfidence MappingStatus = "low_confidence"

	// StatusError means the term failed with a recoverable error
	// (malformed selector output, timeout). The document continues.
	StatusError MappingStatus = "error"
)

// String returns the string representation.
func (s MappingStatus) String() string {
	return string(s)
}

// TermOutcome records what happened to one clinical term during mapping.
// Every extracted term produces exactly one outcome; none are dropped.
type TermOutcome struct {
	// Term is the clinical term this outcome is for.
	Term ClinicalTerm

	// Status discriminates the result.
	Status MappingStatus

	// Mapping is set only when Status is StatusMapped.
	Mapping *OntologyMapping

	// Reason carries the selector's rejection reasoning or the error text
	// for unmapped outcomes.
	Reason string
}

// MappingSummary aggregates mapping outcomes over one document.
type MappingSummary struct {
	// TotalTerms is the number of clinical terms extracted.
	TotalTerms int

	// SuccessfullyMapped is the number of accepted mappings.
	SuccessfullyMapped int

	// HighConfidenceMapped counts accepted mappings with confidence at or
	// above HighConfidenceThreshold.
	HighConfidenceMapped int

	// AverageConfidence is the mean confidence over accepted mappings only.
	// Zero when nothing was mapped.
	AverageConfidence float64

	// SuccessRate is SuccessfullyMapped/TotalTerms, zero when no terms
	// were extracted.
	SuccessRate float64
}

// Summarise computes the summary for a set of term outcomes.
func Summarise(outcomes []TermOutcome) MappingSummary {
	summary := MappingSummary{TotalTerms: len(outcomes)}

	var totalConfidence float64
	for _, o := range outcomes {
		if o.Status != StatusMapped || o.Mapping == nil {
			continue
		}
		summary.SuccessfullyMapped++
		totalConfidence += o.Mapping.Confidence
		if o.Mapping.Confidence >= HighConfidenceThreshold {
			summary.HighConfidenceMapped++
		}
	}

	if summary.SuccessfullyMapped > 0 {
		summary.AverageConfidence = totalConfidence / float64(summary.SuccessfullyMapped)
	}
	if summary.TotalTerms > 0 {
		summary.SuccessRate = float64(summary.SuccessfullyMapped) / float64(summary.TotalTerms)
	}

	return summary
}

// DocumentResult is the complete pipeline output for one input document.
// Results in a batch are independent of each other.
type DocumentResult struct {
	// ID identifies this pipeline run for log correlation.
	ID string

	// SourceText is the input clinical narrative.
	SourceText string

	// Extraction is the term extraction output. Nil when extraction failed.
	Extraction *Extraction

	// Outcomes records the mapping result for every extracted term.
	Outcomes []TermOutcome

	// Mappings lists the accepted mappings, in term order.
	Mappings []OntologyMapping

	// Summary aggregates the outcomes.
	Summary MappingSummary

	// ProcessingTime is the wall-clock duration from before extraction to
	// after aggregation.
	ProcessingTime time.Duration

	// Timestamp is when processing finished.
	Timestamp time.Time

	// Error is set only when the document failed as a whole (extraction
	// failure). A document with unmapped terms but successful extraction
	// has an empty Error and a SuccessRate below 1.0; the two states are
	// distinct.
	Error string
}

// Failed returns true if the document failed as a whole.
func (r DocumentResult) Failed() bool {
	return r.Error != ""
}
