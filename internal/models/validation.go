// internal/models/validation.go
package models

// Confidence is the evaluator's self-reported certainty band.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence normalizes a model-reported confidence value, defaulting
// anything unrecognized to low.
func ParseConfidence(raw string) Confidence {
	switch Confidence(raw) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(raw)
	default:
		return ConfidenceLow
	}
}

// CriterionWeight names one scoring sub-criterion of a stage and the 1-10
// score it should reach before the stage is considered solid.
type CriterionWeight struct {
	Name            string  `json:"name"`
	TargetThreshold float64 `json:"targetThreshold"`
}

// ProceedThreshold is the minimum overall score for a stage to pass.
const ProceedThreshold = 7.0

// ValidationScore is the result of evaluating a stage. OverallScore and
// ShouldProceed are always recomputed from Criteria; model-reported
// aggregates are never trusted.
type ValidationScore struct {
	Stage           Stage              `json:"stage"`
	OverallScore    float64            `json:"overallScore"`
	Criteria        map[string]float64 `json:"criteria"`
	Recommendations []string           `json:"recommendations"`
	Confidence      Confidence         `json:"confidence"`
	ShouldProceed   bool               `json:"shouldProceed"`
}

// Recompute derives OverallScore from the per-criterion values and applies
// the proceed gate: mean >= 7 with at least medium confidence.
func (v *ValidationScore) Recompute() {
	if len(v.Criteria) == 0 {
		v.OverallScore = 0
		v.ShouldProceed = false
		return
	}
	var sum float64
	for _, score := range v.Criteria {
		sum += score
	}
	v.OverallScore = sum / float64(len(v.Criteria))
	v.ShouldProceed = v.OverallScore >= ProceedThreshold && v.Confidence != ConfidenceLow
}

// IdeaContext carries the caller-supplied description of the idea under
// evaluation. IdeaID is optional; when present, results are persisted to the
// business-plan document.
type IdeaContext struct {
	IdeaID   string `json:"ideaId,omitempty"`
	Idea     string `json:"idea"`
	Customer string `json:"customerDescription"`
}

// FeedbackItem is one persona's critique of a stage.
type FeedbackItem struct {
	PersonaID string   `json:"personaId"`
	Stage     Stage    `json:"stage"`
	Points    []string `json:"points"`
}
