// internal/workers/validation/collect-feedback/models.go
package collectfeedback

import "validation-workers/internal/models"

type Input struct {
	Stage    string `json:"stage"`
	IdeaID   string `json:"ideaId,omitempty"`
	Idea     string `json:"idea"`
	Customer string `json:"customerDescription"`
	// Personas overrides the generated templates when supplied.
	Personas []models.Persona `json:"personas,omitempty"`
}

type Output struct {
	Feedback []models.FeedbackItem `json:"feedback"`
	Summary  string                `json:"summary"`
}
