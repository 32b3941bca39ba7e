// internal/workers/validation/stage-criteria/models.go
package stagecriteria

import "validation-workers/internal/models"

type Input struct {
	Stage  string `json:"stage"`
	IdeaID string `json:"ideaId,omitempty"`
}

type Output struct {
	Stage           string                   `json:"stage"`
	Criteria        []models.CriterionWeight `json:"criteria"`
	Rubric          string                   `json:"rubric"`
	Sections        []string                 `json:"sections"`
	CompletedStages []string                 `json:"completedStages,omitempty"`
}
