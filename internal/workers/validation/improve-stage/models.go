// internal/workers/validation/improve-stage/models.go
package improvestage

import "validation-workers/internal/models"

type Input struct {
	Stage           string                  `json:"stage"`
	IdeaID          string                  `json:"ideaId,omitempty"`
	Idea            string                  `json:"idea"`
	Customer        string                  `json:"customerDescription"`
	CurrentScore    *models.ValidationScore `json:"currentScore,omitempty"`
	Recommendations []string                `json:"recommendations,omitempty"`
	Gaps            []string                `json:"gaps,omitempty"`
}

type Output struct {
	Sections     map[string]string `json:"sections"`
	NotPersisted bool              `json:"notPersisted,omitempty"`
}
