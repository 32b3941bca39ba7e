// internal/workers/validation/evaluate-stage/models.go
package evaluatestage

import "validation-workers/internal/models"

type Input struct {
	Stage    string `json:"stage"`
	IdeaID   string `json:"ideaId,omitempty"`
	Idea     string `json:"idea"`
	Customer string `json:"customerDescription"`
}

type Output struct {
	Score        *models.ValidationScore `json:"score"`
	NotPersisted bool                    `json:"notPersisted,omitempty"`
}
