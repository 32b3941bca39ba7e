// internal/models/document.go
package models

import "time"

// Document is the business-plan record owned by the document store. The
// pipeline only reads it and shallow-merges section maps; it never deletes
// or restructures a document.
type Document struct {
	ID              string                     `json:"id"`
	Idea            string                     `json:"idea"`
	Customer        string                     `json:"customerDescription"`
	Sections        map[string]string          `json:"sections"`
	StageScores     map[string]ValidationScore `json:"stageScores"`
	CompletedStages []int                      `json:"completedStages"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

// HasCompletedStage reports whether the stage was evaluated at least once.
// Completion tracks evaluation, not passing.
func (d *Document) HasCompletedStage(stage Stage) bool {
	for _, idx := range d.CompletedStages {
		if idx == int(stage) {
			return true
		}
	}
	return false
}
