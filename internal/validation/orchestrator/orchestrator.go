// internal/validation/orchestrator/orchestrator.go

// Package orchestrator is the façade the workers call into. It owns the
// wiring between the scorer, the feedback engine, the improvement engine
// and the document store, and it is the only place stage completion gets
// recorded.
package orchestrator

import (
	"context"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/documents"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/criteria"
	"validation-workers/internal/validation/feedback"
	"validation-workers/internal/validation/improve"
	"validation-workers/internal/validation/persona"
	"validation-workers/internal/validation/scorer"
)

// EvaluateResult bundles a stage score with the persistence outcome.
type EvaluateResult struct {
	Score        *models.ValidationScore `json:"score"`
	NotPersisted bool                    `json:"notPersisted,omitempty"`
}

// StageCriteriaResult describes a stage's rubric for callers that need to
// show it before evaluation runs.
type StageCriteriaResult struct {
	Stage    models.Stage             `json:"stage"`
	Criteria []models.CriterionWeight `json:"criteria"`
	Rubric   string                   `json:"rubric"`
	Sections []string                 `json:"sections"`
}

type Orchestrator struct {
	scorer   *scorer.Scorer
	feedback *feedback.Engine
	improver *improve.Engine
	docs     documents.Store
	personas int
	logger   logger.Logger
}

func New(gen genai.Generator, docs documents.Store, scoringTemp, creativeTemp float64, personaCount int, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		scorer:   scorer.New(gen, scoringTemp, log),
		feedback: feedback.NewEngine(gen, creativeTemp, log),
		improver: improve.NewEngine(gen, docs, creativeTemp, log),
		docs:     docs,
		personas: personaCount,
		logger:   log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// EvaluateStage scores a stage and, when the idea is tracked in the
// document store, records the score and marks the stage completed. Storage
// failures degrade: the score is still returned with NotPersisted set.
func (o *Orchestrator) EvaluateStage(ctx context.Context, stage models.Stage, idea models.IdeaContext) (*EvaluateResult, error) {
	score, err := o.scorer.Score(ctx, stage, idea)
	if err != nil {
		return nil, err
	}

	result := &EvaluateResult{Score: score}
	if idea.IdeaID == "" {
		return result, nil
	}

	if err := o.docs.SaveStageScore(ctx, idea.IdeaID, *score); err != nil {
		o.logger.Error("stage score not persisted", map[string]interface{}{
			"ideaId": idea.IdeaID, "stage": stage.String(), "error": err.Error(),
		})
		metrics.PersistenceFailures.WithLabelValues("stage_score").Inc()
		result.NotPersisted = true
		return result, nil
	}
	if err := o.docs.MarkStageCompleted(ctx, idea.IdeaID, stage); err != nil {
		o.logger.Error("stage completion not recorded", map[string]interface{}{
			"ideaId": idea.IdeaID, "stage": stage.String(), "error": err.Error(),
		})
		metrics.PersistenceFailures.WithLabelValues("stage_completed").Inc()
		result.NotPersisted = true
	}
	return result, nil
}

// CollectStageFeedback fans feedback collection out across the given
// personas and returns their critiques with a cross-persona summary. An
// empty persona list means the caller has no opinion; templates are
// generated from the idea's industry instead.
func (o *Orchestrator) CollectStageFeedback(ctx context.Context, stage models.Stage, personas []models.Persona, idea models.IdeaContext) (*feedback.Result, error) {
	if len(personas) == 0 {
		personas = persona.Build(idea.Idea, idea.Customer, o.personas)
	}
	return o.feedback.Collect(ctx, stage, personas, idea)
}

// ImproveStage rewrites the stage's weak sections and merges them into the
// idea's document when one is tracked.
func (o *Orchestrator) ImproveStage(ctx context.Context, req improve.Request) (*improve.Result, error) {
	return o.improver.Improve(ctx, req)
}

// StageCriteria reports the rubric, weighted criteria and improvable
// sections for a stage without touching the generation service.
func (o *Orchestrator) StageCriteria(stage models.Stage) (*StageCriteriaResult, error) {
	weights, err := criteria.For(stage)
	if err != nil {
		return nil, err
	}
	rubric, err := criteria.Rubric(stage)
	if err != nil {
		return nil, err
	}
	sections, err := criteria.SectionsFor(stage)
	if err != nil {
		return nil, err
	}
	return &StageCriteriaResult{
		Stage:    stage,
		Criteria: weights,
		Rubric:   rubric,
		Sections: sections,
	}, nil
}

// CompletedStages lists the stages already marked complete for an idea.
func (o *Orchestrator) CompletedStages(ctx context.Context, ideaID string) ([]models.Stage, error) {
	if ideaID == "" {
		return nil, errors.NewInvalidInputError("ideaId must not be empty")
	}
	return o.docs.CompletedStages(ctx, ideaID)
}
