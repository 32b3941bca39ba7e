// internal/validation/feedback/engine.go

// Package feedback fans one critique prompt out per persona and joins the
// results before a single cross-persona summary call. A failed persona
// never aborts the batch: a missing voice must not block the stage score.
package feedback

import (
	"context"
	"strings"
	"sync"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/normalize"
	"validation-workers/internal/validation/prompt"
)

const (
	// FallbackFeedback substitutes a persona whose generation call failed.
	FallbackFeedback = "Could not generate feedback."
	// FallbackSummary substitutes a failed cross-persona summary call.
	FallbackSummary = "Could not generate summary."
)

// Result is a full feedback batch: one item per persona, input order, plus
// the synthesized summary.
type Result struct {
	Feedback []models.FeedbackItem `json:"feedback"`
	Summary  string                `json:"summary"`
}

type Engine struct {
	gen    genai.Generator
	temp   float64
	logger logger.Logger
}

func NewEngine(gen genai.Generator, temperature float64, log logger.Logger) *Engine {
	return &Engine{
		gen:    gen,
		temp:   temperature,
		logger: log.WithFields(map[string]interface{}{"component": "feedback"}),
	}
}

// Collect gathers feedback from every persona concurrently, then issues the
// summary call once all persona results (including fallback-substituted
// ones) are in. The only hard failures are an invalid stage and an
// unavailable generation service.
func (e *Engine) Collect(ctx context.Context, stage models.Stage, personas []models.Persona, idea models.IdeaContext) (*Result, error) {
	if !stage.Valid() {
		return nil, errors.NewInvalidStageError(stage.String())
	}
	if err := e.gen.Available(); err != nil {
		return nil, err
	}

	items := make([]models.FeedbackItem, len(personas))

	var wg sync.WaitGroup
	for i := range personas {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			items[idx] = e.collectOne(ctx, stage, personas[idx], idea)
		}(i)
	}
	wg.Wait()

	summary := e.summarize(ctx, stage, items)

	return &Result{Feedback: items, Summary: summary}, nil
}

// collectOne runs the feedback prompt for a single persona. Any failure
// yields the fallback item instead of an error.
func (e *Engine) collectOne(ctx context.Context, stage models.Stage, p models.Persona, idea models.IdeaContext) models.FeedbackItem {
	fallback := models.FeedbackItem{
		PersonaID: p.ID,
		Stage:     stage,
		Points:    []string{FallbackFeedback},
	}

	spec, err := prompt.Compose(prompt.KindFeedback, stage, prompt.Context{
		Idea:     idea.Idea,
		Customer: idea.Customer,
		Persona:  &p,
	})
	if err != nil {
		e.logger.Warn("feedback prompt compose failed", map[string]interface{}{
			"personaId": p.ID, "error": err.Error(),
		})
		return fallback
	}

	raw, err := e.gen.Generate(ctx, genai.Request{
		Messages: []genai.Message{
			{Role: "system", Content: spec.System},
			{Role: "user", Content: spec.User},
		},
		Temperature: e.temp,
	})
	if err != nil {
		e.logger.Warn("persona feedback generation failed", map[string]interface{}{
			"personaId": p.ID, "stage": stage.String(), "error": err.Error(),
		})
		return fallback
	}

	points, partial := normalize.StringList(raw, []string{FallbackFeedback})
	if partial {
		metrics.PartialParses.WithLabelValues("feedback").Inc()
		e.logger.Debug("feedback response normalized via fallback", map[string]interface{}{
			"personaId": p.ID,
		})
	}

	return models.FeedbackItem{PersonaID: p.ID, Stage: stage, Points: points}
}

// summarize issues the cross-persona synthesis call. It runs only after
// fan-in completes so every persona's points are represented.
func (e *Engine) summarize(ctx context.Context, stage models.Stage, items []models.FeedbackItem) string {
	spec, err := prompt.ComposeSummary(stage, items)
	if err != nil {
		return FallbackSummary
	}

	raw, err := e.gen.Generate(ctx, genai.Request{
		Messages: []genai.Message{
			{Role: "system", Content: spec.System},
			{Role: "user", Content: spec.User},
		},
		Temperature: e.temp,
	})
	if err != nil {
		e.logger.Warn("feedback summary generation failed", map[string]interface{}{
			"stage": stage.String(), "error": err.Error(),
		})
		return FallbackSummary
	}

	summary, _ := normalize.StripFences(raw)
	if strings.TrimSpace(summary) == "" {
		return FallbackSummary
	}
	return summary
}
