// internal/validation/improve/engine.go

// Package improve re-prompts the generation service to rewrite weak
// business-plan sections and merges the result into the document store.
// The rewrite is incremental: existing section text rides along in the
// prompt so the model improves rather than restarts.
package improve

import (
	"context"
	"fmt"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/criteria"
	"validation-workers/internal/validation/normalize"
	"validation-workers/internal/validation/prompt"
)

// Request carries everything one improvement pass needs.
type Request struct {
	Stage           models.Stage
	Idea            models.IdeaContext
	CurrentScore    *models.ValidationScore
	Recommendations []string
	Gaps            []string
}

// Result is the improved section map. NotPersisted is set when the
// document merge failed after a successful improvement; the sections are
// still returned to the caller.
type Result struct {
	Sections     map[string]string `json:"sections"`
	NotPersisted bool              `json:"notPersisted,omitempty"`
}

type Engine struct {
	gen    genai.Generator
	docs   documentsStore
	temp   float64
	logger logger.Logger
}

// documentsStore is the subset of the document store the engine uses.
type documentsStore interface {
	Get(ctx context.Context, ideaID string) (*models.Document, error)
	MergeSections(ctx context.Context, ideaID string, sections map[string]string) (*models.Document, error)
}

func NewEngine(gen genai.Generator, docs documentsStore, temperature float64, log logger.Logger) *Engine {
	return &Engine{
		gen:    gen,
		docs:   docs,
		temp:   temperature,
		logger: log.WithFields(map[string]interface{}{"component": "improve"}),
	}
}

// Improve runs one improvement pass. Every required section key for the
// stage is present in the result; missing keys get a readable placeholder.
func (e *Engine) Improve(ctx context.Context, req Request) (*Result, error) {
	required, err := criteria.SectionsFor(req.Stage)
	if err != nil {
		return nil, err
	}
	if err := e.gen.Available(); err != nil {
		return nil, err
	}

	// Existing sections make the rewrite incremental instead of a cold
	// restart. A missing document is not fatal here; the improvement can
	// still run, it just cannot be persisted.
	var existing map[string]string
	if req.Idea.IdeaID != "" {
		if doc, err := e.docs.Get(ctx, req.Idea.IdeaID); err == nil {
			existing = doc.Sections
		} else {
			e.logger.Warn("document fetch failed before improvement", map[string]interface{}{
				"ideaId": req.Idea.IdeaID, "error": err.Error(),
			})
		}
	}

	spec, err := prompt.Compose(prompt.KindImprove, req.Stage, prompt.Context{
		Idea:            req.Idea.Idea,
		Customer:        req.Idea.Customer,
		Score:           req.CurrentScore,
		Recommendations: req.Recommendations,
		Gaps:            req.Gaps,
		Sections:        existing,
	})
	if err != nil {
		return nil, err
	}

	raw, genErr := e.gen.Generate(ctx, genai.Request{
		Messages: []genai.Message{
			{Role: "system", Content: spec.System},
			{Role: "user", Content: spec.User},
		},
		Temperature: e.temp,
	})
	if genErr != nil {
		e.logger.Warn("improvement generation failed, using placeholders", map[string]interface{}{
			"stage": req.Stage.String(), "error": genErr.Error(),
		})
		raw = ""
	}

	sections, partial := normalize.StringMap(raw, required, placeholderFor)
	if partial {
		metrics.PartialParses.WithLabelValues("improve").Inc()
	}

	result := &Result{Sections: sections}

	if req.Idea.IdeaID != "" {
		if _, err := e.docs.MergeSections(ctx, req.Idea.IdeaID, sections); err != nil {
			persistErr := errors.NewPersistenceFailureError(req.Idea.IdeaID, err)
			e.logger.Error(persistErr.Message, map[string]interface{}{
				"ideaId": req.Idea.IdeaID, "error": err.Error(),
			})
			metrics.PersistenceFailures.WithLabelValues("merge_sections").Inc()
			result.NotPersisted = true
		}
	}

	return result, nil
}

// placeholderFor renders the human-readable stand-in for a section the
// model failed to produce, e.g. "Problem statement will be enhanced".
func placeholderFor(key string) string {
	display := []rune(key)
	var out []rune
	for i, r := range display {
		if i == 0 && r >= 'a' && r <= 'z' {
			out = append(out, r-('a'-'A'))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			out = append(out, ' ', r+('a'-'A'))
			continue
		}
		out = append(out, r)
	}
	return fmt.Sprintf("%s will be enhanced", string(out))
}
