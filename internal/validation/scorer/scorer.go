// internal/validation/scorer/scorer.go

// Package scorer issues the single scoring call for a stage and normalizes
// it into a ValidationScore. The model-reported aggregate and proceed flag
// are never trusted: both are recomputed from the per-criterion values so
// gating stays deterministic even against a malformed completion.
package scorer

import (
	"context"
	"strconv"
	"strings"

	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/criteria"
	"validation-workers/internal/validation/normalize"
	"validation-workers/internal/validation/prompt"
)

// scoreSchema is the shape gate applied to normalized scoring replies.
const scoreSchema = `{
  "type": "object",
  "properties": {
    "criteria": {"type": "object"},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "confidence": {"type": "string", "enum": ["high", "medium", "low"]}
  },
  "required": ["criteria"]
}`

type Scorer struct {
	gen    genai.Generator
	temp   float64
	logger logger.Logger
}

func New(gen genai.Generator, temperature float64, log logger.Logger) *Scorer {
	return &Scorer{
		gen:    gen,
		temp:   temperature,
		logger: log.WithFields(map[string]interface{}{"component": "scorer"}),
	}
}

// Score evaluates a stage. Hard failures are an invalid stage and an
// unavailable generation service; every other failure degrades to a
// zero-filled, low-confidence score so the pipeline never hangs.
func (s *Scorer) Score(ctx context.Context, stage models.Stage, idea models.IdeaContext) (*models.ValidationScore, error) {
	names, err := criteria.Names(stage)
	if err != nil {
		return nil, err
	}
	if err := s.gen.Available(); err != nil {
		return nil, err
	}

	spec, err := prompt.Compose(prompt.KindScore, stage, prompt.Context{
		Idea:     idea.Idea,
		Customer: idea.Customer,
	})
	if err != nil {
		return nil, err
	}

	raw, genErr := s.gen.Generate(ctx, genai.Request{
		Messages: []genai.Message{
			{Role: "system", Content: spec.System},
			{Role: "user", Content: spec.User},
		},
		Temperature: s.temp,
	})
	if genErr != nil {
		// Timed-out or errored generation is treated like a malformed
		// response: default-filled result, not a fatal error.
		s.logger.Warn("scoring generation failed, returning defaults", map[string]interface{}{
			"stage": stage.String(), "error": genErr.Error(),
		})
		raw = ""
	}

	score := s.normalizeScore(raw, stage, names)
	score.Recompute()

	metrics.StageEvaluations.WithLabelValues(stage.String(), strconv.FormatBool(score.ShouldProceed)).Inc()
	s.logger.Info("stage scored", map[string]interface{}{
		"stage":         stage.String(),
		"overallScore":  score.OverallScore,
		"confidence":    string(score.Confidence),
		"shouldProceed": score.ShouldProceed,
	})

	return score, nil
}

// normalizeScore parses the raw reply with the stage's criteria names as
// required keys, defaulting every missing criterion to 0.
func (s *Scorer) normalizeScore(raw string, stage models.Stage, names []string) *models.ValidationScore {
	fallbackCriteria := make(map[string]interface{}, len(names))
	for _, name := range names {
		fallbackCriteria[name] = 0.0
	}
	fallback := map[string]interface{}{
		"criteria":        fallbackCriteria,
		"recommendations": []interface{}{},
		"confidence":      "low",
	}

	parsed, partial := normalize.Object(raw, scoreSchema, fallback)
	if partial {
		metrics.PartialParses.WithLabelValues("score").Inc()
		s.logger.Warn("scoring response normalized via fallback", map[string]interface{}{
			"stage": stage.String(),
		})
	}

	// No explicit demotion on partial: a confidence back-filled from the
	// fallback is already "low", and fallback criteria are zero, so the
	// proceed gate stays shut without clobbering a genuinely parsed value.
	score := &models.ValidationScore{
		Stage:           stage,
		Criteria:        make(map[string]float64, len(names)),
		Recommendations: toStringSlice(parsed["recommendations"]),
		Confidence:      models.ParseConfidence(toString(parsed["confidence"])),
	}

	rawCriteria, _ := parsed["criteria"].(map[string]interface{})
	for _, name := range names {
		val, ok := toFloat(rawCriteria[name])
		if !ok {
			val = 0
		}
		score.Criteria[name] = clamp(val, 0, 10)
	}

	return score
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toStringSlice(v interface{}) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
