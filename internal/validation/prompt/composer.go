// internal/validation/prompt/composer.go

// Package prompt builds the structured instructions sent to the
// text-generation service. Prompt text is assembled from the stage's
// criteria table and rubric; nothing here branches on stage names.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/criteria"
)

// Kind selects which instruction template to compose.
type Kind string

const (
	KindScore    Kind = "score"
	KindFeedback Kind = "feedback"
	KindImprove  Kind = "improve"
)

// Spec is the (system, user) instruction pair for one generation call.
type Spec struct {
	System string
	User   string
}

// Context carries everything a template may need. Idea and Customer are
// always required; Persona only for feedback, Score/Recommendations/Gaps/
// Sections only for improvement.
type Context struct {
	Idea            string
	Customer        string
	Persona         *models.Persona
	Score           *models.ValidationScore
	Recommendations []string
	Gaps            []string
	Sections        map[string]string
}

// Compose builds the instruction pair for the given kind and stage.
func Compose(kind Kind, stage models.Stage, ctx Context) (Spec, error) {
	if !stage.Valid() {
		return Spec{}, errors.NewInvalidStageError(stage.String())
	}

	switch kind {
	case KindScore:
		return composeScore(stage, ctx)
	case KindFeedback:
		return composeFeedback(stage, ctx)
	case KindImprove:
		return composeImprove(stage, ctx)
	default:
		return Spec{}, errors.NewInvalidInputError(fmt.Sprintf("unknown prompt kind: %s", kind))
	}
}

func composeScore(stage models.Stage, ctx Context) (Spec, error) {
	names, err := criteria.Names(stage)
	if err != nil {
		return Spec{}, err
	}
	rubric, err := criteria.Rubric(stage)
	if err != nil {
		return Spec{}, err
	}

	var sys []string
	sys = append(sys, "You are a rigorous startup validation analyst.")
	sys = append(sys, fmt.Sprintf("You are evaluating the '%s' stage of a business idea.", stage))
	sys = append(sys, "Score each criterion from 0 to 10 using this rubric:")
	sys = append(sys, rubric)
	sys = append(sys, "\nRespond with JSON only, no prose, in this shape:")
	sys = append(sys, scoreShape(names))

	var usr []string
	usr = append(usr, fmt.Sprintf("Business idea: %s", ctx.Idea))
	usr = append(usr, fmt.Sprintf("Target customer: %s", ctx.Customer))
	usr = append(usr, "\nScore every criterion, list 3-5 concrete recommendations, and state your confidence (high, medium, or low).")

	return Spec{
		System: strings.Join(sys, "\n"),
		User:   strings.Join(usr, "\n"),
	}, nil
}

// scoreShape renders the expected response JSON with the stage's criterion
// names as required keys.
func scoreShape(names []string) string {
	var b strings.Builder
	b.WriteString("{\n  \"criteria\": {")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "\"%s\": 0", name)
	}
	b.WriteString("},\n")
	b.WriteString("  \"recommendations\": [\"...\"],\n")
	b.WriteString("  \"confidence\": \"high|medium|low\"\n}")
	return b.String()
}

func composeFeedback(stage models.Stage, ctx Context) (Spec, error) {
	if ctx.Persona == nil {
		return Spec{}, errors.NewInvalidInputError("feedback prompt requires a persona")
	}
	p := ctx.Persona

	var sys []string
	sys = append(sys, fmt.Sprintf("You are %s, %s at a %s company in the %s industry.", p.Name, p.Role, p.CompanySize, p.Industry))
	sys = append(sys, fmt.Sprintf("You are %d years old with %s. Your budget: %s.", p.Age, p.Experience, p.Budget))
	if len(p.PainPoints) > 0 {
		sys = append(sys, fmt.Sprintf("Your pain points: %s.", strings.Join(p.PainPoints, "; ")))
	}
	if len(p.Goals) > 0 {
		sys = append(sys, fmt.Sprintf("Your goals: %s.", strings.Join(p.Goals, "; ")))
	}
	if len(p.DecisionFactors) > 0 {
		sys = append(sys, fmt.Sprintf("You decide based on: %s.", strings.Join(p.DecisionFactors, "; ")))
	}
	if len(p.Objections) > 0 {
		sys = append(sys, fmt.Sprintf("Your usual objections: %s.", strings.Join(p.Objections, "; ")))
	}
	sys = append(sys, fmt.Sprintf("Communication style: %s. Tech savviness: %s.", p.CommunicationStyle, p.TechSavviness))
	sys = append(sys, "Stay fully in character. Respond with a JSON array of 3-5 short critique strings, nothing else.")

	var usr []string
	usr = append(usr, fmt.Sprintf("A founder pitches you this idea, currently at the '%s' validation stage:", stage))
	usr = append(usr, fmt.Sprintf("Idea: %s", ctx.Idea))
	usr = append(usr, fmt.Sprintf("Intended customer: %s", ctx.Customer))
	if len(p.ValidationQuestions) > 0 {
		usr = append(usr, fmt.Sprintf("Questions you always ask: %s", strings.Join(p.ValidationQuestions, "; ")))
	}
	usr = append(usr, "\nGive your honest reaction as this buyer: what convinces you, what worries you, what would make you walk away.")

	return Spec{
		System: strings.Join(sys, "\n"),
		User:   strings.Join(usr, "\n"),
	}, nil
}

// ComposeSummary builds the cross-persona synthesis prompt issued after all
// persona feedback is collected.
func ComposeSummary(stage models.Stage, items []models.FeedbackItem) (Spec, error) {
	if !stage.Valid() {
		return Spec{}, errors.NewInvalidStageError(stage.String())
	}

	var usr []string
	usr = append(usr, fmt.Sprintf("Customer feedback collected for the '%s' stage:", stage))
	for _, item := range items {
		usr = append(usr, fmt.Sprintf("\nPersona %s:", item.PersonaID))
		for _, point := range item.Points {
			usr = append(usr, fmt.Sprintf("- %s", point))
		}
	}
	usr = append(usr, "\nSynthesize the recurring themes across all personas into 2-3 sentences. Plain text, no lists.")

	return Spec{
		System: "You are a startup validation analyst summarizing simulated customer interviews.",
		User:   strings.Join(usr, "\n"),
	}, nil
}

func composeImprove(stage models.Stage, ctx Context) (Spec, error) {
	sections, err := criteria.SectionsFor(stage)
	if err != nil {
		return Spec{}, err
	}

	var sys []string
	sys = append(sys, "You are a startup advisor rewriting sections of a business plan.")
	sys = append(sys, fmt.Sprintf("The plan is at the '%s' validation stage and scored below its target.", stage))
	sys = append(sys, "Improve the existing text incrementally; do not discard what already works.")
	sys = append(sys, "Respond with JSON only: an object mapping each of these section names to improved text:")
	sys = append(sys, strings.Join(sections, ", "))

	var usr []string
	usr = append(usr, fmt.Sprintf("Business idea: %s", ctx.Idea))
	usr = append(usr, fmt.Sprintf("Target customer: %s", ctx.Customer))

	if ctx.Score != nil {
		scores, _ := json.Marshal(ctx.Score.Criteria)
		usr = append(usr, fmt.Sprintf("\nCurrent overall score: %.1f/10", ctx.Score.OverallScore))
		usr = append(usr, fmt.Sprintf("Per-criterion scores: %s", scores))
	}
	if len(ctx.Recommendations) > 0 {
		usr = append(usr, "\nRecommendations to address:")
		for _, rec := range ctx.Recommendations {
			usr = append(usr, fmt.Sprintf("- %s", rec))
		}
	}
	if len(ctx.Gaps) > 0 {
		usr = append(usr, "\nDiscovered gaps:")
		for _, gap := range ctx.Gaps {
			usr = append(usr, fmt.Sprintf("- %s", gap))
		}
	}
	if len(ctx.Sections) > 0 {
		existing, _ := json.MarshalIndent(ctx.Sections, "", "  ")
		usr = append(usr, "\nExisting section text:")
		usr = append(usr, string(existing))
	}
	usr = append(usr, "\nReturn the improved sections.")

	return Spec{
		System: strings.Join(sys, "\n"),
		User:   strings.Join(usr, "\n"),
	}, nil
}
