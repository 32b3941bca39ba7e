// internal/validation/criteria/rubric.go
package criteria

import (
	"fmt"
	"strings"

	"validation-workers/internal/models"
)

// rubricBands holds the per-stage low/medium/high band description
// templates. The %s placeholder receives the humanized criterion name. This
// text calibrates the evaluator and must stay stable across releases.
type rubricBands struct {
	low    string
	medium string
	high   string
}

var stageRubrics = map[models.Stage]rubricBands{
	models.StageProblemDiscovery: {
		low:    "%s is vague or assumed; no evidence the problem exists beyond the founder's intuition",
		medium: "%s is described concretely and supported by anecdotal signals, but not yet validated with real prospects",
		high:   "%s is sharply defined, corroborated by multiple independent sources, and clearly worth solving now",
	},
	models.StageCustomerProfile: {
		low:    "%s describes 'everyone' or an unreachable group; no concrete segment in sight",
		medium: "%s narrows to a plausible segment with some demographic or behavioral detail",
		high:   "%s pinpoints a specific, reachable segment with demonstrated willingness and ability to buy",
	},
	models.StageCustomerStruggle: {
		low:    "%s is speculative; customers may not notice or care about the struggle described",
		medium: "%s names a real friction customers acknowledge, though they tolerate it with workarounds",
		high:   "%s captures a frequent, costly struggle customers actively try to escape today",
	},
	models.StageSolutionFit: {
		low:    "%s shows little connection between what is built and what the customer struggles with",
		medium: "%s plausibly addresses the struggle but differentiation or feasibility is shaky",
		high:   "%s directly resolves the validated struggle in a way alternatives do not, and is buildable",
	},
	models.StageBusinessModel: {
		low:    "%s is missing or hand-wavy; no credible path from usage to revenue",
		medium: "%s outlines a workable mechanism with unproven assumptions about price or cost",
		high:   "%s rests on tested price points and unit economics that improve with scale",
	},
	models.StageMarketValidation: {
		low:    "%s relies on top-down market-size arithmetic with no observed demand",
		medium: "%s shows some real demand signals, but channel or timing questions remain open",
		high:   "%s demonstrates repeatable demand through at least one proven channel at the right moment",
	},
	models.StageLaunch: {
		low:    "%s is aspirational; key operational pieces or metrics are undefined",
		medium: "%s covers the essentials with gaps in contingency or measurement",
		high:   "%s is a concrete, resourced plan with traction targets and fallback paths",
	},
}

// humanize converts a camelCase criterion name to a readable phrase, e.g.
// "problemIdentification" -> "Problem identification".
func humanize(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range name {
		if i == 0 {
			b.WriteRune(r - ('a' - 'A'))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Rubric renders the full 1-10 scoring rubric for a stage, one block per
// criterion with its low/medium/high bands.
func Rubric(stage models.Stage) (string, error) {
	names, err := Names(stage)
	if err != nil {
		return "", err
	}

	bands, ok := stageRubrics[stage]
	if !ok {
		bands = stageRubrics[models.StageProblemDiscovery]
	}

	var parts []string
	for _, name := range names {
		display := humanize(name)
		parts = append(parts, fmt.Sprintf("%s (%s):", display, name))
		parts = append(parts, fmt.Sprintf("  1-3:  %s", fmt.Sprintf(bands.low, display)))
		parts = append(parts, fmt.Sprintf("  4-6:  %s", fmt.Sprintf(bands.medium, display)))
		parts = append(parts, fmt.Sprintf("  7-10: %s", fmt.Sprintf(bands.high, display)))
	}

	return strings.Join(parts, "\n"), nil
}
