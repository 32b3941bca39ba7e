// internal/validation/criteria/criteria.go

// Package criteria holds the static per-stage scoring tables. Adding a
// stage means adding a table row here, not a new branch anywhere else.
package criteria

import (
	"validation-workers/internal/common/errors"
	"validation-workers/internal/models"
)

// defaultThreshold is the 1-10 target every criterion should reach before
// the stage is considered solid.
const defaultThreshold = 7.0

// stageCriteria is the ordered set of named sub-criteria per stage. Never
// mutated at runtime.
var stageCriteria = map[models.Stage][]string{
	models.StageProblemDiscovery: {
		"problemIdentification",
		"problemValidation",
		"problemScope",
		"problemUrgency",
		"problemImpact",
	},
	models.StageCustomerProfile: {
		"customerClarity",
		"segmentFocus",
		"customerAccessibility",
		"buyingPower",
		"profileEvidence",
	},
	models.StageCustomerStruggle: {
		"struggleIdentification",
		"struggleFrequency",
		"currentWorkarounds",
		"switchingMotivation",
		"struggleEvidence",
	},
	models.StageSolutionFit: {
		"problemSolutionAlignment",
		"differentiation",
		"feasibility",
		"valueClarity",
		"adoptionBarriers",
	},
	models.StageBusinessModel: {
		"revenueModel",
		"pricingStrategy",
		"costStructure",
		"unitEconomics",
		"scalability",
	},
	models.StageMarketValidation: {
		"marketSize",
		"competitiveLandscape",
		"demandSignals",
		"channelValidation",
		"marketTiming",
	},
	models.StageLaunch: {
		"launchReadiness",
		"goToMarketPlan",
		"earlyTraction",
		"operationalReadiness",
		"riskMitigation",
	},
}

// For returns the ordered criteria for a stage.
func For(stage models.Stage) ([]models.CriterionWeight, error) {
	names, ok := stageCriteria[stage]
	if !ok {
		return nil, errors.NewInvalidStageError(stage.String())
	}

	weights := make([]models.CriterionWeight, len(names))
	for i, name := range names {
		weights[i] = models.CriterionWeight{
			Name:            name,
			TargetThreshold: defaultThreshold,
		}
	}
	return weights, nil
}

// Names returns just the criterion names for a stage, in order.
func Names(stage models.Stage) ([]string, error) {
	names, ok := stageCriteria[stage]
	if !ok {
		return nil, errors.NewInvalidStageError(stage.String())
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// improvementSections is the fixed required-key list of the document
// sections each stage's improvement pass must produce.
var improvementSections = map[models.Stage][]string{
	models.StageProblemDiscovery: {
		"problemStatement",
		"solution",
		"customerPainPoints",
		"valueProposition",
		"marketAnalysis",
		"competitiveAnalysis",
	},
	models.StageCustomerProfile: {
		"targetCustomer",
		"customerSegments",
		"earlyAdopters",
		"customerJourney",
	},
	models.StageCustomerStruggle: {
		"customerPainPoints",
		"jobsToBeDone",
		"currentAlternatives",
		"urgencyEvidence",
	},
	models.StageSolutionFit: {
		"solution",
		"valueProposition",
		"keyFeatures",
		"differentiation",
	},
	models.StageBusinessModel: {
		"revenueStreams",
		"pricingModel",
		"costStructure",
		"keyMetrics",
	},
	models.StageMarketValidation: {
		"marketAnalysis",
		"competitiveAnalysis",
		"validationEvidence",
		"goToMarket",
	},
	models.StageLaunch: {
		"launchPlan",
		"milestones",
		"riskAssessment",
		"successMetrics",
	},
}

// SectionsFor returns the required improvement section keys for a stage.
func SectionsFor(stage models.Stage) ([]string, error) {
	sections, ok := improvementSections[stage]
	if !ok {
		return nil, errors.NewInvalidStageError(stage.String())
	}
	out := make([]string, len(sections))
	copy(out, sections)
	return out, nil
}
