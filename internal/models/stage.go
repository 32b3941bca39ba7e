// internal/models/stage.go
package models

import (
	"encoding/json"
	"fmt"
)

// Stage is one step of the validation pipeline. The order is fixed: a
// business idea moves from problem discovery through launch.
type Stage int

const (
	StageProblemDiscovery Stage = iota
	StageCustomerProfile
	StageCustomerStruggle
	StageSolutionFit
	StageBusinessModel
	StageMarketValidation
	StageLaunch
)

// StageCount is the number of pipeline stages.
const StageCount = 7

var stageNames = [StageCount]string{
	"problem-discovery",
	"customer-profile",
	"customer-struggle",
	"solution-fit",
	"business-model",
	"market-validation",
	"launch",
}

// AllStages returns the pipeline stages in evaluation order.
func AllStages() []Stage {
	stages := make([]Stage, StageCount)
	for i := range stages {
		stages[i] = Stage(i)
	}
	return stages
}

// ParseStage resolves a wire-format stage name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage: %q", name)
}

// Valid reports whether s is one of the defined pipeline stages.
func (s Stage) Valid() bool {
	return s >= StageProblemDiscovery && s <= StageLaunch
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Next returns the stage that follows s, and false after Launch.
func (s Stage) Next() (Stage, bool) {
	if s < StageLaunch {
		return s + 1, true
	}
	return s, false
}

func (s Stage) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid stage %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
