// internal/models/stage_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Stage
		expectErr bool
	}{
		{name: "first stage", input: "problem-discovery", expected: StageProblemDiscovery},
		{name: "middle stage", input: "business-model", expected: StageBusinessModel},
		{name: "last stage", input: "launch", expected: StageLaunch},
		{name: "unknown stage", input: "ideation", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "wrong case", input: "Problem-Discovery", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, err := ParseStage(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, stage)
		})
	}
}

func TestStage_Order(t *testing.T) {
	stages := AllStages()
	assert.Len(t, stages, StageCount)

	// The pipeline order is fixed; Next walks it without skipping.
	for i := 0; i < len(stages)-1; i++ {
		next, ok := stages[i].Next()
		assert.True(t, ok)
		assert.Equal(t, stages[i+1], next)
	}

	_, ok := StageLaunch.Next()
	assert.False(t, ok)
}

func TestStage_Valid(t *testing.T) {
	for _, s := range AllStages() {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, Stage(-1).Valid())
	assert.False(t, Stage(StageCount).Valid())
}

func TestStage_JSON(t *testing.T) {
	data, err := json.Marshal(StageSolutionFit)
	assert.NoError(t, err)
	assert.Equal(t, `"solution-fit"`, string(data))

	var stage Stage
	assert.NoError(t, json.Unmarshal([]byte(`"market-validation"`), &stage))
	assert.Equal(t, StageMarketValidation, stage)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &stage))

	_, err = json.Marshal(Stage(99))
	assert.Error(t, err)
}
