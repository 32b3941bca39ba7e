// internal/validation/criteria/criteria_test.go
package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"validation-workers/internal/models"
)

func TestFor_EveryStage(t *testing.T) {
	for _, stage := range models.AllStages() {
		t.Run(stage.String(), func(t *testing.T) {
			weights, err := For(stage)
			assert.NoError(t, err)
			assert.Len(t, weights, 5)
			for _, w := range weights {
				assert.NotEmpty(t, w.Name)
				assert.Equal(t, 7.0, w.TargetThreshold)
			}
		})
	}
}

func TestFor_InvalidStage(t *testing.T) {
	_, err := For(models.Stage(42))
	assert.Error(t, err)

	_, err = Names(models.Stage(-1))
	assert.Error(t, err)

	_, err = SectionsFor(models.Stage(42))
	assert.Error(t, err)
}

func TestNames_OrderStable(t *testing.T) {
	first, err := Names(models.StageProblemDiscovery)
	assert.NoError(t, err)
	second, err := Names(models.StageProblemDiscovery)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, "problemIdentification", first[0])
}

func TestNames_ReturnsCopy(t *testing.T) {
	names, err := Names(models.StageLaunch)
	assert.NoError(t, err)
	names[0] = "mutated"

	fresh, err := Names(models.StageLaunch)
	assert.NoError(t, err)
	assert.Equal(t, "launchReadiness", fresh[0])
}

func TestSectionsFor(t *testing.T) {
	sections, err := SectionsFor(models.StageProblemDiscovery)
	assert.NoError(t, err)
	assert.Contains(t, sections, "problemStatement")
	assert.Contains(t, sections, "valueProposition")

	for _, stage := range models.AllStages() {
		sections, err := SectionsFor(stage)
		assert.NoError(t, err)
		assert.NotEmpty(t, sections, stage.String())
	}
}

func TestRubric(t *testing.T) {
	rubric, err := Rubric(models.StageBusinessModel)
	assert.NoError(t, err)

	// One block per criterion, each with all three bands.
	names, _ := Names(models.StageBusinessModel)
	for _, name := range names {
		assert.Contains(t, rubric, "("+name+")")
	}
	assert.Contains(t, rubric, "1-3:")
	assert.Contains(t, rubric, "4-6:")
	assert.Contains(t, rubric, "7-10:")

	// Humanized names appear in the band text.
	assert.Contains(t, rubric, "Revenue model")
}

func TestRubric_InvalidStage(t *testing.T) {
	_, err := Rubric(models.Stage(42))
	assert.Error(t, err)
}
