// internal/validation/feedback/engine_test.go
package feedback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/models"
)

type fakeGenerator struct {
	mu        sync.Mutex
	calls     int
	available error
	respond   func(req genai.Request) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req genai.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeGenerator) Available() error { return f.available }

func isSummaryCall(req genai.Request) bool {
	return strings.Contains(req.Messages[0].Content, "summarizing")
}

func testPersonas() []models.Persona {
	return []models.Persona{
		{ID: "p-1", Name: "Ada", Role: "Buyer"},
		{ID: "p-2", Name: "Bob", Role: "Skeptic"},
		{ID: "p-3", Name: "Cleo", Role: "Champion"},
	}
}

func testIdea() models.IdeaContext {
	return models.IdeaContext{Idea: "A subscription box for rare teas", Customer: "Urban professionals"}
}

func TestCollect_AllPersonasSucceed(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "Everyone worries about pricing.", nil
			}
			return `["pricing feels steep", "concept is appealing"]`, nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageSolutionFit, testPersonas(), testIdea())
	assert.NoError(t, err)
	assert.Len(t, result.Feedback, 3)

	// One generation call per persona plus the summary.
	assert.Equal(t, 4, gen.calls)

	// Items come back in persona order regardless of goroutine scheduling.
	assert.Equal(t, "p-1", result.Feedback[0].PersonaID)
	assert.Equal(t, "p-2", result.Feedback[1].PersonaID)
	assert.Equal(t, "p-3", result.Feedback[2].PersonaID)

	for _, item := range result.Feedback {
		assert.Equal(t, models.StageSolutionFit, item.Stage)
		assert.Equal(t, []string{"pricing feels steep", "concept is appealing"}, item.Points)
	}
	assert.Equal(t, "Everyone worries about pricing.", result.Summary)
}

func TestCollect_OneFailureDoesNotAbortBatch(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "Mixed reactions overall.", nil
			}
			if strings.Contains(req.Messages[0].Content, "Bob") {
				return "", genai.ErrFailed
			}
			return `["solid idea"]`, nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageSolutionFit, testPersonas(), testIdea())
	assert.NoError(t, err)

	assert.Equal(t, []string{"solid idea"}, result.Feedback[0].Points)
	assert.Equal(t, []string{FallbackFeedback}, result.Feedback[1].Points)
	assert.Equal(t, []string{"solid idea"}, result.Feedback[2].Points)
	assert.Equal(t, "Mixed reactions overall.", result.Summary)
}

func TestCollect_ProseReplyGetsFallbackOthersKeepFeedback(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "Mixed reactions overall.", nil
			}
			if strings.Contains(req.Messages[0].Content, "Bob") {
				return "not json at all", nil
			}
			return `["solid idea"]`, nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageSolutionFit, testPersonas(), testIdea())
	assert.NoError(t, err)

	// A single prose line is not usable feedback; only that persona falls
	// back, the rest keep their parsed points.
	assert.Equal(t, []string{"solid idea"}, result.Feedback[0].Points)
	assert.Equal(t, []string{FallbackFeedback}, result.Feedback[1].Points)
	assert.Equal(t, []string{"solid idea"}, result.Feedback[2].Points)
}

func TestCollect_SummaryFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "", genai.ErrTimeout
			}
			return `["fine"]`, nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageLaunch, testPersonas(), testIdea())
	assert.NoError(t, err)
	assert.Equal(t, FallbackSummary, result.Summary)
	assert.Equal(t, []string{"fine"}, result.Feedback[0].Points)
}

func TestCollect_BlankSummaryFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "   \n", nil
			}
			return `["fine"]`, nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageLaunch, testPersonas(), testIdea())
	assert.NoError(t, err)
	assert.Equal(t, FallbackSummary, result.Summary)
}

func TestCollect_ProseFeedbackNormalized(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			if isSummaryCall(req) {
				return "summary", nil
			}
			return "- too expensive\n- unclear onboarding", nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageBusinessModel, testPersonas()[:1], testIdea())
	assert.NoError(t, err)
	assert.Equal(t, []string{"too expensive", "unclear onboarding"}, result.Feedback[0].Points)
}

func TestCollect_UnavailableGeneratorFails(t *testing.T) {
	gen := &fakeGenerator{available: genai.ErrUnavailable}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	_, err := engine.Collect(context.Background(), models.StageSolutionFit, testPersonas(), testIdea())
	assert.ErrorIs(t, err, genai.ErrUnavailable)
	assert.Equal(t, 0, gen.calls)
}

func TestCollect_InvalidStage(t *testing.T) {
	gen := &fakeGenerator{respond: func(genai.Request) (string, error) { return "", errors.New("unreachable") }}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	_, err := engine.Collect(context.Background(), models.Stage(99), testPersonas(), testIdea())
	assert.Error(t, err)
	assert.Equal(t, 0, gen.calls)
}

func TestCollect_NoPersonas(t *testing.T) {
	gen := &fakeGenerator{
		respond: func(req genai.Request) (string, error) {
			return "No personas responded.", nil
		},
	}
	engine := NewEngine(gen, 0.8, logger.NewTestLogger(t))

	result, err := engine.Collect(context.Background(), models.StageLaunch, nil, testIdea())
	assert.NoError(t, err)
	assert.Empty(t, result.Feedback)
	assert.Equal(t, 1, gen.calls) // only the summary call
}
