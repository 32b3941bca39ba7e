// internal/workers/validation/collect-feedback/handler.go
package collectfeedback

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"validation-workers/internal/common/camunda"
	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/genai"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/feedback"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "collect-feedback"
)

// collector is the orchestrator slice this worker needs.
type collector interface {
	CollectStageFeedback(ctx context.Context, stage models.Stage, personas []models.Persona, idea models.IdeaContext) (*feedback.Result, error)
}

type Handler struct {
	config    *Config
	validator collector
	logger    logger.Logger
}

func NewHandler(config *Config, validator collector, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.throwError(client, job, errors.ConvertToBPMNError(stdErr))
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := asStandardError(err)
		if errors.IsFatal(stdErr.Code) {
			h.throwError(client, job, errors.ConvertToBPMNError(stdErr))
		} else {
			h.failJob(client, job, stdErr)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	stage, err := models.ParseStage(input.Stage)
	if err != nil {
		return nil, errors.NewInvalidStageError(input.Stage)
	}
	if strings.TrimSpace(input.Idea) == "" {
		return nil, errors.NewInvalidInputError("idea must not be empty")
	}

	result, err := h.validator.CollectStageFeedback(ctx, stage, input.Personas, models.IdeaContext{
		IdeaID:   input.IdeaID,
		Idea:     input.Idea,
		Customer: input.Customer,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("feedback collected", map[string]interface{}{
		"stage":        stage.String(),
		"personaCount": len(result.Feedback),
	})

	return &Output{Feedback: result.Feedback, Summary: result.Summary}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	_, err = camunda.ExecuteWithRetry(context.Background(), nil, func(ctx context.Context) (interface{}, error) {
		return cmd.Send(ctx)
	}, "complete job")
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) throwError(client worker.JobClient, job entities.Job, bpmnErr *errors.BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"errorCode": bpmnErr.Code,
		"error":     bpmnErr.Message,
	})

	_, err := camunda.ExecuteWithRetry(context.Background(), nil, func(ctx context.Context) (interface{}, error) {
		return client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(bpmnErr.Code).
			ErrorMessage(bpmnErr.Message).
			Send(ctx)
	}, "throw error")
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *errors.StandardError) {
	retries := int32(errors.GetRetryCount(stdErr.Code))
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"errorCode": string(stdErr.Code),
		"error":     stdErr.Message,
		"retries":   retries,
	})

	_, _ = camunda.ExecuteWithRetry(context.Background(), nil, func(ctx context.Context) (interface{}, error) {
		return client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(retries).
			ErrorMessage(stdErr.Error()).
			Send(ctx)
	}, "fail job")
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func asStandardError(err error) *errors.StandardError {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	switch {
	case stderrors.Is(err, genai.ErrUnavailable):
		return errors.NewGenerationUnavailableError(err.Error())
	case stderrors.Is(err, genai.ErrTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewGenerationTimeoutError()
	default:
		return errors.NewExternalServiceError("validation", err)
	}
}
