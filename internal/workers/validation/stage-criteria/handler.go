// internal/workers/validation/stage-criteria/handler.go
package stagecriteria

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"validation-workers/internal/common/camunda"
	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/common/metrics"
	"validation-workers/internal/models"
	"validation-workers/internal/validation/orchestrator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "stage-criteria"
)

// inspector is the orchestrator slice this worker needs.
type inspector interface {
	StageCriteria(stage models.Stage) (*orchestrator.StageCriteriaResult, error)
	CompletedStages(ctx context.Context, ideaID string) ([]models.Stage, error)
}

type Handler struct {
	config    *Config
	validator inspector
	logger    logger.Logger
}

func NewHandler(config *Config, validator inspector, log logger.Logger) *Handler {
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

	result, err := h.validator.StageCriteria(stage)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Stage:    stage.String(),
		Criteria: result.Criteria,
		Rubric:   result.Rubric,
		Sections: result.Sections,
	}

	// Completed stages are only meaningful for tracked ideas. A storage
	// failure here degrades: the rubric is still returned.
	if input.IdeaID != "" {
		completed, err := h.validator.CompletedStages(ctx, input.IdeaID)
		if err != nil {
			h.logger.Warn("completed stages unavailable", map[string]interface{}{
				"ideaId": input.IdeaID,
				"error":  err.Error(),
			})
		} else {
			output.CompletedStages = make([]string, len(completed))
			for i, s := range completed {
				output.CompletedStages[i] = s.String()
			}
		}
	}

	return output, nil
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
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError("completed_stages")
	}
	return errors.NewExternalServiceError("validation", err)
}
