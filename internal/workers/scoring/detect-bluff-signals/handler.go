// internal/workers/scoring/detect-bluff-signals/handler.go
package detectbluffsignals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"qscore-workers/internal/assessment"
	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/common/metrics"
	"qscore-workers/internal/qscore"
)

const (
	TaskType = "detect-bluff-signals"
)

var (
	ErrInvalidAssessment = errors.New("ASSESSMENT_VALIDATION_FAILED")
)

// Handler reports bluff signals for a snapshot without scoring or persisting it.
type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       scoped,
		errorHandler: apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewAssessmentParseFailedError(err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.Is(err, ErrInvalidAssessment) {
			stdErr = apperrors.NewAssessmentValidationFailedError(err.Error())
		} else {
			stdErr = apperrors.Normalize(err)
		}
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	data := &assessment.Data{}
	if len(input.AssessmentData) > 0 && string(input.AssessmentData) != "null" {
		decoded, err := assessment.Decode(input.AssessmentData)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssessment, err)
		}
		data = decoded
	}

	signals := qscore.DetectBluffSignals(data)
	pct := qscore.PenaltyPercent(signals)

	for _, s := range signals {
		metrics.QScoreBluffSignals.WithLabelValues(string(s.Signal), string(s.Severity)).Inc()
	}

	h.logger.Info("bluff signals detected", map[string]interface{}{
		"userId":         input.UserID,
		"signalCount":    len(signals),
		"penaltyPercent": pct,
	})

	return &Output{
		Signals:        signals,
		Penalty:        float64(pct) / 100,
		PenaltyPercent: pct,
		SignalCount:    len(signals),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		stdErr := apperrors.Normalize(err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
