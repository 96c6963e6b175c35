// internal/workers/scoring/apply-artifact-boost/handler.go
package applyartifactboost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/history"
	"qscore-workers/internal/qscore"
)

const (
	TaskType = "apply-artifact-boost"
)

var (
	ErrUserIDMissing       = errors.New("SCORE_INPUT_MISSING")
	ErrArtifactTypeMissing = errors.New("SCORE_INPUT_MISSING_ARTIFACT")
	ErrHistoryQuery        = errors.New("HISTORY_QUERY_FAILED")
	ErrHistoryAppend       = errors.New("HISTORY_INSERT_FAILED")
)

// HistoryStore is the slice of the history repository this worker needs.
type HistoryStore interface {
	Latest(ctx context.Context, userID string) (*history.Record, error)
	HasArtifactBoost(ctx context.Context, userID, artifactType string) (bool, error)
	Append(ctx context.Context, rec *history.Record) error
}

type Handler struct {
	config       *Config
	store        HistoryStore
	weights      qscore.Weights
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, store HistoryStore, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		weights:      qscore.DefaultWeights(),
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
		stdErr := toStandardError(err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	return h.completeJob(client, job, output)
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrUserIDMissing):
		return apperrors.NewScoreInputMissingError("userId")
	case errors.Is(err, ErrArtifactTypeMissing):
		return apperrors.NewScoreInputMissingError("artifactType")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError("artifact_boost")
	case errors.Is(err, ErrHistoryQuery):
		return apperrors.NewHistoryQueryFailedError("artifact_boost", err)
	case errors.Is(err, ErrHistoryAppend):
		return apperrors.NewHistoryInsertFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, ErrUserIDMissing
	}
	if input.ArtifactType == "" {
		return nil, ErrArtifactTypeMissing
	}

	boost, ok := qscore.BoostFor(input.ArtifactType)
	if !ok {
		h.logger.Info("artifact type earns no boost", map[string]interface{}{
			"userId":       input.UserID,
			"artifactType": input.ArtifactType,
		})
		return &Output{Reason: ReasonUnknownArtifact}, nil
	}

	applied, err := h.store.HasArtifactBoost(ctx, input.UserID, input.ArtifactType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHistoryQuery, err)
	}
	if applied {
		return &Output{Dimension: boost.Dimension, Reason: ReasonAlreadyApplied}, nil
	}

	latest, err := h.store.Latest(ctx, input.UserID)
	if errors.Is(err, apperrors.ErrHistoryNotFound) {
		return &Output{Dimension: boost.Dimension, Reason: ReasonNoScore}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHistoryQuery, err)
	}

	scores, overall, added := qscore.ApplyBoost(latest.Scores, boost, h.weights)

	rec := &history.Record{
		UserID:             input.UserID,
		Overall:            overall,
		Percentile:         latest.Percentile,
		Grade:              qscore.Grade(overall),
		Scores:             scores,
		DataSource:         history.SourceAgentCompletion,
		SourceArtifactType: input.ArtifactType,
		PreviousScoreID:    latest.ID,
	}
	if err := h.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHistoryAppend, err)
	}

	h.logger.Info("artifact boost applied", map[string]interface{}{
		"userId":       input.UserID,
		"artifactType": input.ArtifactType,
		"dimension":    string(boost.Dimension),
		"pointsAdded":  added,
		"oldOverall":   latest.Overall,
		"newOverall":   overall,
		"historyId":    rec.ID,
	})

	return &Output{
		Boosted:     true,
		PointsAdded: added,
		Dimension:   boost.Dimension,
		NewOverall:  overall,
		HistoryID:   rec.ID,
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
