// internal/workers/scoring/calculate-qscore/handler.go
package calculateqscore

import (
	"bytes"
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
	"qscore-workers/internal/common/observability"
	"qscore-workers/internal/history"
	"qscore-workers/internal/qscore"
)

const (
	TaskType = "calculate-qscore"
)

var (
	ErrUserIDMissing     = errors.New("SCORE_INPUT_MISSING")
	ErrInvalidAssessment = errors.New("ASSESSMENT_VALIDATION_FAILED")
	ErrHistoryAppend     = errors.New("HISTORY_INSERT_FAILED")
)

// HistoryStore is the slice of the history repository this worker needs.
type HistoryStore interface {
	Latest(ctx context.Context, userID string) (*history.Record, error)
	Append(ctx context.Context, rec *history.Record) error
}

// PercentileRanker ranks an overall score. It always returns a usable value;
// the error is for logging only.
type PercentileRanker interface {
	Percentile(ctx context.Context, overall int, userID string) (int, error)
}

type Handler struct {
	config       *Config
	engines      map[string]*qscore.Engine
	store        HistoryStore
	ranker       PercentileRanker
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, store HistoryStore, ranker PercentileRanker, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if config.DefaultSector == "" {
		config.DefaultSector = qscore.DefaultSector
	}
	if _, ok := qscore.WeightsFor(config.DefaultSector); !ok {
		return nil, fmt.Errorf("unknown default sector %q", config.DefaultSector)
	}

	engines := make(map[string]*qscore.Engine)
	for _, sector := range qscore.Sectors() {
		engine, err := qscore.NewEngine(qscore.WithSector(sector))
		if err != nil {
			return nil, fmt.Errorf("build engine for %s: %w", sector, err)
		}
		engines[sector] = engine
	}

	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engines:      engines,
		store:        store,
		ranker:       ranker,
		obs:          obs,
		logger:       scoped,
		errorHandler: apperrors.NewErrorHandler(scoped),
	}, nil
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
		stdErr := h.toStandardError(ctx, err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) toStandardError(ctx context.Context, err error) *apperrors.StandardError {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return stdErr
	}
	switch {
	case errors.Is(err, ErrUserIDMissing):
		return apperrors.NewScoreInputMissingError("userId")
	case errors.Is(err, ErrInvalidAssessment):
		return apperrors.NewAssessmentValidationFailedError(err.Error())
	case errors.Is(err, ErrHistoryAppend):
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.NewQueryTimeoutError("history_append")
		}
		return apperrors.NewHistoryInsertFailedError(err)
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, ErrUserIDMissing
	}

	raw, err := decodeAssessment(input.AssessmentData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssessment, err)
	}

	issues, err := assessment.Validate(raw)
	if err != nil {
		h.logger.Warn("assessment schema check failed", map[string]interface{}{
			"userId": input.UserID,
			"error":  err.Error(),
		})
	}
	if len(issues) > 0 {
		h.logger.Warn("assessment has malformed fields", map[string]interface{}{
			"userId": input.UserID,
			"issues": len(issues),
			"first":  issues[0].String(),
		})
	}
	data := assessment.FromMap(raw)

	sector, engine := h.engineFor(input.Sector)
	previous := input.PreviousScore
	if previous == nil {
		previous = h.loadPrevious(ctx, input.UserID)
	}

	result := engine.Evaluate(data, previous)
	score := result.Score

	percentile, err := h.ranker.Percentile(ctx, score.Overall, input.UserID)
	if err != nil {
		h.logger.Warn("percentile unavailable, using default", map[string]interface{}{
			"userId":     input.UserID,
			"percentile": percentile,
			"error":      err.Error(),
		})
	}
	score.Percentile = &percentile

	rec := history.FromScore(input.UserID, score)
	if err := h.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHistoryAppend, err)
	}

	h.recordMetrics(ctx, result, sector)

	h.logger.Info("qscore calculated", map[string]interface{}{
		"userId":       input.UserID,
		"overall":      score.Overall,
		"grade":        score.Grade,
		"percentile":   percentile,
		"sector":       sector,
		"bluffSignals": len(result.Signals),
		"historyId":    rec.ID,
	})

	return &Output{
		QScore:           score,
		Confidence:       result.Confidence,
		BluffSignals:     result.Signals,
		BluffPenalty:     float64(result.PenaltyPercent) / 100,
		Recommendations:  qscore.Recommend(score),
		HistoryID:        rec.ID,
		Sector:           sector,
		ValidationIssues: issues,
	}, nil
}

// decodeAssessment accepts a JSON object, null or nothing. Anything else is
// structurally unusable.
func decodeAssessment(raw json.RawMessage) (map[string]interface{}, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]interface{}{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("assessmentData must be a JSON object: %w", err)
	}
	return m, nil
}

func (h *Handler) engineFor(sector string) (string, *qscore.Engine) {
	if sector == "" {
		sector = h.config.DefaultSector
	}
	if engine, ok := h.engines[sector]; ok {
		return sector, engine
	}
	h.logger.Warn("unknown sector, using default weights", map[string]interface{}{
		"sector":   sector,
		"fallback": h.config.DefaultSector,
	})
	return h.config.DefaultSector, h.engines[h.config.DefaultSector]
}

// loadPrevious returns nil when the user has no history or the lookup fails;
// trends are then neutral.
func (h *Handler) loadPrevious(ctx context.Context, userID string) *qscore.PRDQScore {
	rec, err := h.store.Latest(ctx, userID)
	if errors.Is(err, apperrors.ErrHistoryNotFound) {
		return nil
	}
	if err != nil {
		h.logger.Warn("previous score lookup failed, trends will be neutral", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil
	}
	return rec.ToScore()
}

func (h *Handler) recordMetrics(ctx context.Context, result *qscore.Result, sector string) {
	metrics.QScoreCalculations.WithLabelValues(result.Score.Grade).Inc()
	metrics.QScoreOverall.Observe(float64(result.Score.Overall))
	for _, s := range result.Signals {
		metrics.QScoreBluffSignals.WithLabelValues(string(s.Signal), string(s.Severity)).Inc()
	}
	h.obs.RecordScore(ctx, result.Score.Overall, result.Score.Grade, sector)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		stdErr := apperrors.Normalize(err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return stdErr
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey":    job.Key,
		"overall":   output.QScore.Overall,
		"historyId": output.HistoryID,
	})
	return nil
}

// Execute runs the scoring pipeline without a Zeebe job. Used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
