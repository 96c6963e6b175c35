package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{name: "insert failure retries", err: NewHistoryInsertFailedError(fmt.Errorf("conn reset")), expectedCode: "HISTORY_INSERT_FAILED", expectedRetries: 3},
		{name: "timeout retries twice", err: NewQueryTimeoutError("cohort"), expectedCode: "QUERY_TIMEOUT", expectedRetries: 2},
		{name: "missing input is thrown", err: NewScoreInputMissingError("userId"), expectedCode: "SCORE_INPUT_MISSING", expectedRetries: 0},
		{name: "unparseable variables are thrown", err: NewAssessmentParseFailedError(fmt.Errorf("bad json")), expectedCode: "ASSESSMENT_PARSE_FAILED", expectedRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err.WithMetadata("userId", "user-1"))

			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, "user-1", vars["userId"])
		})
	}
}

func TestNormalize(t *testing.T) {
	stdErr := NewHistoryQueryFailedError("latest", context.DeadlineExceeded)
	wrapped := fmt.Errorf("calculate: %w", stdErr)

	assert.Same(t, stdErr, Normalize(wrapped))
	assert.True(t, stderrors.Is(wrapped, context.DeadlineExceeded))

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
	assert.Equal(t, "boom", plain.Details)
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	percentileErr := NewPercentileUnavailableError(fmt.Errorf("dial tcp: connection refused"))
	assert.True(t, stderrors.Is(percentileErr, ErrCohortUnavailable))
	assert.False(t, percentileErr.Retryable)

	artifactErr := NewUnknownArtifactTypeError("pitch_deck")
	assert.True(t, stderrors.Is(artifactErr, ErrArtifactTypeUnknown))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeAssessmentValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeScoreInputMissing))
	assert.Equal(t, "ARTIFACT", GetErrorCategory(ErrCodeUnknownArtifactType))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeHistoryInsertFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "PERCENTILE", GetErrorCategory(ErrCodePercentileUnavailable))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))

	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeUnknownArtifactType))
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Retries: retries}}
	}

	assert.Equal(t, int32(2), remainingRetries(job(3), 3))
	assert.Equal(t, int32(1), remainingRetries(job(2), 3))
	assert.Equal(t, int32(2), remainingRetries(job(5), 3))
}

func TestAsStandardError(t *testing.T) {
	_, ok := AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)

	stdErr, ok := AsStandardError(fmt.Errorf("wrapped: %w", NewScoreInputMissingError("qScore")))
	require.True(t, ok)
	assert.Equal(t, ErrCodeScoreInputMissing, stdErr.Code)
}
