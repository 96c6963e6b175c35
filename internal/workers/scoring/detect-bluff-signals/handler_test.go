// internal/workers/scoring/detect-bluff-signals/handler_test.go
package detectbluffsignals

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/qscore"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

const buzzwords = "We are building a revolutionary and game-changing platform for busy teams."

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		assessment     string
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:       "no assessment",
			assessment: "",
			validateOutput: func(t *testing.T, output *Output) {
				assert.NotNil(t, output.Signals)
				assert.Empty(t, output.Signals)
				assert.Equal(t, 0.0, output.Penalty)
				assert.Equal(t, 0, output.SignalCount)
			},
		},
		{
			name: "round numbers, impossible ratio and buzzwords",
			assessment: `{
				"targetCustomers": 1000000,
				"lifetimeValue": 5000,
				"costPerAcquisition": 100,
				"problemStory": "` + buzzwords + `",
				"financial": {"mrr": 50000, "monthlyBurn": 20000}
			}`,
			validateOutput: func(t *testing.T, output *Output) {
				require.Len(t, output.Signals, 3)
				assert.Equal(t, qscore.SignalRoundNumbers, output.Signals[0].Signal)
				assert.Equal(t, "4 metrics are perfectly round numbers", output.Signals[0].Description)
				assert.Equal(t, qscore.SignalImpossible, output.Signals[1].Signal)
				assert.Equal(t, qscore.SeverityHigh, output.Signals[1].Severity)
				assert.Equal(t, "LTV:CAC ratio of 50.0:1 exceeds realistic bounds", output.Signals[1].Description)
				assert.Equal(t, "problemStory", output.Signals[2].Field)
				assert.Equal(t, "Generic phrasing detected: revolutionary, game-changing", output.Signals[2].Description)
				assert.Equal(t, 16, output.PenaltyPercent)
				assert.InDelta(t, 0.16, output.Penalty, 1e-9)
				assert.Equal(t, 3, output.SignalCount)
			},
		},
		{
			name: "penalty is capped",
			assessment: `{
				"targetCustomers": 1000000,
				"lifetimeValue": 5000,
				"costPerAcquisition": 100,
				"conversationCount": 200,
				"problemStory": "` + buzzwords + `",
				"advantageExplanation": "` + buzzwords + `",
				"hardshipStory": "` + buzzwords + `",
				"failedBelief": "` + buzzwords + `",
				"financial": {"monthlyBurn": 60000, "runway": 48}
			}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 8, output.SignalCount)
				assert.Equal(t, qscore.MaxPenaltyPercent, output.PenaltyPercent)
				assert.InDelta(t, 0.30, output.Penalty, 1e-9)
				last := output.Signals[len(output.Signals)-1]
				assert.Equal(t, "conversationCount", last.Field)
			},
		},
		{
			name:       "malformed fields are ignored",
			assessment: `{"lifetimeValue": "lots", "costPerAcquisition": 1}`,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Empty(t, output.Signals)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)

			output, err := h.Execute(context.Background(), &Input{AssessmentData: json.RawMessage(tt.assessment)})

			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	h := createTestHandler(t)
	input := &Input{AssessmentData: json.RawMessage(`{"problemStory": "` + buzzwords + `", "conversationCount": 80}`)}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHandler_Execute_NotAnObject(t *testing.T) {
	h := createTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{AssessmentData: json.RawMessage(`42`)})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrInvalidAssessment))
}
