package qscore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qscore-workers/internal/assessment"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return e
}

func TestEngine_Evaluate_FullyPopulatedRecord(t *testing.T) {
	result := newTestEngine(t).Evaluate(groceryFounder(), nil)

	score := result.Score
	assert.Equal(t, 82, score.Overall)
	assert.Equal(t, "B", score.Grade)
	assert.Nil(t, score.Percentile)
	assert.Equal(t, fixedTime, score.CalculatedAt)
	assert.Empty(t, result.Signals)
	assert.Equal(t, 0, result.PenaltyPercent)
	assert.Equal(t, 82, result.PreBluffOverall)

	require.Len(t, score.Breakdown, len(Dimensions))
	assert.Equal(t, 88, score.Breakdown[Market].Score)
	assert.Equal(t, 0.20, score.Breakdown[Market].Weight)
	assert.Equal(t, 64, score.Breakdown[Traction].Score)
	for _, dim := range Dimensions {
		assert.Equal(t, TrendNeutral, score.Breakdown[dim].Trend, dim)
		assert.Equal(t, 0, score.Breakdown[dim].Change, dim)
		assert.NotEqual(t, StatusNone, result.Confidence[dim].Status, dim)
	}
}

func TestEngine_Evaluate_EmptyMarketContributesNothing(t *testing.T) {
	data := &assessment.Data{TargetCustomers: 0, LifetimeValue: 0, ConversionRate: 0, CostPerAcquisition: 0}

	result := newTestEngine(t).Evaluate(data, nil)

	assert.Equal(t, 0, result.RawScores[Market].Score)
	assert.Equal(t, StatusNone, result.Confidence[Market].Status)
	assert.Equal(t, 0, result.Score.Breakdown[Market].Score)
	assert.Equal(t, 0, result.Score.Overall)
	assert.Equal(t, "F", result.Score.Grade)
}

func TestEngine_Evaluate_NoEvidenceScoresZero(t *testing.T) {
	result := newTestEngine(t).Evaluate(nil, nil)

	assert.Equal(t, 0, result.Score.Overall)
	assert.Equal(t, "F", result.Score.Grade)
	// Absent sub-records default to 50 raw but carry no evidence.
	assert.Equal(t, 50, result.RawScores[GoToMarket].Score)
	for _, dim := range Dimensions {
		assert.Equal(t, 0, result.Score.Breakdown[dim].Score, dim)
	}
}

func TestEngine_Evaluate_PartialCoverage(t *testing.T) {
	data := &assessment.Data{
		TargetCustomers:    25000,
		ConversionRate:     2.5,
		DailyActivity:      5000,
		LifetimeValue:      1200,
		CostPerAcquisition: 350,
	}

	result := newTestEngine(t).Evaluate(data, nil)

	// 88 over market only, less 5% for each of the five empty dimensions
	assert.Equal(t, 88, result.Score.Breakdown[Market].Score)
	assert.Equal(t, 66, result.Score.Overall)
	assert.Equal(t, "D", result.Score.Grade)
}

func TestEngine_Evaluate_LowConfidenceBlend(t *testing.T) {
	result := newTestEngine(t).Evaluate(&assessment.Data{ConversationCount: 5}, nil)

	assert.Equal(t, StatusLow, result.Confidence[Product].Status)
	assert.Equal(t, 10, result.RawScores[Product].Score)
	assert.Equal(t, 28, result.Score.Breakdown[Product].Score)

	assert.Equal(t, StatusMedium, result.Confidence[Traction].Status)
	assert.Equal(t, 9, result.Score.Breakdown[Traction].Score)

	assert.Equal(t, 16, result.Score.Overall)
}

func TestEngine_Evaluate_BluffPenaltyAppliedOnce(t *testing.T) {
	data := groceryFounder()
	data.ConversationCount = 75
	data.CustomerQuote = ""
	data.CustomerSurprise = ""

	result := newTestEngine(t).Evaluate(data, nil)

	require.Len(t, result.Signals, 1)
	assert.Equal(t, SignalInconsistent, result.Signals[0].Signal)
	assert.Equal(t, 3, result.PenaltyPercent)
	assert.Equal(t, ApplyPenalty(result.PreBluffOverall, result.Signals), result.Score.Overall)
	assert.Equal(t, Grade(result.Score.Overall), result.Score.Grade)
}

func TestEngine_Evaluate_Trend(t *testing.T) {
	previous := breakdownOf(map[Dimension]int{
		Market:     80,
		Product:    81,
		GoToMarket: 84,
		Financial:  90,
		Team:       95,
	})

	b := newTestEngine(t).Evaluate(groceryFounder(), previous).Score.Breakdown

	assert.Equal(t, TrendUp, b[Market].Trend)
	assert.Equal(t, 8, b[Market].Change)
	assert.Equal(t, TrendNeutral, b[Product].Trend)
	assert.Equal(t, 1, b[Product].Change)
	assert.Equal(t, TrendNeutral, b[GoToMarket].Trend)
	assert.Equal(t, -2, b[GoToMarket].Change)
	assert.Equal(t, TrendDown, b[Financial].Trend)
	assert.Equal(t, -7, b[Financial].Change)
	assert.Equal(t, TrendDown, b[Team].Trend)
	// No prior value for traction.
	assert.Equal(t, TrendNeutral, b[Traction].Trend)
	assert.Equal(t, 0, b[Traction].Change)
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	first := e.Evaluate(groceryFounder(), nil)
	second := e.Evaluate(groceryFounder(), nil)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEngine_Options(t *testing.T) {
	e := newTestEngine(t, WithSector("fintech"))
	assert.Equal(t, 24, e.Weights()[Financial])

	_, err := NewEngine(WithSector("space_mining"))
	assert.Error(t, err)

	_, err = NewEngine(WithWeights(Weights{Market: 100}))
	assert.Error(t, err)

	_, err = NewEngine(WithClock(nil))
	assert.Error(t, err)

	custom := Weights{Market: 50, Product: 10, GoToMarket: 10, Financial: 10, Team: 10, Traction: 10}
	e = newTestEngine(t, WithWeights(custom))
	custom[Market] = 0
	assert.Equal(t, 50, e.Weights()[Market])
}
