// Package history persists computed scores in the append-only
// qscore_history table and reads them back for trends, cohorts and
// artifact boosts.
package history

import (
	"time"

	"qscore-workers/internal/qscore"
)

const (
	SourceAssessment      = "assessment"
	SourceAgentCompletion = "agent_completion"
)

// Record is one row of qscore_history.
type Record struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"userId"`
	Overall            int                      `json:"overall"`
	Percentile         *int                     `json:"percentile,omitempty"`
	Grade              string                   `json:"grade"`
	Scores             map[qscore.Dimension]int `json:"scores"`
	DataSource         string                   `json:"dataSource"`
	SourceArtifactType string                   `json:"sourceArtifactType,omitempty"`
	PreviousScoreID    string                   `json:"previousScoreId,omitempty"`
	CalculatedAt       time.Time                `json:"calculatedAt"`
}

// FromScore builds an assessment-sourced record for a freshly computed score.
func FromScore(userID string, score *qscore.PRDQScore) *Record {
	scores := make(map[qscore.Dimension]int, len(qscore.Dimensions))
	for _, dim := range qscore.Dimensions {
		scores[dim] = score.Breakdown[dim].Score
	}
	return &Record{
		UserID:       userID,
		Overall:      score.Overall,
		Percentile:   score.Percentile,
		Grade:        score.Grade,
		Scores:       scores,
		DataSource:   SourceAssessment,
		CalculatedAt: score.CalculatedAt,
	}
}

// ToScore rebuilds enough of a PRDQScore to serve as the previous score
// for trend computation.
func (r *Record) ToScore() *qscore.PRDQScore {
	breakdown := make(map[qscore.Dimension]qscore.DimensionResult, len(qscore.Dimensions))
	weights := qscore.DefaultWeights()
	for _, dim := range qscore.Dimensions {
		breakdown[dim] = qscore.DimensionResult{
			Score:     r.Scores[dim],
			MaxPoints: 100,
			Weight:    weights.Fraction(dim),
			Trend:     qscore.TrendNeutral,
		}
	}
	return &qscore.PRDQScore{
		Overall:      r.Overall,
		Percentile:   r.Percentile,
		Grade:        r.Grade,
		Breakdown:    breakdown,
		CalculatedAt: r.CalculatedAt,
	}
}
