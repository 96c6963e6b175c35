// internal/workers/scoring/calculate-qscore/models.go
package calculateqscore

import (
	"encoding/json"

	"qscore-workers/internal/assessment"
	"qscore-workers/internal/qscore"
)

type Input struct {
	UserID         string            `json:"userId"`
	AssessmentData json.RawMessage   `json:"assessmentData"`
	Sector         string            `json:"sector,omitempty"`
	PreviousScore  *qscore.PRDQScore `json:"previousScore,omitempty"`
}

type Output struct {
	QScore           *qscore.PRDQScore                               `json:"qScore"`
	Confidence       map[qscore.Dimension]qscore.DimensionConfidence `json:"confidence"`
	BluffSignals     []qscore.BluffSignal                            `json:"bluffSignals"`
	BluffPenalty     float64                                         `json:"bluffPenalty"`
	Recommendations  []qscore.Recommendation                         `json:"recommendations"`
	HistoryID        string                                          `json:"historyId"`
	Sector           string                                          `json:"sector"`
	ValidationIssues []assessment.Issue                              `json:"validationIssues,omitempty"`
}
