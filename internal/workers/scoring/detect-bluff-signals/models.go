// internal/workers/scoring/detect-bluff-signals/models.go
package detectbluffsignals

import (
	"encoding/json"

	"qscore-workers/internal/qscore"
)

type Input struct {
	UserID         string          `json:"userId,omitempty"`
	AssessmentData json.RawMessage `json:"assessmentData"`
}

type Output struct {
	Signals        []qscore.BluffSignal `json:"signals"`
	Penalty        float64              `json:"penalty"`
	PenaltyPercent int                  `json:"penaltyPercent"`
	SignalCount    int                  `json:"signalCount"`
}
