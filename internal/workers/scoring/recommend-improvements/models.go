// internal/workers/scoring/recommend-improvements/models.go
package recommendimprovements

import "qscore-workers/internal/qscore"

type Input struct {
	QScore *qscore.PRDQScore `json:"qScore"`
}

type Output struct {
	Recommendations []qscore.Recommendation `json:"recommendations"`
}
