// internal/workers/scoring/apply-artifact-boost/models.go
package applyartifactboost

import "qscore-workers/internal/qscore"

type Input struct {
	UserID       string `json:"userId"`
	ArtifactType string `json:"artifactType"`
}

type Output struct {
	Boosted     bool             `json:"boosted"`
	PointsAdded int              `json:"pointsAdded"`
	Dimension   qscore.Dimension `json:"dimension,omitempty"`
	NewOverall  int              `json:"newOverall,omitempty"`
	HistoryID   string           `json:"historyId,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// Reasons reported when no boost is applied.
const (
	ReasonUnknownArtifact = "unknown_artifact_type"
	ReasonAlreadyApplied  = "already_applied"
	ReasonNoScore         = "no_existing_score"
)
