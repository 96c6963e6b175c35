package qscore

import "time"

type ConfidenceStatus string

const (
	StatusNone   ConfidenceStatus = "none"
	StatusLow    ConfidenceStatus = "low"
	StatusMedium ConfidenceStatus = "medium"
	StatusHigh   ConfidenceStatus = "high"
)

type DimensionConfidence struct {
	FieldsExpected int              `json:"fieldsExpected"`
	FieldsPresent  int              `json:"fieldsPresent"`
	Confidence     float64          `json:"confidence"`
	Status         ConfidenceStatus `json:"status"`
}

// DimensionScore is a scorer's raw output, before confidence adjustment.
type DimensionScore struct {
	Score     int `json:"score"`
	RawPoints int `json:"rawPoints"`
	MaxPoints int `json:"maxPoints"`
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

type DimensionResult struct {
	Score     int     `json:"score"`
	RawPoints int     `json:"rawPoints"`
	MaxPoints int     `json:"maxPoints"`
	Weight    float64 `json:"weight"`
	Trend     Trend   `json:"trend"`
	Change    int     `json:"change"`
}

type PRDQScore struct {
	Overall      int                           `json:"overall"`
	Percentile   *int                          `json:"percentile"`
	Grade        string                        `json:"grade"`
	Breakdown    map[Dimension]DimensionResult `json:"breakdown"`
	CalculatedAt time.Time                     `json:"calculatedAt"`
}

type SignalKind string

const (
	SignalTooPerfect   SignalKind = "too_perfect"
	SignalInconsistent SignalKind = "inconsistent"
	SignalGeneric      SignalKind = "generic"
	SignalRoundNumbers SignalKind = "round_numbers"
	SignalImpossible   SignalKind = "impossible"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type BluffSignal struct {
	Field       string     `json:"field"`
	Signal      SignalKind `json:"signal"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Recommendation struct {
	Dimension     Dimension `json:"dimension"`
	Label         string    `json:"label"`
	CurrentScore  int       `json:"currentScore"`
	PotentialGain int       `json:"potentialGain"`
	Priority      Priority  `json:"priority"`
	Action        string    `json:"action"`
}
