package qscore

import (
	"fmt"
	"time"

	"qscore-workers/internal/assessment"
)

// Result is everything one evaluation produces. Score.Percentile is nil;
// ranking against history happens outside the engine.
type Result struct {
	Score           *PRDQScore                        `json:"qScore"`
	Confidence      map[Dimension]DimensionConfidence `json:"confidence"`
	RawScores       map[Dimension]DimensionScore      `json:"rawScores"`
	Signals         []BluffSignal                     `json:"bluffSignals"`
	PenaltyPercent  int                               `json:"bluffPenaltyPercent"`
	PreBluffOverall int                               `json:"preBluffOverall"`
}

// Engine runs the scoring pipeline. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	weights Weights
	now     func() time.Time
}

type Option func(*Engine) error

// WithWeights replaces the default weight profile.
func WithWeights(w Weights) Option {
	return func(e *Engine) error {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("invalid weights: %w", err)
		}
		e.weights = w.clone()
		return nil
	}
}

// WithSector selects a named weight profile.
func WithSector(sector string) Option {
	return func(e *Engine) error {
		w, ok := WeightsFor(sector)
		if !ok {
			return fmt.Errorf("unknown sector %q", sector)
		}
		e.weights = w
		return nil
	}
}

// WithClock sets the source of CalculatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now == nil {
			return fmt.Errorf("clock must not be nil")
		}
		e.now = now
		return nil
	}
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		weights: DefaultWeights(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) Weights() Weights {
	return e.weights.clone()
}

// Evaluate scores one assessment snapshot. previous, when set, drives the
// per-dimension trend. The bluff penalty is applied once, to the overall
// score after the coverage penalty, and the grade follows the penalised value.
func (e *Engine) Evaluate(d *assessment.Data, previous *PRDQScore) *Result {
	if d == nil {
		d = &assessment.Data{}
	}

	confidence := CalculateConfidence(d)
	raw := ScoreAll(d)

	adjusted := make(map[Dimension]DimensionScore, len(raw))
	for _, dim := range Dimensions {
		s := raw[dim]
		s.Score = AdjustForConfidence(s.Score, confidence[dim])
		adjusted[dim] = s
	}

	score := Aggregate(adjusted, confidence, e.weights, previous, e.now())

	signals := DetectBluffSignals(d)
	pct := PenaltyPercent(signals)
	preBluff := score.Overall
	score.Overall = applyPenaltyPercent(preBluff, pct)
	score.Grade = Grade(score.Overall)

	return &Result{
		Score:           score,
		Confidence:      confidence,
		RawScores:       raw,
		Signals:         signals,
		PenaltyPercent:  pct,
		PreBluffOverall: preBluff,
	}
}
