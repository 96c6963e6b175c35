package qscore

import "time"

// coveragePenaltyPercent is taken off the overall per dimension with no evidence.
const coveragePenaltyPercent = 5

// trendThreshold is the change a dimension must exceed to count as moving.
const trendThreshold = 2

// Aggregate combines adjusted dimension scores into a PRDQScore. Dimensions
// without evidence are dropped from the weighted average and cost a coverage
// penalty instead. Percentile is left nil.
func Aggregate(
	scores map[Dimension]DimensionScore,
	confidence map[Dimension]DimensionConfidence,
	weights Weights,
	previous *PRDQScore,
	calculatedAt time.Time,
) *PRDQScore {
	breakdown := make(map[Dimension]DimensionResult, len(Dimensions))
	for _, dim := range Dimensions {
		s := scores[dim]
		trend, change := dimensionTrend(s.Score, previous, dim)
		breakdown[dim] = DimensionResult{
			Score:     s.Score,
			RawPoints: s.RawPoints,
			MaxPoints: s.MaxPoints,
			Weight:    weights.Fraction(dim),
			Trend:     trend,
			Change:    change,
		}
	}

	overall := weightedOverall(scores, confidence, weights)
	return &PRDQScore{
		Overall:      overall,
		Grade:        Grade(overall),
		Breakdown:    breakdown,
		CalculatedAt: calculatedAt,
	}
}

func weightedOverall(
	scores map[Dimension]DimensionScore,
	confidence map[Dimension]DimensionConfidence,
	weights Weights,
) int {
	weighted, activeWeight, missing := 0, 0, 0
	for _, dim := range Dimensions {
		if confidence[dim].Status == StatusNone {
			missing++
			continue
		}
		weighted += scores[dim].Score * weights[dim]
		activeWeight += weights[dim]
	}
	if activeWeight == 0 {
		return 0
	}
	// round(weighted/activeWeight * (100-5*missing)/100) in one integer division
	factor := 100 - coveragePenaltyPercent*missing
	return clamp(roundDiv(weighted*factor, activeWeight*100), 0, 100)
}

// WeightedOverall is the full-coverage weighted sum of a set of dimension scores.
func WeightedOverall(scores map[Dimension]int, weights Weights) int {
	total := 0
	for _, dim := range Dimensions {
		total += scores[dim] * weights[dim]
	}
	return clamp(roundDiv(total, 100), 0, 100)
}

func dimensionTrend(current int, previous *PRDQScore, dim Dimension) (Trend, int) {
	if previous == nil {
		return TrendNeutral, 0
	}
	prev, ok := previous.Breakdown[dim]
	if !ok {
		return TrendNeutral, 0
	}
	change := current - prev.Score
	switch {
	case change > trendThreshold:
		return TrendUp, change
	case change < -trendThreshold:
		return TrendDown, change
	default:
		return TrendNeutral, change
	}
}
