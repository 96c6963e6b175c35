package qscore

import "sort"

const (
	recommendationCount = 3
	gainRatePercent     = 15
)

var actions = map[Dimension]string{
	Market:     "Validate market size and growth assumptions with customer data",
	Product:    "Conduct more customer interviews and iterate on product feedback",
	GoToMarket: "Define your ICP clearly and test 2-3 acquisition channels",
	Financial:  "Build detailed financial projections and improve unit economics",
	Team:       "Fill key skill gaps and document team expertise in domain",
	Traction:   "Focus on customer acquisition and revenue growth metrics",
}

// Recommend returns the three weakest dimensions, lowest score first.
// Ties keep canonical dimension order.
func Recommend(score *PRDQScore) []Recommendation {
	if score == nil {
		return []Recommendation{}
	}

	dims := make([]Dimension, len(Dimensions))
	copy(dims, Dimensions[:])
	sort.SliceStable(dims, func(i, j int) bool {
		return score.Breakdown[dims[i]].Score < score.Breakdown[dims[j]].Score
	})

	out := make([]Recommendation, 0, recommendationCount)
	for _, dim := range dims[:recommendationCount] {
		current := score.Breakdown[dim].Score
		out = append(out, Recommendation{
			Dimension:     dim,
			Label:         dim.Label(),
			CurrentScore:  current,
			PotentialGain: roundDiv((100-clamp(current, 0, 100))*gainRatePercent, 100),
			Priority:      priorityFor(current),
			Action:        actions[dim],
		})
	}
	return out
}

func priorityFor(score int) Priority {
	switch {
	case score < 40:
		return PriorityHigh
	case score < 70:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
