package qscore

import (
	"strings"
	"unicode/utf8"

	"qscore-workers/internal/assessment"
)

// ScoreFunc scores one dimension from the full record, reading only its own inputs.
type ScoreFunc func(d *assessment.Data) DimensionScore

// maxPoints is the nominal budget every scorer normalises against.
const maxPoints = 100

// notAssessed is returned when an optional sub-record is absent entirely.
var notAssessed = DimensionScore{Score: 50, RawPoints: 50, MaxPoints: maxPoints}

var scorers = map[Dimension]ScoreFunc{
	Market:     ScoreMarket,
	Product:    ScoreProduct,
	GoToMarket: ScoreGoToMarket,
	Financial:  ScoreFinancial,
	Team:       ScoreTeam,
	Traction:   ScoreTraction,
}

// Scorer returns the registered scorer for a dimension.
func Scorer(dim Dimension) (ScoreFunc, bool) {
	fn, ok := scorers[dim]
	return fn, ok
}

// ScoreAll runs every registered scorer.
func ScoreAll(d *assessment.Data) map[Dimension]DimensionScore {
	if d == nil {
		d = &assessment.Data{}
	}
	out := make(map[Dimension]DimensionScore, len(scorers))
	for _, dim := range Dimensions {
		out[dim] = scorers[dim](d)
	}
	return out
}

func result(points int) DimensionScore {
	return DimensionScore{
		Score:     normalize(points, maxPoints),
		RawPoints: points,
		MaxPoints: maxPoints,
	}
}

// textLen counts characters, not bytes.
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}

func containsAny(lower string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func allEmpty(values ...interface{}) bool {
	for _, v := range values {
		if populated(v) {
			return false
		}
	}
	return true
}
