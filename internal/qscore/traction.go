package qscore

import (
	"regexp"
	"strings"

	"qscore-workers/internal/assessment"
)

var loiPattern = regexp.MustCompile(`\bloi\b`)

// ScoreTraction scores customer pull, revenue scale and a growth proxy.
// The growth criterion has no direct input yet, so the best reachable
// total is 80 of the nominal 100 points.
func ScoreTraction(d *assessment.Data) DimensionScore {
	revenue := d.AnnualRevenue()
	if allEmpty(d.ConversationCount, d.CustomerCommitment, d.MRR(), d.ARR()) {
		return DimensionScore{Score: 0, RawPoints: 0, MaxPoints: maxPoints}
	}

	points := 0

	// Customer conversations (max 20 points)
	conversations := d.ConversationCount
	if conversations >= 100 {
		points += 20
	} else if conversations >= 50 {
		points += 18
	} else if conversations >= 30 {
		points += 15
	} else if conversations >= 20 {
		points += 12
	} else if conversations >= 10 {
		points += 8
	} else if conversations >= 5 {
		points += 4
	}

	// Customer commitment (max 20 points)
	commitment := strings.ToLower(d.CustomerCommitment)
	if n := textLen(d.CustomerCommitment); n > 0 {
		paid := containsAny(commitment, "paid", "purchased", "bought", "$") || revenue > 0
		loi := loiPattern.MatchString(commitment) || containsAny(commitment, "letter of intent", "signed", "contract")
		waitlist := containsAny(commitment, "waitlist", "wait list", "signed up")

		if paid && n >= 150 {
			points += 20
		} else if paid {
			points += 17
		} else if loi && n >= 100 {
			points += 15
		} else if loi {
			points += 12
		} else if waitlist && n >= 100 {
			points += 10
		} else if waitlist {
			points += 8
		} else if n >= 150 {
			points += 6
		} else if n >= 50 {
			points += 3
		} else {
			points += 1
		}
	}

	// Annual revenue (max 30 points)
	if revenue >= 1_000_000 {
		points += 30
	} else if revenue >= 500_000 {
		points += 28
	} else if revenue >= 250_000 {
		points += 25
	} else if revenue >= 100_000 {
		points += 22
	} else if revenue >= 50_000 {
		points += 18
	} else if revenue >= 25_000 {
		points += 14
	} else if revenue >= 10_000 {
		points += 10
	} else if revenue >= 5_000 {
		points += 6
	} else if revenue > 0 {
		points += 3
	}

	// Growth proxy (max 10 of a nominal 30 points)
	if conversations >= 20 || revenue >= 10_000 {
		points += 10
	} else {
		points += 5
	}

	return result(points)
}
