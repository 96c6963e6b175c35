package qscore

import "qscore-workers/internal/assessment"

// ScoreProduct covers customer validation, iteration speed and learning from failed assumptions.
func ScoreProduct(d *assessment.Data) DimensionScore {
	if allEmpty(
		d.ConversationCount, d.CustomerQuote, d.CustomerCommitment, d.CustomerSurprise,
		d.BuildTime, d.Tested, d.Measurement, d.Learned, d.Changed,
		d.FailedBelief, d.FailedDiscovery, d.FailedChange, d.FailedReasoning,
	) {
		return DimensionScore{Score: 0, RawPoints: 0, MaxPoints: maxPoints}
	}

	points := 0

	// Conversation volume (max 20 points)
	conversations := d.ConversationCount
	if conversations >= 50 {
		points += 20
	} else if conversations >= 20 {
		points += 16
	} else if conversations >= 10 {
		points += 12
	} else if conversations >= 5 {
		points += 8
	} else {
		points += 4
	}

	// Evidence quality (max 20 points)
	if textLen(d.CustomerQuote) > 50 {
		points += 8
	}
	if textLen(d.CustomerCommitment) > 30 {
		points += 7
	}
	if textLen(d.CustomerSurprise) > 30 {
		points += 5
	}

	// Build time in days, faster is better (max 10 points); unreported earns the floor
	buildTime := d.BuildTime
	if buildTime <= 0 {
		points += 2
	} else if buildTime <= 7 {
		points += 10
	} else if buildTime <= 14 {
		points += 8
	} else if buildTime <= 30 {
		points += 6
	} else if buildTime <= 60 {
		points += 4
	} else {
		points += 2
	}

	// Learning loop completeness (max 20 points)
	if textLen(d.Tested) > 50 {
		points += 5
	}
	if textLen(d.Measurement) > 30 {
		points += 5
	}
	if textLen(d.Learned) > 50 {
		points += 5
	}
	if textLen(d.Changed) > 30 {
		points += 5
	}

	// Failed assumptions (max 30 points)
	if textLen(d.FailedBelief) > 30 {
		points += 8
	}
	if textLen(d.FailedDiscovery) > 50 {
		points += 8
	}
	if textLen(d.FailedChange) > 50 {
		points += 8
	}
	if textLen(d.FailedReasoning) > 30 {
		points += 6
	}

	return result(points)
}
