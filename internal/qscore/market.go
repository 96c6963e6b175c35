package qscore

import "qscore-workers/internal/assessment"

// ScoreMarket rewards market size and realistic, not maximal, funnel assumptions.
func ScoreMarket(d *assessment.Data) DimensionScore {
	targetCustomers := d.TargetCustomers
	ltv := d.LifetimeValue
	conversion := d.ConversionRate
	cac := d.CostPerAcquisition

	if targetCustomers == 0 && ltv == 0 && conversion == 0 && cac == 0 {
		return DimensionScore{Score: 0, RawPoints: 0, MaxPoints: maxPoints}
	}

	points := 0

	// TAM size (max 40 points)
	tam := targetCustomers * ltv
	if tam >= 1_000_000_000 {
		points += 40
	} else if tam >= 100_000_000 {
		points += 35
	} else if tam >= 10_000_000 {
		points += 28
	} else if tam >= 1_000_000 {
		points += 20
	} else {
		points += 10
	}

	// Conversion rate realism (max 30 points)
	if conversion >= 0.5 && conversion <= 5 {
		points += 30
	} else if conversion >= 0.1 && conversion <= 10 {
		points += 20
	} else if conversion < 0.5 {
		points += 10
	} else {
		points += 5
	}

	// Daily activity realism (max 20 points)
	activityRate := 0.0
	if targetCustomers > 0 {
		activityRate = d.DailyActivity / targetCustomers * 100
	}
	if activityRate >= 10 && activityRate <= 50 {
		points += 20
	} else if activityRate >= 5 && activityRate <= 70 {
		points += 15
	} else {
		points += 5
	}

	// LTV:CAC, capped at 3:1 (max 10 points)
	ratio := 0.0
	if cac > 0 {
		ratio = ltv / cac
	}
	if ratio >= 3 {
		points += 10
	} else if ratio >= 2 {
		points += 7
	} else if ratio >= 1 {
		points += 4
	}

	return result(points)
}
