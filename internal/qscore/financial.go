package qscore

import "qscore-workers/internal/assessment"

// ScoreFinancial scores unit economics, runway and the realism of projections.
func ScoreFinancial(d *assessment.Data) DimensionScore {
	f := d.Financial
	if f == nil {
		return notAssessed
	}

	points := 0

	// Gross margin (max 20 points)
	if f.COGS != nil && f.AverageDealSize > 0 {
		margin := (f.AverageDealSize - *f.COGS) / f.AverageDealSize * 100
		if margin >= 80 {
			points += 20
		} else if margin >= 70 {
			points += 17
		} else if margin >= 60 {
			points += 14
		} else if margin >= 50 {
			points += 10
		} else if margin >= 40 {
			points += 6
		} else {
			points += 2
		}
	} else {
		points += 5
	}

	// Revenue scale (max 20 points)
	revenue := d.AnnualRevenue()
	if revenue >= 1_000_000 {
		points += 20
	} else if revenue >= 500_000 {
		points += 17
	} else if revenue >= 100_000 {
		points += 14
	} else if revenue >= 50_000 {
		points += 10
	} else if revenue >= 10_000 {
		points += 6
	} else if revenue > 0 {
		points += 3
	}

	// Runway in months (max 30 points)
	if f.Runway > 0 {
		if f.Runway >= 18 {
			points += 30
		} else if f.Runway >= 12 {
			points += 25
		} else if f.Runway >= 9 {
			points += 20
		} else if f.Runway >= 6 {
			points += 15
		} else if f.Runway >= 3 {
			points += 10
		} else {
			points += 5
		}
	} else if f.MonthlyBurn > 0 {
		points += 10
	} else {
		points += 5
	}

	// Projection realism (max 15 points)
	if f.ProjectedRevenue12mo > 0 && revenue > 0 {
		growth := (f.ProjectedRevenue12mo - revenue) / revenue * 100
		if growth >= 50 && growth <= 300 {
			points += 15
		} else if growth >= 20 && growth <= 500 {
			points += 12
		} else if growth >= 0 {
			points += 8
		} else {
			points += 3
		}
	} else if f.ProjectedRevenue12mo > 0 {
		points += 10
	} else {
		points += 3
	}

	// Documented assumptions (max 15 points)
	if n := textLen(f.RevenueAssumptions); n > 50 {
		if n >= 200 {
			points += 15
		} else if n >= 100 {
			points += 12
		} else {
			points += 8
		}
	} else {
		points += 3
	}

	return result(points)
}
