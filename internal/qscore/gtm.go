package qscore

import "qscore-workers/internal/assessment"

// ScoreGoToMarket scores ICP clarity, channel testing, CAC discipline and messaging.
func ScoreGoToMarket(d *assessment.Data) DimensionScore {
	g := d.GTM
	if g == nil {
		return notAssessed
	}

	points := 0

	// ICP clarity (max 35 points)
	icp := textLen(g.ICPDescription)
	if icp >= 200 {
		points += 35
	} else if icp >= 100 {
		points += 25
	} else if icp >= 50 {
		points += 15
	} else {
		points += 5
	}

	// Channels tried (max 15 points)
	switch tried := len(g.ChannelsTried); {
	case tried >= 3:
		points += 15
	case tried == 2:
		points += 12
	case tried == 1:
		points += 8
	default:
		points += 3
	}

	// Channels with tracked results (max 10 points)
	switch tracked := len(g.ChannelResults); {
	case tracked >= 3:
		points += 10
	case tracked == 2:
		points += 8
	case tracked == 1:
		points += 5
	}

	// CAC against target (max 10 points)
	if g.CurrentCAC > 0 && g.TargetCAC > 0 {
		ratio := g.CurrentCAC / g.TargetCAC
		if ratio <= 1 {
			points += 10
		} else if ratio <= 1.5 {
			points += 7
		} else if ratio <= 2 {
			points += 4
		} else {
			points += 2
		}
	} else if g.CurrentCAC > 0 {
		points += 5
	}

	// Messaging (max 30 points)
	tested := g.MessagingTested != nil && *g.MessagingTested
	if tested && textLen(g.MessagingResults) > 50 {
		points += 30
	} else if tested {
		points += 20
	} else {
		points += 10
	}

	return result(points)
}
