package qscore

import (
	"strings"

	"qscore-workers/internal/assessment"
)

// lowBaseline is where sparse evidence is pulled toward.
const lowBaseline = 30

// expectedFields projects each dimension onto the inputs it relies on.
// Absent values are returned as nil so populated() can treat them uniformly.
var expectedFields = map[Dimension]func(d *assessment.Data) []interface{}{
	Market: func(d *assessment.Data) []interface{} {
		return []interface{}{d.TargetCustomers, d.LifetimeValue, d.ConversionRate, d.DailyActivity, d.CostPerAcquisition}
	},
	Product: func(d *assessment.Data) []interface{} {
		return []interface{}{
			d.CustomerQuote, d.CustomerSurprise, d.CustomerCommitment, d.ConversationCount,
			d.Tested, d.Measurement, d.Results,
			d.FailedBelief, d.FailedDiscovery, d.FailedChange,
		}
	},
	GoToMarket: func(d *assessment.Data) []interface{} {
		if d.GTM == nil {
			return []interface{}{nil, nil, nil, nil}
		}
		var tested interface{}
		if d.GTM.MessagingTested != nil {
			tested = *d.GTM.MessagingTested
		}
		return []interface{}{d.GTM.ICPDescription, d.GTM.ChannelsTried, d.GTM.CurrentCAC, tested}
	},
	Financial: func(d *assessment.Data) []interface{} {
		if d.Financial == nil {
			return []interface{}{nil, nil, nil, nil}
		}
		var cogs interface{}
		if d.Financial.COGS != nil {
			// A reported zero COGS is evidence.
			cogs = true
		}
		return []interface{}{d.Financial.MRR, d.Financial.MonthlyBurn, d.Financial.Runway, cogs}
	},
	Team: func(d *assessment.Data) []interface{} {
		return []interface{}{d.ProblemStory, d.AdvantageExplanation, d.HardshipStory}
	},
	Traction: func(d *assessment.Data) []interface{} {
		return []interface{}{d.ConversationCount, d.CustomerCommitment, d.MRR()}
	},
}

func populated(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	case []string:
		return len(x) > 0
	case bool:
		return true
	default:
		return true
	}
}

func confidenceStatus(present, expected int) ConfidenceStatus {
	switch {
	case expected == 0 || present == 0:
		return StatusNone
	case present*10 < expected*3:
		return StatusLow
	case present*10 < expected*7:
		return StatusMedium
	default:
		return StatusHigh
	}
}

// CalculateConfidence measures, per dimension, how many expected inputs are populated.
func CalculateConfidence(d *assessment.Data) map[Dimension]DimensionConfidence {
	if d == nil {
		d = &assessment.Data{}
	}
	out := make(map[Dimension]DimensionConfidence, len(Dimensions))
	for _, dim := range Dimensions {
		values := expectedFields[dim](d)
		present := 0
		for _, v := range values {
			if populated(v) {
				present++
			}
		}
		c := DimensionConfidence{
			FieldsExpected: len(values),
			FieldsPresent:  present,
			Status:         confidenceStatus(present, len(values)),
		}
		if len(values) > 0 {
			c.Confidence = float64(present) / float64(len(values))
		}
		out[dim] = c
	}
	return out
}

// AdjustForConfidence blends a raw score toward the low-evidence baseline.
// No evidence always yields 0; medium and high confidence trust the scorer.
func AdjustForConfidence(raw int, c DimensionConfidence) int {
	switch c.Status {
	case StatusNone:
		return 0
	case StatusLow:
		// round(raw*p/n + 30*(n-p)/n), kept in integers so .5 cases round exactly
		p, n := c.FieldsPresent, c.FieldsExpected
		return clamp(roundDiv(raw*p+lowBaseline*(n-p), n), 0, 100)
	default:
		return raw
	}
}
