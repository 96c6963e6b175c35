package qscore

import (
	"time"

	"qscore-workers/internal/assessment"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// groceryFounder is a fully populated, consistent assessment with moderate metrics.
// Expected raw scores: market 88, product 82, goToMarket 82, financial 83, team 89, traction 64.
func groceryFounder() *assessment.Data {
	return &assessment.Data{
		ProblemStory: "I spent six years running logistics for a regional grocery chain and watched my team lose 8% of " +
			"fresh produce every week because ordering was done on spreadsheets. Last year I quit to fix that with my " +
			"co-founder, who built the forecasting models we now use.",
		AdvantageExplanation: "Our CTO worked as a forecasting engineer at a national retailer for five years, and I have " +
			"a network of 40 store managers who trust us with their ordering data.",
		HardshipStory: "Our first pilot failed when a store lost its internet for a week. We were rejected by two " +
			"investors but kept shipping fixes nightly.",

		CustomerQuote:      "If this had existed two years ago I would not have thrown away a truck of lettuce every Friday.",
		CustomerSurprise:   "Store managers cared more about fewer stockouts than about waste.",
		CustomerCommitment: "Three stores paid $400 a month each after a two week trial.",
		ConversationCount:  32,

		FailedBelief:    "We believed head office would buy first, not store managers.",
		FailedReasoning: "Head office owns the budget for software purchases.",
		FailedDiscovery: "Head office never answered; store managers replied within a day and asked for a trial.",
		FailedChange:    "We now sell store by store and let managers expense it from their own operating budget.",

		Tested:      "We tested a daily order suggestion email against the existing spreadsheet in 4 stores for 6 weeks.",
		BuildTime:   21,
		Measurement: "Waste per store per week in dollars, tracked in the POS export.",

		TargetCustomers:    25000,
		ConversionRate:     2.5,
		DailyActivity:      5000,
		LifetimeValue:      1200,
		CostPerAcquisition: 350,

		GTM: &assessment.GTM{
			ICPDescription: "Independent grocery stores with 3 to 15 locations, a fresh produce share above 30%, and a " +
				"store manager who places orders.",
			ChannelsTried: []string{"referrals", "cold email"},
			ChannelResults: []assessment.ChannelResult{
				{Channel: "referrals", Spend: 0, Conversions: 4, CAC: 0},
				{Channel: "cold email", Spend: 2400, Conversions: 6, CAC: 400},
			},
			CurrentCAC:       400,
			TargetCAC:        300,
			MessagingTested:  boolPtr(true),
			MessagingResults: "Waste savings in dollars beat stockout messaging by 2x on reply rate across 120 emails.",
		},
		Financial: &assessment.Financial{
			MRR:                  18500,
			MonthlyBurn:          42000,
			Runway:               14,
			COGS:                 floatPtr(30),
			AverageDealSize:      100,
			ProjectedRevenue12mo: 480000,
			RevenueAssumptions: "Each new store pays $400 a month; we add 3 stores a month from referrals and 2 from " +
				"outbound, churn 2% monthly.",
		},
	}
}

func breakdownOf(scores map[Dimension]int) *PRDQScore {
	b := make(map[Dimension]DimensionResult, len(scores))
	for dim, s := range scores {
		b[dim] = DimensionResult{Score: s, MaxPoints: maxPoints}
	}
	return &PRDQScore{Breakdown: b}
}

func allConfidence(status ConfidenceStatus) map[Dimension]DimensionConfidence {
	out := make(map[Dimension]DimensionConfidence, len(Dimensions))
	for _, dim := range Dimensions {
		out[dim] = DimensionConfidence{FieldsExpected: 4, FieldsPresent: 4, Confidence: 1, Status: status}
	}
	return out
}

func scoresOf(values map[Dimension]int) map[Dimension]DimensionScore {
	out := make(map[Dimension]DimensionScore, len(values))
	for dim, v := range values {
		out[dim] = DimensionScore{Score: v, RawPoints: v, MaxPoints: maxPoints}
	}
	return out
}
