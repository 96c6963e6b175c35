package qscore

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"qscore-workers/internal/assessment"
)

// MaxPenaltyPercent caps the total bluff penalty.
const MaxPenaltyPercent = 30

var severityPenalty = map[Severity]int{
	SeverityHigh:   10,
	SeverityMedium: 3,
	SeverityLow:    1,
}

var genericPhrases = []string{
	"leveraging cutting-edge",
	"revolutionary",
	"game-changing",
	"paradigm shift",
	"synergistic",
	"holistic approach",
	"in today's fast-paced",
	"unprecedented",
	"transformative solution",
	"disruptive innovation",
	"seamlessly integrate",
	"scalable and robust",
	"state-of-the-art",
	"best-in-class",
	"end-to-end solution",
	"unlock the full potential",
	"next-generation",
	"world-class",
}

var specificityPattern = regexp.MustCompile(`(?i)(\blast (week|month|quarter|year)\b` +
	`|\bin (january|february|march|april|may|june|july|august|september|october|november|december)\b` +
	`|\b\d{1,2}/\d{1,2}\b` +
	`|\$[\d,]+` +
	`|\b\d+%` +
	`|\b\d+ (customers|users|people|companies|conversations|calls|meetings))`)

type roundCandidate struct {
	field     string
	value     float64
	threshold float64
}

const (
	phraseMinLength      = 30
	specificityMinLength = 200
	roundNumberMinCount  = 3
	maxLTVToCAC          = 20
)

// DetectBluffSignals runs every heuristic independently; signals are returned
// in rule order so identical input always yields an identical list.
func DetectBluffSignals(d *assessment.Data) []BluffSignal {
	if d == nil {
		return []BluffSignal{}
	}

	signals := make([]BluffSignal, 0)
	signals = append(signals, roundNumberSignals(d)...)
	signals = append(signals, impossibleRatioSignals(d)...)
	signals = append(signals, narrativeSignals(d)...)
	signals = append(signals, financialSignals(d)...)
	signals = append(signals, evidenceSignals(d)...)
	return signals
}

func roundNumberSignals(d *assessment.Data) []BluffSignal {
	candidates := []roundCandidate{
		{"targetCustomers", d.TargetCustomers, 10_000},
		{"financial.mrr", d.MRR(), 1_000},
		{"financial.monthlyBurn", d.MonthlyBurn(), 1_000},
		{"costPerAcquisition", d.CostPerAcquisition, 10},
		{"lifetimeValue", d.LifetimeValue, 100},
	}

	count := 0
	for _, c := range candidates {
		if c.value >= c.threshold && math.Mod(c.value, 1000) == 0 {
			count++
		}
	}
	if count < roundNumberMinCount {
		return nil
	}
	return []BluffSignal{{
		Field:       "numeric_fields",
		Signal:      SignalRoundNumbers,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("%d metrics are perfectly round numbers", count),
	}}
}

func impossibleRatioSignals(d *assessment.Data) []BluffSignal {
	ltv, cac := d.LifetimeValue, d.CostPerAcquisition
	if ltv <= 0 || cac <= 0 {
		return nil
	}
	ratio := ltv / cac
	if ratio <= maxLTVToCAC {
		return nil
	}
	return []BluffSignal{{
		Field:       "lifetimeValue",
		Signal:      SignalImpossible,
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("LTV:CAC ratio of %.1f:1 exceeds realistic bounds", ratio),
	}}
}

func narrativeSignals(d *assessment.Data) []BluffSignal {
	var signals []BluffSignal
	for _, n := range d.Narratives() {
		length := textLen(n.Value)

		if length >= phraseMinLength {
			lower := strings.ToLower(n.Value)
			var found []string
			for _, p := range genericPhrases {
				if strings.Contains(lower, p) {
					found = append(found, p)
				}
			}
			if len(found) >= 2 {
				shown := found
				if len(shown) > 3 {
					shown = shown[:3]
				}
				signals = append(signals, BluffSignal{
					Field:       n.Name,
					Signal:      SignalGeneric,
					Severity:    SeverityMedium,
					Description: "Generic phrasing detected: " + strings.Join(shown, ", "),
				})
			}
		}

		if length >= specificityMinLength && !specificityPattern.MatchString(n.Value) {
			signals = append(signals, BluffSignal{
				Field:       n.Name,
				Signal:      SignalGeneric,
				Severity:    SeverityLow,
				Description: "Long answer with no specific dates, amounts or counts",
			})
		}
	}
	return signals
}

func financialSignals(d *assessment.Data) []BluffSignal {
	if d.Financial == nil {
		return nil
	}
	mrr, burn, arr, runway := d.MRR(), d.MonthlyBurn(), d.ARR(), d.Runway()

	var signals []BluffSignal
	if mrr > 0 && burn > 0 && mrr > 10*burn && arr == 0 {
		signals = append(signals, BluffSignal{
			Field:       "financial.mrr",
			Signal:      SignalInconsistent,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("MRR of %.0f is more than 10x monthly burn of %.0f with no ARR reported", mrr, burn),
		})
	}
	if runway > 36 && burn > 50_000 && mrr < 0.1*burn {
		signals = append(signals, BluffSignal{
			Field:       "financial.runway",
			Signal:      SignalInconsistent,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Runway of %.0f months is unlikely with burn of %.0f and little revenue", runway, burn),
		})
	}
	return signals
}

func evidenceSignals(d *assessment.Data) []BluffSignal {
	if d.ConversationCount <= 50 {
		return nil
	}
	if strings.TrimSpace(d.CustomerQuote) != "" || strings.TrimSpace(d.CustomerSurprise) != "" {
		return nil
	}
	return []BluffSignal{{
		Field:       "conversationCount",
		Signal:      SignalInconsistent,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("Claims %.0f customer conversations but provides no quotes or surprises", d.ConversationCount),
	}}
}

// PenaltyPercent sums severity weights and caps the result at MaxPenaltyPercent.
func PenaltyPercent(signals []BluffSignal) int {
	total := 0
	for _, s := range signals {
		total += severityPenalty[s.Severity]
	}
	return clamp(total, 0, MaxPenaltyPercent)
}

// ApplyPenalty discounts a score by the signals' combined penalty.
func ApplyPenalty(score int, signals []BluffSignal) int {
	return applyPenaltyPercent(score, PenaltyPercent(signals))
}

func applyPenaltyPercent(score, pct int) int {
	return clamp(roundDiv(score*(100-pct), 100), 0, 100)
}
