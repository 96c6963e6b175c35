package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode parses a JSON object into Data, coercing malformed values to absent.
func Decode(raw []byte) (*Data, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("decode assessment: payload is not an object")
	}
	return FromMap(m), nil
}

// FromMap builds Data from loosely typed job variables. Wrong-typed,
// negative or non-finite values are treated as not reported.
func FromMap(raw map[string]interface{}) *Data {
	d := &Data{}
	if raw == nil {
		return d
	}

	d.ProblemStory = str(raw["problemStory"])
	d.Advantages = strList(raw["advantages"])
	d.AdvantageExplanation = str(raw["advantageExplanation"])
	d.HardshipStory = str(raw["hardshipStory"])

	d.CustomerQuote = str(raw["customerQuote"])
	d.CustomerSurprise = str(raw["customerSurprise"])
	d.CustomerCommitment = str(raw["customerCommitment"])
	d.ConversationCount = num(raw["conversationCount"])
	d.CustomerList = strList(raw["customerList"])

	d.FailedBelief = str(raw["failedBelief"])
	d.FailedReasoning = str(raw["failedReasoning"])
	d.FailedDiscovery = str(raw["failedDiscovery"])
	d.FailedChange = str(raw["failedChange"])

	d.Tested = str(raw["tested"])
	d.BuildTime = num(raw["buildTime"])
	d.Measurement = str(raw["measurement"])
	d.Results = str(raw["results"])
	d.Learned = str(raw["learned"])
	d.Changed = str(raw["changed"])

	d.TargetCustomers = num(raw["targetCustomers"])
	d.ConversionRate = num(raw["conversionRate"])
	d.DailyActivity = num(raw["dailyActivity"])
	d.LifetimeValue = num(raw["lifetimeValue"])
	d.CostPerAcquisition = num(raw["costPerAcquisition"])

	if g, ok := raw["gtm"].(map[string]interface{}); ok {
		d.GTM = gtmFromMap(g)
	}
	if f, ok := raw["financial"].(map[string]interface{}); ok {
		d.Financial = financialFromMap(f)
	}

	return d
}

func gtmFromMap(raw map[string]interface{}) *GTM {
	g := &GTM{
		ICPDescription:   str(raw["icpDescription"]),
		ChannelsTried:    strList(raw["channelsTried"]),
		CurrentCAC:       num(raw["currentCAC"]),
		TargetCAC:        num(raw["targetCAC"]),
		MessagingResults: str(raw["messagingResults"]),
	}
	if b, ok := boolean(raw["messagingTested"]); ok {
		g.MessagingTested = &b
	}
	if items, ok := raw["channelResults"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			g.ChannelResults = append(g.ChannelResults, ChannelResult{
				Channel:     str(m["channel"]),
				Spend:       num(m["spend"]),
				Conversions: num(m["conversions"]),
				CAC:         num(m["cac"]),
			})
		}
	}
	return g
}

func financialFromMap(raw map[string]interface{}) *Financial {
	f := &Financial{
		MRR:                  num(raw["mrr"]),
		ARR:                  num(raw["arr"]),
		MonthlyBurn:          num(raw["monthlyBurn"]),
		Runway:               num(raw["runway"]),
		AverageDealSize:      num(raw["averageDealSize"]),
		ProjectedRevenue12mo: num(raw["projectedRevenue12mo"]),
		RevenueAssumptions:   str(raw["revenueAssumptions"]),
	}
	// Zero COGS is a real answer, so presence is tracked separately.
	if v, ok := parseNumber(raw["cogs"]); ok && v >= 0 {
		f.COGS = &v
	}
	return f
}

func str(raw interface{}) string {
	s, _ := raw.(string)
	return s
}

func strList(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func num(raw interface{}) float64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

func parseNumber(raw interface{}) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		cleaned = strings.TrimPrefix(cleaned, "$")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func boolean(raw interface{}) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}
