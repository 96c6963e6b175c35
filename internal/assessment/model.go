// Package assessment holds the self-reported founder assessment record and
// the boundary code that turns loosely typed job variables into it.
package assessment

// Data is one assessment snapshot. Every field is optional: empty strings,
// zero numbers, nil slices and nil sub-records all mean "not reported".
type Data struct {
	// Team narratives
	ProblemStory         string   `json:"problemStory,omitempty"`
	Advantages           []string `json:"advantages,omitempty"`
	AdvantageExplanation string   `json:"advantageExplanation,omitempty"`
	HardshipStory        string   `json:"hardshipStory,omitempty"`

	// Customer evidence
	CustomerQuote      string   `json:"customerQuote,omitempty"`
	CustomerSurprise   string   `json:"customerSurprise,omitempty"`
	CustomerCommitment string   `json:"customerCommitment,omitempty"`
	ConversationCount  float64  `json:"conversationCount,omitempty"`
	CustomerList       []string `json:"customerList,omitempty"`

	// Learning loop
	FailedBelief    string `json:"failedBelief,omitempty"`
	FailedReasoning string `json:"failedReasoning,omitempty"`
	FailedDiscovery string `json:"failedDiscovery,omitempty"`
	FailedChange    string `json:"failedChange,omitempty"`

	Tested      string  `json:"tested,omitempty"`
	BuildTime   float64 `json:"buildTime,omitempty"` // days
	Measurement string  `json:"measurement,omitempty"`
	Results     string  `json:"results,omitempty"`
	Learned     string  `json:"learned,omitempty"`
	Changed     string  `json:"changed,omitempty"`

	// Market sizing
	TargetCustomers    float64 `json:"targetCustomers,omitempty"`
	ConversionRate     float64 `json:"conversionRate,omitempty"` // percent
	DailyActivity      float64 `json:"dailyActivity,omitempty"`
	LifetimeValue      float64 `json:"lifetimeValue,omitempty"`
	CostPerAcquisition float64 `json:"costPerAcquisition,omitempty"`

	GTM       *GTM       `json:"gtm,omitempty"`
	Financial *Financial `json:"financial,omitempty"`
}

type GTM struct {
	ICPDescription   string          `json:"icpDescription,omitempty"`
	ChannelsTried    []string        `json:"channelsTried,omitempty"`
	ChannelResults   []ChannelResult `json:"channelResults,omitempty"`
	CurrentCAC       float64         `json:"currentCAC,omitempty"`
	TargetCAC        float64         `json:"targetCAC,omitempty"`
	MessagingTested  *bool           `json:"messagingTested,omitempty"`
	MessagingResults string          `json:"messagingResults,omitempty"`
}

type ChannelResult struct {
	Channel     string  `json:"channel"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CAC         float64 `json:"cac"`
}

type Financial struct {
	MRR                  float64  `json:"mrr,omitempty"`
	ARR                  float64  `json:"arr,omitempty"`
	MonthlyBurn          float64  `json:"monthlyBurn,omitempty"`
	Runway               float64  `json:"runway,omitempty"` // months
	COGS                 *float64 `json:"cogs,omitempty"`
	AverageDealSize      float64  `json:"averageDealSize,omitempty"`
	ProjectedRevenue12mo float64  `json:"projectedRevenue12mo,omitempty"`
	RevenueAssumptions   string   `json:"revenueAssumptions,omitempty"`
}

// NarrativeField is a named free-text answer.
type NarrativeField struct {
	Name  string
	Value string
}

// Narratives returns the fifteen top-level free-text answers in a fixed order.
func (d *Data) Narratives() []NarrativeField {
	return []NarrativeField{
		{"problemStory", d.ProblemStory},
		{"advantageExplanation", d.AdvantageExplanation},
		{"hardshipStory", d.HardshipStory},
		{"customerQuote", d.CustomerQuote},
		{"customerSurprise", d.CustomerSurprise},
		{"customerCommitment", d.CustomerCommitment},
		{"failedBelief", d.FailedBelief},
		{"failedReasoning", d.FailedReasoning},
		{"failedDiscovery", d.FailedDiscovery},
		{"failedChange", d.FailedChange},
		{"tested", d.Tested},
		{"measurement", d.Measurement},
		{"results", d.Results},
		{"learned", d.Learned},
		{"changed", d.Changed},
	}
}

// MRR and friends read through a nil Financial.
func (d *Data) MRR() float64 {
	if d.Financial == nil {
		return 0
	}
	return d.Financial.MRR
}

func (d *Data) ARR() float64 {
	if d.Financial == nil {
		return 0
	}
	return d.Financial.ARR
}

func (d *Data) MonthlyBurn() float64 {
	if d.Financial == nil {
		return 0
	}
	return d.Financial.MonthlyBurn
}

func (d *Data) Runway() float64 {
	if d.Financial == nil {
		return 0
	}
	return d.Financial.Runway
}

// AnnualRevenue is ARR when reported, otherwise MRR annualised.
func (d *Data) AnnualRevenue() float64 {
	if arr := d.ARR(); arr > 0 {
		return arr
	}
	return d.MRR() * 12
}
