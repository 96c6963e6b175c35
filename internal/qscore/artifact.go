package qscore

// ArtifactBoost is the one-time nudge a completed agent artifact earns.
type ArtifactBoost struct {
	Dimension Dimension `json:"dimension"`
	Points    int       `json:"points"`
}

var artifactBoosts = map[string]ArtifactBoost{
	"icp_document":       {GoToMarket, 5},
	"outreach_sequence":  {Traction, 4},
	"battle_card":        {Market, 4},
	"gtm_playbook":       {GoToMarket, 6},
	"sales_script":       {Traction, 4},
	"brand_messaging":    {GoToMarket, 4},
	"financial_summary":  {Financial, 6},
	"legal_checklist":    {Financial, 3},
	"hiring_plan":        {Team, 5},
	"pmf_survey":         {Product, 5},
	"competitive_matrix": {Market, 5},
	"strategic_plan":     {Product, 4},
}

func BoostFor(artifactType string) (ArtifactBoost, bool) {
	b, ok := artifactBoosts[artifactType]
	return b, ok
}

// ApplyBoost adds the boost to one dimension, capped at 100, and returns the
// new dimension scores, the recomputed overall and the points actually added.
func ApplyBoost(scores map[Dimension]int, boost ArtifactBoost, weights Weights) (map[Dimension]int, int, int) {
	out := make(map[Dimension]int, len(Dimensions))
	for _, dim := range Dimensions {
		out[dim] = scores[dim]
	}
	before := out[boost.Dimension]
	out[boost.Dimension] = clamp(before+boost.Points, 0, 100)
	return out, WeightedOverall(out, weights), out[boost.Dimension] - before
}
