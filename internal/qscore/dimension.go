// Package qscore is the PRD-aligned investment readiness engine: six
// dimension scorers, a confidence model, a bluff detector and the
// aggregation that turns them into one graded PRDQScore. Everything in
// this package is a pure function of its inputs.
package qscore

import (
	"fmt"
	"sort"
)

type Dimension string

const (
	Market     Dimension = "market"
	Product    Dimension = "product"
	GoToMarket Dimension = "goToMarket"
	Financial  Dimension = "financial"
	Team       Dimension = "team"
	Traction   Dimension = "traction"
)

// Dimensions lists the six dimensions in canonical order.
var Dimensions = [...]Dimension{Market, Product, GoToMarket, Financial, Team, Traction}

var labels = map[Dimension]string{
	Market:     "Market",
	Product:    "Product",
	GoToMarket: "Go-to-Market",
	Financial:  "Financial",
	Team:       "Team",
	Traction:   "Traction",
}

func (d Dimension) Label() string {
	if l, ok := labels[d]; ok {
		return l
	}
	return string(d)
}

func (d Dimension) Valid() bool {
	_, ok := labels[d]
	return ok
}

// Weights holds per-dimension importance in hundredths, so a valid set
// sums to exactly 100 with no floating point drift.
type Weights map[Dimension]int

// Fraction returns the weight as a 0-1 value for reporting.
func (w Weights) Fraction(d Dimension) float64 {
	return float64(w[d]) / 100
}

func (w Weights) Validate() error {
	sum := 0
	for _, d := range Dimensions {
		v, ok := w[d]
		if !ok {
			return fmt.Errorf("weight for %s is missing", d)
		}
		if v < 0 {
			return fmt.Errorf("weight for %s is negative: %d", d, v)
		}
		sum += v
	}
	if len(w) != len(Dimensions) {
		return fmt.Errorf("weights name %d dimensions, want %d", len(w), len(Dimensions))
	}
	if sum != 100 {
		return fmt.Errorf("weights sum to %d/100, want 100/100", sum)
	}
	return nil
}

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

const DefaultSector = "default"

var sectorWeights = map[string]Weights{
	DefaultSector: {Market: 20, Product: 18, GoToMarket: 17, Financial: 18, Team: 15, Traction: 12},

	"saas_b2b":         {Market: 20, Product: 18, GoToMarket: 20, Financial: 18, Team: 14, Traction: 10},
	"saas_b2c":         {Market: 16, Product: 22, GoToMarket: 16, Financial: 14, Team: 12, Traction: 20},
	"marketplace":      {Market: 18, Product: 14, GoToMarket: 16, Financial: 20, Team: 12, Traction: 20},
	"biotech_deeptech": {Market: 26, Product: 22, GoToMarket: 12, Financial: 16, Team: 20, Traction: 4},
	"consumer":         {Market: 16, Product: 18, GoToMarket: 20, Financial: 18, Team: 10, Traction: 18},
	"fintech":          {Market: 22, Product: 18, GoToMarket: 14, Financial: 24, Team: 14, Traction: 8},
	"hardware":         {Market: 20, Product: 20, GoToMarket: 14, Financial: 22, Team: 18, Traction: 6},
	"ecommerce":        {Market: 16, Product: 14, GoToMarket: 18, Financial: 24, Team: 10, Traction: 18},
}

func init() {
	for sector, w := range sectorWeights {
		if err := w.Validate(); err != nil {
			panic(fmt.Sprintf("qscore: sector %q: %v", sector, err))
		}
	}
}

// DefaultWeights returns a copy of the canonical weight table.
func DefaultWeights() Weights {
	return sectorWeights[DefaultSector].clone()
}

// WeightsFor returns the profile for a sector. Unknown sectors get the
// default profile and ok=false so the caller can log it.
func WeightsFor(sector string) (Weights, bool) {
	if sector == "" {
		return DefaultWeights(), true
	}
	w, ok := sectorWeights[sector]
	if !ok {
		return DefaultWeights(), false
	}
	return w.clone(), true
}

// Sectors lists every known profile name, sorted.
func Sectors() []string {
	out := make([]string, 0, len(sectorWeights))
	for s := range sectorWeights {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

var gradeBands = []struct {
	min   int
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "B+"},
	{80, "B"},
	{75, "C+"},
	{70, "C"},
	{60, "D"},
}

// Grade maps an overall score to its letter grade; the highest band met wins.
func Grade(overall int) string {
	for _, b := range gradeBands {
		if overall >= b.min {
			return b.grade
		}
	}
	return "F"
}
