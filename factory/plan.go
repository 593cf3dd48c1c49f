/*
Package factory provides JSON/YAML to Go plan conversion.

PURPOSE:
  Converts plan definitions (as stored in the database, posted to the API or
  written by hand for the CLI) into budget.Plan values, and back.

JSON SCHEMA:
  {
    "id": "plan-2025",
    "name": "Year 1 budget",
    "year": 2025,
    "growth_rates": [0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0],
    "decade_distribution": [
      {"d1": 40, "d2": 33, "d3": 27}
    ],
    "products": [
      {"id": "p1", "name": "Product 1", "base_quantity": 2650}
    ]
  }

  The same fields are accepted as YAML.

DEFAULTS:
  - growth_rates omitted: no growth in any month
  - decade_distribution omitted: the factory's default split every month
  - decade_distribution with one entry: that entry is used for every month

  Any other length is passed through and rejected by budget.Plan.Validate.

USAGE:
  f := NewPlanFactory()
  plan, err := f.ParsePlan(jsonString)

SEE ALSO:
  - budget/plan.go: Plan type definition
  - presets.go: Demo plan and standard distribution
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/budget-engine/budget"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PlanJSON is the JSON/YAML representation of a plan.
type PlanJSON struct {
	ID                 string             `json:"id" yaml:"id"`
	Name               string             `json:"name" yaml:"name"`
	Year               int                `json:"year,omitempty" yaml:"year,omitempty"`
	GrowthRates        []float64          `json:"growth_rates,omitempty" yaml:"growth_rates,omitempty"`
	DecadeDistribution []DistributionJSON `json:"decade_distribution,omitempty" yaml:"decade_distribution,omitempty"`
	Products           []ProductJSON      `json:"products" yaml:"products"`
}

// DistributionJSON is one month's decade shares, in percent.
type DistributionJSON struct {
	D1 float64 `json:"d1" yaml:"d1"`
	D2 float64 `json:"d2" yaml:"d2"`
	D3 float64 `json:"d3" yaml:"d3"`
}

// ProductJSON is a product line and its month-1 quantity.
type ProductJSON struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	BaseQuantity float64 `json:"base_quantity" yaml:"base_quantity"`
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// PlanFactory converts plan configs to budget.Plan values.
type PlanFactory struct {
	// DefaultDistribution fills months when a config omits the distribution.
	DefaultDistribution budget.DecadeDistribution
}

// NewPlanFactory creates a factory using the standard 40/33/27 split.
func NewPlanFactory() *PlanFactory {
	return &PlanFactory{DefaultDistribution: StandardDistribution()}
}

// ParsePlan parses a JSON string into a validated Plan.
func (f *PlanFactory) ParsePlan(jsonStr string) (*budget.Plan, error) {
	var pj PlanJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// ParsePlanYAML parses a YAML document into a validated Plan.
func (f *PlanFactory) ParsePlanYAML(data []byte) (*budget.Plan, error) {
	var pj PlanJSON
	if err := yaml.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("failed to parse plan YAML: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PlanJSON to a budget.Plan, applying defaults, and
// validates the result.
func (f *PlanFactory) FromJSON(pj PlanJSON) (*budget.Plan, error) {
	plan := &budget.Plan{
		ID:           budget.PlanID(pj.ID),
		Name:         pj.Name,
		Year:         pj.Year,
		Growth:       parseGrowth(pj.GrowthRates),
		Distribution: f.parseDistribution(pj.DecadeDistribution),
	}

	for _, pr := range pj.Products {
		plan.Lines = append(plan.Lines, budget.ProductLine{
			ProductID: budget.ProductID(pr.ID),
			Name:      pr.Name,
			Base:      decimal.NewFromFloat(pr.BaseQuantity),
		})
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func parseGrowth(rates []float64) budget.GrowthSchedule {
	if len(rates) == 0 {
		return budget.ZeroGrowth()
	}
	return append(budget.GrowthSchedule(nil), rates...)
}

func (f *PlanFactory) parseDistribution(months []DistributionJSON) budget.YearDistribution {
	switch len(months) {
	case 0:
		return budget.Uniform(f.DefaultDistribution)
	case 1:
		return budget.Uniform(toDistribution(months[0]))
	}
	year := make(budget.YearDistribution, len(months))
	for i, m := range months {
		year[i] = toDistribution(m)
	}
	return year
}

func toDistribution(d DistributionJSON) budget.DecadeDistribution {
	return budget.DecadeDistribution{D1: d.D1, D2: d.D2, D3: d.D3}
}

// ToJSON converts a Plan to PlanJSON. Every month is written out explicitly.
func (f *PlanFactory) ToJSON(plan *budget.Plan) PlanJSON {
	pj := PlanJSON{
		ID:          string(plan.ID),
		Name:        plan.Name,
		Year:        plan.Year,
		GrowthRates: append([]float64(nil), plan.Growth...),
		Products:    make([]ProductJSON, 0, len(plan.Lines)),
	}

	for _, d := range plan.Distribution {
		pj.DecadeDistribution = append(pj.DecadeDistribution, DistributionJSON{D1: d.D1, D2: d.D2, D3: d.D3})
	}

	for _, line := range plan.Lines {
		v, _ := line.Base.Float64()
		pj.Products = append(pj.Products, ProductJSON{
			ID:           string(line.ProductID),
			Name:         line.Name,
			BaseQuantity: v,
		})
	}
	return pj
}

// MarshalPlan serializes a Plan to its JSON config string.
func (f *PlanFactory) MarshalPlan(plan *budget.Plan) (string, error) {
	data, err := json.Marshal(f.ToJSON(plan))
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan %s: %w", plan.ID, err)
	}
	return string(data), nil
}
