/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Plans travel as their
  factory config (factory.PlanJSON); calculator results are flattened to
  float64 so any client can read them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done by the factory and the calculator, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: PlanJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/factory"
)

// =============================================================================
// PLANS
// =============================================================================

// PlanDTO represents a stored plan.
type PlanDTO struct {
	Config           factory.PlanJSON `json:"config"`
	Version          int              `json:"version"`
	UnbalancedMonths []int            `json:"unbalanced_months"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

// PlanRequest is the body for creating or replacing a plan.
type PlanRequest struct {
	Config factory.PlanJSON `json:"config"`
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// SplitDTO is one month's decade split.
type SplitDTO struct {
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
	D3    float64 `json:"d3"`
	Total float64 `json:"total"`
}

// TotalsDTO is the Total row of a budget table.
type TotalsDTO struct {
	D1    float64 `json:"d1_total"`
	D2    float64 `json:"d2_total"`
	D3    float64 `json:"d3_total"`
	Grand float64 `json:"grand_total"`
}

// LineProjectionDTO is one product's row.
type LineProjectionDTO struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Split     SplitDTO `json:"split"`
}

// ProjectionDTO is a monthly budget table.
type ProjectionDTO struct {
	PlanID   string              `json:"plan_id"`
	Month    int                 `json:"month"`
	Lines    []LineProjectionDTO `json:"lines"`
	Totals   TotalsDTO           `json:"totals"`
	Balanced bool                `json:"balanced"`
}

// MonthTotalsDTO is one month in a year projection.
type MonthTotalsDTO struct {
	Month    int       `json:"month"`
	Totals   TotalsDTO `json:"totals"`
	Balanced bool      `json:"balanced"`
}

// YearProjectionDTO is the Total row for every month.
type YearProjectionDTO struct {
	PlanID string           `json:"plan_id"`
	Months []MonthTotalsDTO `json:"months"`
}

// MonthShareDTO reports one month's decade shares.
type MonthShareDTO struct {
	Month    int     `json:"month"`
	D1       float64 `json:"d1"`
	D2       float64 `json:"d2"`
	D3       float64 `json:"d3"`
	Sum      float64 `json:"sum"`
	Balanced bool    `json:"balanced"`
}

// DistributionReportDTO lists which months don't add up to 100%.
type DistributionReportDTO struct {
	PlanID           string          `json:"plan_id"`
	Balanced         bool            `json:"balanced"`
	UnbalancedMonths []int           `json:"unbalanced_months"`
	Months           []MonthShareDTO `json:"months"`
}

// =============================================================================
// STATELESS CALCULATOR
// =============================================================================

// ProjectRequest asks for one month's projected quantity.
type ProjectRequest struct {
	BaseValue   float64   `json:"base_value"`
	GrowthRates []float64 `json:"growth_rates"`
	Month       int       `json:"month"`
}

// ProjectResponse is the projected quantity.
type ProjectResponse struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// SplitRequest asks for a decade split of a month quantity.
type SplitRequest struct {
	MonthTotal   float64                  `json:"month_total"`
	Distribution factory.DistributionJSON `json:"distribution"`
}

// SplitResponse is the split plus whether the shares add up to 100.
type SplitResponse struct {
	Split    SplitDTO `json:"split"`
	Balanced bool     `json:"balanced"`
}

// AggregateRequest asks for the Total row over several products.
type AggregateRequest struct {
	Products           []factory.ProductJSON      `json:"products"`
	GrowthRates        []float64                  `json:"growth_rates"`
	DecadeDistribution []factory.DistributionJSON `json:"decade_distribution"`
	Month              int                        `json:"month"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func toSplitDTO(s budget.DecadeSplit) SplitDTO {
	return SplitDTO{D1: toFloat(s.D1), D2: toFloat(s.D2), D3: toFloat(s.D3), Total: toFloat(s.Total)}
}

func toTotalsDTO(t budget.Totals) TotalsDTO {
	return TotalsDTO{D1: toFloat(t.D1), D2: toFloat(t.D2), D3: toFloat(t.D3), Grand: toFloat(t.Grand)}
}

func monthsToInts(months []budget.Month) []int {
	out := make([]int, len(months))
	for i, m := range months {
		out[i] = int(m)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toDistribution(d factory.DistributionJSON) budget.DecadeDistribution {
	return budget.DecadeDistribution{D1: d.D1, D2: d.D2, D3: d.D3}
}

func toYearDistribution(months []factory.DistributionJSON) budget.YearDistribution {
	year := make(budget.YearDistribution, len(months))
	for i, m := range months {
		year[i] = toDistribution(m)
	}
	return year
}

func toProductLines(products []factory.ProductJSON) []budget.ProductLine {
	lines := make([]budget.ProductLine, len(products))
	for i, p := range products {
		lines[i] = budget.ProductLine{
			ProductID: budget.ProductID(p.ID),
			Name:      p.Name,
			Base:      decimal.NewFromFloat(p.BaseQuantity),
		}
	}
	return lines
}
