/*
Package budget provides the budget decomposition and projection calculator.

PURPOSE:
  Turns a product's base monthly quantity, a year-level growth schedule and a
  year-level decade distribution into projected month totals and ten-day
  ("decade") splits. Every budget table in the simulation (sales, production,
  purchases) is built from these same few functions.

KEY CONCEPTS IN THIS FILE (types.go):
  - Month / Decade: Bounded calendar indexes (1-12, 1-3)
  - GrowthSchedule: 12 signed growth percentages, additive
  - DecadeDistribution: How one month's quantity is split across its decades
  - YearDistribution: 12 DecadeDistributions, one per month
  - ProductLine: A product and its month-1 base quantity
  - DecadeSplit / Totals: Calculator outputs

DESIGN PRINCIPLES:
  1. Purity: No function in this package holds or mutates shared state
  2. Precision: Arithmetic runs on decimal.Decimal; floats only cross the boundary
  3. Observed rounding: Each decade is rounded on its own, never reconciled

USAGE:
  growth := budget.GrowthSchedule{0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
  split, err := budget.ProjectAndSplit(decimal.NewFromInt(1000), growth, year, 2)
  // split.D1, split.D2, split.D3, split.Total

SEE ALSO:
  - calculator.go: ProjectMonth, SplitByDecade, ProjectAndSplit, Aggregate
  - year.go: Full-year projection helpers
  - plan.go: Persistable year-level configuration
*/
package budget

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthsPerYear is the length of every year-level schedule.
const MonthsPerYear = 12

var hundred = decimal.NewFromInt(100)

// =============================================================================
// MONTH / DECADE
// =============================================================================

// Month is a 1-based month of the budget year.
type Month int

func (m Month) Valid() bool { return m >= 1 && m <= MonthsPerYear }

// index returns the 0-based schedule index for the month.
func (m Month) index() int { return int(m) - 1 }

// Months returns 1..12 in order.
func Months() []Month {
	months := make([]Month, MonthsPerYear)
	for i := range months {
		months[i] = Month(i + 1)
	}
	return months
}

// Decade is one ten-day third of a month.
type Decade int

const (
	Decade1 Decade = iota + 1
	Decade2
	Decade3
)

// =============================================================================
// GROWTH SCHEDULE
// =============================================================================

// GrowthSchedule holds one growth percentage per month. Index 0 is month 1 and
// is conventionally 0; the projection never reads it.
//
// Rates are additive percentage points: a schedule of {0, 10, 5, ...} puts
// month 3 at 115% of the base, not 110% * 105%.
type GrowthSchedule []float64

// Validate checks the schedule length and that every rate is finite.
func (g GrowthSchedule) Validate() error {
	if len(g) != MonthsPerYear {
		return &ScheduleError{Schedule: "growth", Length: len(g), Index: -1}
	}
	for i, rate := range g {
		if !finite(rate) {
			return &ScheduleError{Schedule: "growth", Length: len(g), Index: i, Value: rate}
		}
	}
	return nil
}

// ZeroGrowth returns a schedule with no growth in any month.
func ZeroGrowth() GrowthSchedule {
	return make(GrowthSchedule, MonthsPerYear)
}

// =============================================================================
// DECADE DISTRIBUTION
// =============================================================================

// DecadeDistribution is the percentage of a month assigned to each decade.
type DecadeDistribution struct {
	D1 float64
	D2 float64
	D3 float64
}

// Percent returns the share for a decade.
func (d DecadeDistribution) Percent(dec Decade) float64 {
	switch dec {
	case Decade1:
		return d.D1
	case Decade2:
		return d.D2
	case Decade3:
		return d.D3
	default:
		return 0
	}
}

// Validate rejects negative or non-finite shares. A triple that does not add
// up to 100 passes; use IsBalanced to detect it.
func (d DecadeDistribution) Validate() error {
	return d.validateFor(0)
}

func (d DecadeDistribution) validateFor(month Month) error {
	for _, dec := range []Decade{Decade1, Decade2, Decade3} {
		p := d.Percent(dec)
		if !finite(p) || p < 0 {
			return &DistributionError{Month: month, Decade: dec, Value: p}
		}
	}
	return nil
}

// Sum adds the three shares in decimal so 33.3 + 33.3 + 33.4 is exactly 100.
// The distribution must already be valid.
func (d DecadeDistribution) Sum() decimal.Decimal {
	return decimal.NewFromFloat(d.D1).
		Add(decimal.NewFromFloat(d.D2)).
		Add(decimal.NewFromFloat(d.D3))
}

// IsBalanced reports whether the shares sum to exactly 100.
func (d DecadeDistribution) IsBalanced() bool {
	if d.Validate() != nil {
		return false
	}
	return d.Sum().Equal(hundred)
}

// YearDistribution holds one DecadeDistribution per month, index 0 = month 1.
type YearDistribution []DecadeDistribution

// Validate checks the length and every month's triple.
func (y YearDistribution) Validate() error {
	if len(y) != MonthsPerYear {
		return &ScheduleError{Schedule: "distribution", Length: len(y), Index: -1}
	}
	for i, d := range y {
		if err := d.validateFor(Month(i + 1)); err != nil {
			return err
		}
	}
	return nil
}

// UnbalancedMonths lists the months whose shares do not sum to 100.
// These are warnings for the caller to surface, not calculation failures.
func (y YearDistribution) UnbalancedMonths() []Month {
	var months []Month
	for i, d := range y {
		if !d.IsBalanced() {
			months = append(months, Month(i+1))
		}
	}
	return months
}

// Uniform returns a year that uses the same distribution every month.
func Uniform(d DecadeDistribution) YearDistribution {
	y := make(YearDistribution, MonthsPerYear)
	for i := range y {
		y[i] = d
	}
	return y
}

// =============================================================================
// PRODUCT LINES AND OUTPUTS
// =============================================================================

type ProductID string

// ProductLine is a tracked product with its month-1 base quantity.
type ProductLine struct {
	ProductID ProductID
	Name      string
	Base      decimal.Decimal
}

// ProjectedMonthValue is the projected quantity for one month.
type ProjectedMonthValue struct {
	Month Month
	Total decimal.Decimal
}

// DecadeSplit is one month's quantity split into decades.
//
// D1, D2 and D3 are each rounded independently, so D1+D2+D3 can drift from
// Total by up to two units. Total is the input quantity, never the sum.
type DecadeSplit struct {
	D1    decimal.Decimal
	D2    decimal.Decimal
	D3    decimal.Decimal
	Total decimal.Decimal
}

// PartsSum returns D1+D2+D3.
func (s DecadeSplit) PartsSum() decimal.Decimal { return s.D1.Add(s.D2).Add(s.D3) }

// Drift returns Total minus the sum of the rounded parts.
func (s DecadeSplit) Drift() decimal.Decimal { return s.Total.Sub(s.PartsSum()) }

// Totals is the "Total" row of a budget table for one month.
type Totals struct {
	D1    decimal.Decimal
	D2    decimal.Decimal
	D3    decimal.Decimal
	Grand decimal.Decimal
}

func (t Totals) add(s DecadeSplit) Totals {
	return Totals{
		D1:    t.D1.Add(s.D1),
		D2:    t.D2.Add(s.D2),
		D3:    t.D3.Add(s.D3),
		Grand: t.Grand.Add(s.Total),
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
