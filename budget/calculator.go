/*
calculator.go - Month projection and decade splitting

PURPOSE:
  The four operations every budget table is built from:
  - ProjectMonth:    base quantity -> projected quantity for a target month
  - SplitByDecade:   month quantity -> three decade quantities
  - ProjectAndSplit: both steps, reading the target month's distribution
  - Aggregate:       ProjectAndSplit for many product lines, summed

GROWTH IS ADDITIVE:
  The multiplier starts at 100 and every month after the first adds its own
  rate in percentage points:

    multiplier(m) = 100 + growth[1] + growth[2] + ... + growth[m-1]
    projected(m)  = round(base * multiplier(m) / 100)

  Month 1 is the base month and is returned as-is, unrounded.

ROUNDING:
  Round half away from zero (decimal.Round(0)). Each decade share is rounded
  on its own; the three parts are never reconciled to the month total, so
  parts can drift from Total by up to two units. Aggregate sums the already
  rounded per-line values rather than rounding a sum.

CONCURRENCY:
  Every function is pure. Safe to call from any number of goroutines.

EXAMPLE:
  growth := budget.ZeroGrowth()
  growth[1] = 10 // month 2: +10%
  v, _ := budget.ProjectMonth(decimal.NewFromInt(1000), growth, 3) // 1100

SEE ALSO:
  - year.go: Whole-year projections built on these functions
*/
package budget

import "github.com/shopspring/decimal"

// =============================================================================
// PROJECTION
// =============================================================================

// ProjectMonth returns the base quantity projected to the target month.
func ProjectMonth(base decimal.Decimal, growth GrowthSchedule, month Month) (decimal.Decimal, error) {
	if !month.Valid() {
		return decimal.Zero, &MonthError{Month: month}
	}
	if err := growth.Validate(); err != nil {
		return decimal.Zero, err
	}
	return project(base, growth, month), nil
}

// project assumes month and growth are already validated.
func project(base decimal.Decimal, growth GrowthSchedule, month Month) decimal.Decimal {
	if month == 1 {
		return base
	}
	return base.Mul(cumulativeGrowth(growth, month)).Div(hundred).Round(0)
}

// cumulativeGrowth returns 100 plus the rates of months 2..month.
func cumulativeGrowth(growth GrowthSchedule, month Month) decimal.Decimal {
	multiplier := hundred
	for i := 1; i <= month.index(); i++ {
		multiplier = multiplier.Add(decimal.NewFromFloat(growth[i]))
	}
	return multiplier
}

// =============================================================================
// DECADE SPLIT
// =============================================================================

// SplitByDecade splits a month quantity using the given shares.
// A distribution that does not sum to 100 is computed as-is.
func SplitByDecade(total decimal.Decimal, dist DecadeDistribution) (DecadeSplit, error) {
	if err := dist.Validate(); err != nil {
		return DecadeSplit{}, err
	}
	return split(total, dist), nil
}

func split(total decimal.Decimal, dist DecadeDistribution) DecadeSplit {
	return DecadeSplit{
		D1:    share(total, dist.D1),
		D2:    share(total, dist.D2),
		D3:    share(total, dist.D3),
		Total: total,
	}
}

func share(total decimal.Decimal, pct float64) decimal.Decimal {
	return total.Mul(decimal.NewFromFloat(pct)).Div(hundred).Round(0)
}

// =============================================================================
// COMPOSITION
// =============================================================================

// ProjectAndSplit projects the base to the target month and splits it with
// that month's distribution.
func ProjectAndSplit(base decimal.Decimal, growth GrowthSchedule, year YearDistribution, month Month) (DecadeSplit, error) {
	if err := validateInputs(growth, year, month); err != nil {
		return DecadeSplit{}, err
	}
	return split(project(base, growth, month), year[month.index()]), nil
}

// Aggregate runs ProjectAndSplit for every line and sums each field
// independently. An empty line list yields zero totals.
func Aggregate(lines []ProductLine, growth GrowthSchedule, year YearDistribution, month Month) (Totals, error) {
	if err := validateInputs(growth, year, month); err != nil {
		return Totals{}, err
	}
	return aggregate(lines, growth, year, month), nil
}

func aggregate(lines []ProductLine, growth GrowthSchedule, year YearDistribution, month Month) Totals {
	totals := Totals{D1: decimal.Zero, D2: decimal.Zero, D3: decimal.Zero, Grand: decimal.Zero}
	dist := year[month.index()]
	for _, line := range lines {
		totals = totals.add(split(project(line.Base, growth, month), dist))
	}
	return totals
}

// validateInputs checks the month, the growth schedule and the length of the
// year distribution, then the target month's shares. Other months' shares
// are not read and not checked.
func validateInputs(growth GrowthSchedule, year YearDistribution, month Month) error {
	if !month.Valid() {
		return &MonthError{Month: month}
	}
	if err := growth.Validate(); err != nil {
		return err
	}
	if len(year) != MonthsPerYear {
		return &ScheduleError{Schedule: "distribution", Length: len(year), Index: -1}
	}
	return year[month.index()].validateFor(month)
}
