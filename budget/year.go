package budget

import "github.com/shopspring/decimal"

// MonthTotals is one month's Total row plus whether that month's
// distribution adds up to 100.
type MonthTotals struct {
	Month    Month
	Totals   Totals
	Balanced bool
}

// ProjectYear projects the base quantity to every month of the year.
func ProjectYear(base decimal.Decimal, growth GrowthSchedule) ([]ProjectedMonthValue, error) {
	if err := growth.Validate(); err != nil {
		return nil, err
	}
	values := make([]ProjectedMonthValue, 0, MonthsPerYear)
	for _, m := range Months() {
		values = append(values, ProjectedMonthValue{Month: m, Total: project(base, growth, m)})
	}
	return values, nil
}

// AggregateYear returns the Total row for all twelve months. Unlike
// Aggregate, every month's shares are validated since every month is read.
func AggregateYear(lines []ProductLine, growth GrowthSchedule, year YearDistribution) ([]MonthTotals, error) {
	if err := growth.Validate(); err != nil {
		return nil, err
	}
	if err := year.Validate(); err != nil {
		return nil, err
	}
	rows := make([]MonthTotals, 0, MonthsPerYear)
	for _, m := range Months() {
		rows = append(rows, MonthTotals{
			Month:    m,
			Totals:   aggregate(lines, growth, year, m),
			Balanced: year[m.index()].IsBalanced(),
		})
	}
	return rows, nil
}
