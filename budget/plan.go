/*
plan.go - Year-level budget configuration

PURPOSE:
  A Plan is the explicit configuration object the calculator reads from:
  the growth schedule, the decade distribution and the tracked product lines
  for one budget year. Callers pass a Plan (or its parts) into the
  calculator; nothing in this package reaches into ambient session state.

LIFECYCLE:
  Plans are created and edited by the surrounding application, persisted
  through a PlanStore, and projected on demand. Projection never mutates
  the plan.

SEE ALSO:
  - store.go: PlanStore interface
  - factory/plan.go: JSON/YAML plan configs
*/
package budget

import (
	"fmt"
	"time"
)

type PlanID string

// Plan is one simulated company's budget configuration for a year.
type Plan struct {
	ID           PlanID
	Name         string
	Year         int
	Growth       GrowthSchedule
	Distribution YearDistribution
	Lines        []ProductLine

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the plan is complete enough to project every month.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return &PlanError{PlanID: p.ID, Reason: "name is required"}
	}
	if err := p.Growth.Validate(); err != nil {
		return &PlanError{PlanID: p.ID, Reason: "growth schedule", Err: err}
	}
	if err := p.Distribution.Validate(); err != nil {
		return &PlanError{PlanID: p.ID, Reason: "decade distribution", Err: err}
	}
	seen := make(map[ProductID]bool, len(p.Lines))
	for i, line := range p.Lines {
		if line.ProductID == "" {
			return &PlanError{PlanID: p.ID, Reason: fmt.Sprintf("product line %d has no id", i)}
		}
		if seen[line.ProductID] {
			return &PlanError{PlanID: p.ID, Reason: fmt.Sprintf("duplicate product %q", line.ProductID)}
		}
		if line.Base.IsNegative() {
			return &PlanError{PlanID: p.ID, Reason: fmt.Sprintf("product %q has a negative base quantity", line.ProductID)}
		}
		seen[line.ProductID] = true
	}
	return nil
}

// Clone returns a deep copy so stores never share slices with callers.
func (p Plan) Clone() Plan {
	c := p
	c.Growth = append(GrowthSchedule(nil), p.Growth...)
	c.Distribution = append(YearDistribution(nil), p.Distribution...)
	c.Lines = append([]ProductLine(nil), p.Lines...)
	return c
}

// =============================================================================
// PROJECTION
// =============================================================================

// LineProjection is one product's row in a monthly budget table.
type LineProjection struct {
	ProductID ProductID
	Name      string
	Split     DecadeSplit
}

// PlanProjection is a full monthly budget table: one row per product plus
// the Total row.
type PlanProjection struct {
	PlanID PlanID
	Month  Month
	Lines  []LineProjection
	Totals Totals

	// Balanced is false when the month's shares do not sum to 100. The
	// figures are still computed; callers should warn, not block.
	Balanced bool
}

// Project builds the budget table for one month.
func (p *Plan) Project(month Month) (*PlanProjection, error) {
	if err := validateInputs(p.Growth, p.Distribution, month); err != nil {
		return nil, err
	}
	dist := p.Distribution[month.index()]
	rows := make([]LineProjection, 0, len(p.Lines))
	for _, line := range p.Lines {
		rows = append(rows, LineProjection{
			ProductID: line.ProductID,
			Name:      line.Name,
			Split:     split(project(line.Base, p.Growth, month), dist),
		})
	}
	return &PlanProjection{
		PlanID:   p.ID,
		Month:    month,
		Lines:    rows,
		Totals:   aggregate(p.Lines, p.Growth, p.Distribution, month),
		Balanced: dist.IsBalanced(),
	}, nil
}

// ProjectYear returns the Total row for every month of the plan.
func (p *Plan) ProjectYear() ([]MonthTotals, error) {
	return AggregateYear(p.Lines, p.Growth, p.Distribution)
}
