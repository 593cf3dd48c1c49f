/*
errors.go - Centralized error types for the budget calculator

PURPOSE:
  All error types in one place. Every calculator failure is a local input
  validation failure, returned synchronously. Nothing here is retryable.

ERROR CATEGORIES:
  1. Calculation errors - bad month, bad schedule, bad distribution
  2. Plan errors - missing or malformed year-level configuration

USAGE:
  if errors.Is(err, budget.ErrInvalidMonth) {
      // show an inline form error
  }

  var de *budget.DistributionError
  if errors.As(err, &de) {
      fmt.Println("bad share in month", de.Month)
  }
*/
package budget

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidMonth is returned when a target month is outside [1, 12].
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidSchedule is returned when a year-level schedule does not have
	// exactly 12 entries, or a growth rate is not a finite number.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidDistribution is returned when a decade share is negative or
	// not finite. A distribution that does not add up to 100 is NOT an error.
	ErrInvalidDistribution = errors.New("invalid decade distribution")

	// ErrInvalidPlan is returned when a plan fails validation.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrPlanNotFound is returned when a referenced plan doesn't exist.
	ErrPlanNotFound = errors.New("plan not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MonthError reports the rejected month.
type MonthError struct {
	Month Month
}

func (e *MonthError) Error() string {
	return fmt.Sprintf("invalid month %d: must be between 1 and %d", e.Month, MonthsPerYear)
}

func (e *MonthError) Unwrap() error { return ErrInvalidMonth }

// ScheduleError reports a malformed year-level schedule.
// Index is -1 when the length is wrong.
type ScheduleError struct {
	Schedule string // "growth" or "distribution"
	Length   int
	Index    int
	Value    float64
}

func (e *ScheduleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s schedule: %d entries, want %d", e.Schedule, e.Length, MonthsPerYear)
	}
	return fmt.Sprintf("invalid %s schedule: month %d has non-finite value %v", e.Schedule, e.Index+1, e.Value)
}

func (e *ScheduleError) Unwrap() error { return ErrInvalidSchedule }

// DistributionError reports the offending decade share.
// Month is zero when the distribution was validated on its own.
type DistributionError struct {
	Month  Month
	Decade Decade
	Value  float64
}

func (e *DistributionError) Error() string {
	if e.Month == 0 {
		return fmt.Sprintf("invalid decade distribution: decade %d share %v", e.Decade, e.Value)
	}
	return fmt.Sprintf("invalid decade distribution: month %d decade %d share %v", e.Month, e.Decade, e.Value)
}

func (e *DistributionError) Unwrap() error { return ErrInvalidDistribution }

// PlanError reports why a plan was rejected.
type PlanError struct {
	PlanID PlanID
	Reason string
	Err    error
}

func (e *PlanError) Error() string {
	msg := fmt.Sprintf("invalid plan %q: %s", e.PlanID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets the error match ErrInvalidPlan and the wrapped calculator sentinel.
func (e *PlanError) Is(target error) bool { return target == ErrInvalidPlan }

func (e *PlanError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrInvalidDistribution) ||
		errors.Is(err, ErrInvalidPlan)
}

// IsNotFound returns true if the error indicates a missing plan.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}
