/*
store.go - Persistence interface for plans

PURPOSE:
  Defines the boundary between plan configuration and the database. The
  calculator itself never touches a store; handlers and CLIs load a Plan and
  pass it in.

IMPLEMENTATIONS:
  - budget/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite

VERSIONING:
  Save is an upsert. Each save of an existing ID bumps Version by one and
  refreshes UpdatedAt; CreatedAt is kept from the first save.
*/
package budget

import "context"

// PlanStore persists plans.
type PlanStore interface {
	// Save inserts or replaces a plan and returns the stored copy.
	Save(ctx context.Context, plan Plan) (Plan, error)

	// Get returns ErrPlanNotFound when no plan has the ID.
	Get(ctx context.Context, id PlanID) (*Plan, error)

	// List returns all plans ordered by name.
	List(ctx context.Context) ([]Plan, error)

	// Delete returns ErrPlanNotFound when no plan has the ID.
	Delete(ctx context.Context, id PlanID) error
}
