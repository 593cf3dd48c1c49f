/*
Package sqlite provides a SQLite-backed implementation of budget.PlanStore.

PURPOSE:
  Persists year-level budget plans. Each plan is stored as its factory JSON
  config plus a few indexed columns for listing, the same way policy configs
  are kept as JSON documents rather than normalized tables.

KEY TABLES:
  plans: id, name, year, config_json, version, created_at, updated_at

VERSIONING:
  Save is an upsert. Saving an existing ID bumps version and updated_at and
  keeps created_at.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  Opened with WAL (Write-Ahead Logging) so readers don't block the writer.

USAGE:
  store, err := sqlite.New("./data/budget.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  saved, err := store.Save(ctx, plan)

SEE ALSO:
  - budget/store.go: Interface definition
  - budget/store/memory.go: In-memory implementation for testing
  - factory/plan.go: config_json format
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/factory"
)

// Store implements budget.PlanStore using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.PlanFactory
}

var _ budget.PlanStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, factory: factory.NewPlanFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		year INTEGER,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_name ON plans(name);
	CREATE INDEX IF NOT EXISTS idx_plans_year ON plans(year);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PLAN STORE
// =============================================================================

// Save upserts a plan and returns it with version and timestamps filled in.
func (s *Store) Save(ctx context.Context, plan budget.Plan) (budget.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := plan.Validate(); err != nil {
		return budget.Plan{}, err
	}
	configJSON, err := s.factory.MarshalPlan(&plan)
	if err != nil {
		return budget.Plan{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO plans (id, name, year, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			year = excluded.year,
			config_json = excluded.config_json,
			version = plans.version + 1,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		string(plan.ID), plan.Name, plan.Year, configJSON,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	); err != nil {
		return budget.Plan{}, fmt.Errorf("failed to save plan %s: %w", plan.ID, err)
	}

	stored, err := s.get(ctx, plan.ID)
	if err != nil {
		return budget.Plan{}, err
	}
	return *stored, nil
}

// Get retrieves a plan by ID.
func (s *Store) Get(ctx context.Context, id budget.PlanID) (*budget.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, id)
}

func (s *Store) get(ctx context.Context, id budget.PlanID) (*budget.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT config_json, version, created_at, updated_at FROM plans WHERE id = ?",
		string(id),
	)
	plan, err := s.scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, budget.ErrPlanNotFound
	}
	return plan, err
}

// List returns all plans ordered by name.
func (s *Store) List(ctx context.Context) ([]budget.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT config_json, version, created_at, updated_at FROM plans ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []budget.Plan{}
	for rows.Next() {
		p, err := s.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// Delete removes a plan.
func (s *Store) Delete(ctx context.Context, id budget.PlanID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return budget.ErrPlanNotFound
	}
	return nil
}

// Reset deletes all plans (for demo scenarios and tests).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM plans")
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanPlan(row scanner) (*budget.Plan, error) {
	var (
		configJSON           string
		version              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&configJSON, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	plan, err := s.factory.ParsePlan(configJSON)
	if err != nil {
		return nil, fmt.Errorf("stored plan is corrupt: %v", err)
	}
	plan.Version = version
	plan.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	plan.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return plan, nil
}
