// Package store provides PlanStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	plans map[budget.PlanID]budget.Plan
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		plans: make(map[budget.PlanID]budget.Plan),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Save validates and upserts a copy of the plan.
func (m *Memory) Save(_ context.Context, plan budget.Plan) (budget.Plan, error) {
	if err := plan.Validate(); err != nil {
		return budget.Plan{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := plan.Clone()
	now := m.now()
	if existing, ok := m.plans[plan.ID]; ok {
		stored.Version = existing.Version + 1
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.Version = 1
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.plans[plan.ID] = stored
	return stored.Clone(), nil
}

func (m *Memory) Get(_ context.Context, id budget.PlanID) (*budget.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[id]
	if !ok {
		return nil, budget.ErrPlanNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (m *Memory) List(_ context.Context) ([]budget.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]budget.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *Memory) Delete(_ context.Context, id budget.PlanID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[id]; !ok {
		return budget.ErrPlanNotFound
	}
	delete(m.plans, id)
	return nil
}

// Reset deletes all plans.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = make(map[budget.PlanID]budget.Plan)
	return nil
}
