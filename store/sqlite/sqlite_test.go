package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/factory"
	"github.com/warp/budget-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func demoPlan(t *testing.T, id, name string) budget.Plan {
	p, err := factory.NewPlanFactory().ParsePlan(factory.DemoPlanJSON(id, name))
	require.NoError(t, err)
	return *p
}

// =============================================================================
// PLAN STORE TESTS
// =============================================================================

func TestStore_SaveAndGet(t *testing.T) {
	// GIVEN: A demo plan with month 2 growth and an uneven March split
	// WHEN: Saving and loading it
	// THEN: Schedules and product lines survive and project identically

	store := newTestStore(t)
	ctx := context.Background()

	p := demoPlan(t, "demo", "Demo")
	p.Growth[1] = 10
	p.Distribution[2] = budget.DecadeDistribution{D1: 30, D2: 30, D3: 30}

	saved, err := store.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := store.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, p.Growth, got.Growth)
	assert.Equal(t, p.Distribution, got.Distribution)
	assert.Equal(t, []budget.Month{3}, got.Distribution.UnbalancedMonths())

	want, err := p.Project(3)
	require.NoError(t, err)
	have, err := got.Project(3)
	require.NoError(t, err)
	assert.Equal(t, want.Totals.Grand.String(), have.Totals.Grand.String())
	assert.Equal(t, want.Totals.D1.String(), have.Totals.D1.String())
}

func TestStore_SaveBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := demoPlan(t, "demo", "Demo")
	_, err := store.Save(ctx, p)
	require.NoError(t, err)

	p.Name = "Demo renamed"
	saved, err := store.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, "Demo renamed", saved.Name)

	plans, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
}

func TestStore_ListOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, p := range []budget.Plan{demoPlan(t, "b", "Bravo"), demoPlan(t, "a", "Alpha")} {
		_, err := store.Save(ctx, p)
		require.NoError(t, err)
	}

	plans, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Alpha", plans[0].Name)
	assert.Equal(t, "Bravo", plans[1].Name)
}

func TestStore_DeleteAndNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, budget.ErrPlanNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), budget.ErrPlanNotFound)

	_, err = store.Save(ctx, demoPlan(t, "demo", "Demo"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "demo"))

	_, err = store.Get(ctx, "demo")
	assert.ErrorIs(t, err, budget.ErrPlanNotFound)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, demoPlan(t, "demo", "Demo"))
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx))

	plans, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}
