package budget_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !decimal.RequireFromString(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func growthWith(rates map[int]float64) budget.GrowthSchedule {
	g := budget.ZeroGrowth()
	for month, rate := range rates {
		g[month-1] = rate
	}
	return g
}

var standard = budget.DecadeDistribution{D1: 40, D2: 33, D3: 27}

// =============================================================================
// PROJECT MONTH
// =============================================================================

func TestProjectMonth_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		base   int64
		growth budget.GrowthSchedule
		month  budget.Month
		want   string
	}{
		{"zero growth keeps base at month 6", 2650, budget.ZeroGrowth(), 6, "2650"},
		{"month 2 growth applied once", 1000, growthWith(map[int]float64{2: 10}), 2, "1100"},
		{"month 3 keeps month 2 growth", 1000, growthWith(map[int]float64{2: 10}), 3, "1100"},
		{"growth is additive, not compounding", 1000, growthWith(map[int]float64{2: 10, 3: 10}), 3, "1200"},
		{"negative growth declines", 1000, growthWith(map[int]float64{2: -25}), 4, "750"},
		{"month 1 entry is never read", 1000, growthWith(map[int]float64{1: 50}), 2, "1000"},
		{"rounds half away from zero", 5, growthWith(map[int]float64{2: 10}), 2, "6"},
		{"zero growth at month 12", 1234, budget.ZeroGrowth(), 12, "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := budget.ProjectMonth(dec(tt.base), tt.growth, tt.month)
			require.NoError(t, err)
			assertDec(t, tt.want, got)
		})
	}
}

func TestProjectMonth_BaseMonthReturnsBaseUnchanged(t *testing.T) {
	// GIVEN: A fractional base and a schedule with growth everywhere
	// WHEN: Projecting month 1
	// THEN: The base comes back untouched, not even rounded

	base := decimal.RequireFromString("2650.4")
	g := budget.GrowthSchedule{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}

	got, err := budget.ProjectMonth(base, g, 1)
	require.NoError(t, err)
	assertDec(t, "2650.4", got)
}

func TestProjectMonth_MonotonicWithNonNegativeGrowth(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		g := budget.ZeroGrowth()
		for i := range g {
			g[i] = float64(rng.Intn(2000)) / 100 // 0.00 .. 19.99
		}
		base := dec(int64(rng.Intn(10000)))

		prev := decimal.Zero
		for _, m := range budget.Months() {
			got, err := budget.ProjectMonth(base, g, m)
			require.NoError(t, err)
			assert.True(t, got.GreaterThanOrEqual(prev),
				"trial %d month %d: %s < %s", trial, m, got, prev)
			prev = got
		}
	}
}

func TestProjectMonth_InvalidMonth(t *testing.T) {
	for _, m := range []budget.Month{0, 13, -1} {
		_, err := budget.ProjectMonth(dec(100), budget.ZeroGrowth(), m)
		assert.ErrorIs(t, err, budget.ErrInvalidMonth, "month %d", m)

		var me *budget.MonthError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, m, me.Month)
	}
}

func TestProjectMonth_InvalidSchedule(t *testing.T) {
	tests := []struct {
		name   string
		growth budget.GrowthSchedule
	}{
		{"too short", budget.GrowthSchedule{0, 10}},
		{"too long", make(budget.GrowthSchedule, 13)},
		{"nil", nil},
		{"NaN entry", growthWith(map[int]float64{4: math.NaN()})},
		{"Inf entry", growthWith(map[int]float64{12: math.Inf(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := budget.ProjectMonth(dec(100), tt.growth, 2)
			assert.ErrorIs(t, err, budget.ErrInvalidSchedule)
			assert.True(t, budget.IsClientError(err))
		})
	}
}

// =============================================================================
// SPLIT BY DECADE
// =============================================================================

func TestSplitByDecade_ExactSplit(t *testing.T) {
	s, err := budget.SplitByDecade(dec(1100), standard)
	require.NoError(t, err)

	assertDec(t, "440", s.D1)
	assertDec(t, "363", s.D2)
	assertDec(t, "297", s.D3)
	assertDec(t, "1100", s.Total)
	assertDec(t, "1100", s.PartsSum())
}

func TestSplitByDecade_RoundingDriftIsKept(t *testing.T) {
	// GIVEN: 1061 split 40/33/27
	// WHEN: Splitting
	// THEN: Parts are 424/350/286, one short of the total, and Total is not adjusted

	s, err := budget.SplitByDecade(dec(1061), standard)
	require.NoError(t, err)

	assertDec(t, "424", s.D1)
	assertDec(t, "350", s.D2)
	assertDec(t, "286", s.D3)
	assertDec(t, "1061", s.Total)
	assertDec(t, "1060", s.PartsSum())
	assertDec(t, "1", s.Drift())
}

func TestSplitByDecade_TotalIsEcho(t *testing.T) {
	for _, total := range []string{"0", "1", "999.5", "123456"} {
		s, err := budget.SplitByDecade(decimal.RequireFromString(total), budget.DecadeDistribution{D1: 10, D2: 10, D3: 10})
		require.NoError(t, err)
		assertDec(t, total, s.Total)
	}
}

func TestSplitByDecade_DriftBoundedWhenBalanced(t *testing.T) {
	dists := []budget.DecadeDistribution{
		standard,
		{D1: 33.3, D2: 33.3, D3: 33.4},
		{D1: 50, D2: 25, D3: 25},
		{D1: 100, D2: 0, D3: 0},
		{D1: 12.5, D2: 37.5, D3: 50},
		{D1: 45.5, D2: 45.5, D3: 9},
	}

	for _, d := range dists {
		require.True(t, d.IsBalanced(), "%+v", d)
		for m := int64(0); m <= 5000; m += 7 {
			s, err := budget.SplitByDecade(dec(m), d)
			require.NoError(t, err)
			assert.True(t, s.Drift().Abs().LessThanOrEqual(dec(2)),
				"m=%d dist=%+v drift=%s", m, d, s.Drift())
		}
	}
}

func TestSplitByDecade_UnbalancedIsComputed(t *testing.T) {
	d := budget.DecadeDistribution{D1: 50, D2: 50, D3: 50}
	assert.False(t, d.IsBalanced())

	s, err := budget.SplitByDecade(dec(100), d)
	require.NoError(t, err)
	assertDec(t, "150", s.PartsSum())
	assertDec(t, "100", s.Total)
}

func TestSplitByDecade_InvalidDistribution(t *testing.T) {
	tests := []struct {
		name   string
		dist   budget.DecadeDistribution
		decade budget.Decade
	}{
		{"negative first", budget.DecadeDistribution{D1: -1, D2: 50, D3: 51}, budget.Decade1},
		{"NaN second", budget.DecadeDistribution{D1: 40, D2: math.NaN(), D3: 27}, budget.Decade2},
		{"Inf third", budget.DecadeDistribution{D1: 40, D2: 33, D3: math.Inf(-1)}, budget.Decade3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := budget.SplitByDecade(dec(100), tt.dist)
			assert.ErrorIs(t, err, budget.ErrInvalidDistribution)

			var de *budget.DistributionError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.decade, de.Decade)
		})
	}
}

// =============================================================================
// PROJECT AND SPLIT / AGGREGATE
// =============================================================================

func TestProjectAndSplit_UsesTargetMonthDistribution(t *testing.T) {
	year := budget.Uniform(standard)
	year[1] = budget.DecadeDistribution{D1: 100}

	s, err := budget.ProjectAndSplit(dec(1000), growthWith(map[int]float64{2: 10}), year, 2)
	require.NoError(t, err)

	assertDec(t, "1100", s.D1)
	assertDec(t, "0", s.D2)
	assertDec(t, "0", s.D3)
	assertDec(t, "1100", s.Total)
}

func TestProjectAndSplit_Errors(t *testing.T) {
	year := budget.Uniform(standard)

	_, err := budget.ProjectAndSplit(dec(1), budget.ZeroGrowth(), year, 13)
	assert.ErrorIs(t, err, budget.ErrInvalidMonth)

	_, err = budget.ProjectAndSplit(dec(1), budget.ZeroGrowth(), year[:11], 1)
	assert.ErrorIs(t, err, budget.ErrInvalidSchedule)

	year[4] = budget.DecadeDistribution{D1: -5}
	_, err = budget.ProjectAndSplit(dec(1), budget.ZeroGrowth(), year, 5)
	var de *budget.DistributionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, budget.Month(5), de.Month)

	// Other months' shares are not read.
	_, err = budget.ProjectAndSplit(dec(1), budget.ZeroGrowth(), year, 6)
	assert.NoError(t, err)
}

func threeLines() []budget.ProductLine {
	return []budget.ProductLine{
		{ProductID: "p1", Name: "Product 1", Base: dec(2650)},
		{ProductID: "p2", Name: "Product 2", Base: dec(1920)},
		{ProductID: "p3", Name: "Product 3", Base: dec(1060)},
	}
}

func TestAggregate_ThreeProductLines(t *testing.T) {
	// GIVEN: Three products, zero growth, 40/33/27 every month
	// WHEN: Aggregating month 1
	// THEN: Grand total is the sum of bases and decade totals are sums of rounded parts

	lines := threeLines()
	growth := budget.ZeroGrowth()
	year := budget.Uniform(standard)

	totals, err := budget.Aggregate(lines, growth, year, 1)
	require.NoError(t, err)

	assertDec(t, "5630", totals.Grand)

	d1, d2, d3, grand := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		s, err := budget.ProjectAndSplit(l.Base, growth, year, 1)
		require.NoError(t, err)
		d1, d2, d3, grand = d1.Add(s.D1), d2.Add(s.D2), d3.Add(s.D3), grand.Add(s.Total)
	}
	assertDec(t, d1.String(), totals.D1)
	assertDec(t, d2.String(), totals.D2)
	assertDec(t, d3.String(), totals.D3)
	assertDec(t, grand.String(), totals.Grand)

	// 1060+768+424, 875+634+350, 716+518+286
	assertDec(t, "2252", totals.D1)
	assertDec(t, "1859", totals.D2)
	assertDec(t, "1520", totals.D3)
}

func TestAggregate_GrandTotalMatchesPerLineAcrossMonths(t *testing.T) {
	lines := threeLines()
	growth := budget.GrowthSchedule{0, 5, 3.5, -2, 0, 10, 1.25, 0, 0, -7, 4, 2}
	year := budget.Uniform(budget.DecadeDistribution{D1: 33.3, D2: 33.3, D3: 33.4})

	for _, m := range budget.Months() {
		totals, err := budget.Aggregate(lines, growth, year, m)
		require.NoError(t, err)

		want := decimal.Zero
		for _, l := range lines {
			s, err := budget.ProjectAndSplit(l.Base, growth, year, m)
			require.NoError(t, err)
			want = want.Add(s.Total)
		}
		assertDec(t, want.String(), totals.Grand, "month %d", m)
	}
}

func TestAggregate_EmptyLines(t *testing.T) {
	totals, err := budget.Aggregate(nil, budget.ZeroGrowth(), budget.Uniform(standard), 7)
	require.NoError(t, err)

	assertDec(t, "0", totals.D1)
	assertDec(t, "0", totals.D2)
	assertDec(t, "0", totals.D3)
	assertDec(t, "0", totals.Grand)
}

func TestAggregate_ValidatesBeforeSumming(t *testing.T) {
	_, err := budget.Aggregate(nil, budget.GrowthSchedule{1}, budget.Uniform(standard), 1)
	assert.ErrorIs(t, err, budget.ErrInvalidSchedule)

	_, err = budget.Aggregate(threeLines(), budget.ZeroGrowth(), budget.Uniform(standard), 0)
	assert.ErrorIs(t, err, budget.ErrInvalidMonth)
}

func TestCalculator_DoesNotMutateInputs(t *testing.T) {
	lines := threeLines()
	growth := growthWith(map[int]float64{2: 10})
	year := budget.Uniform(standard)

	_, err := budget.Aggregate(lines, growth, year, 4)
	require.NoError(t, err)

	assertDec(t, "2650", lines[0].Base)
	assert.Equal(t, 10.0, growth[1])
	assert.Equal(t, standard, year[3])
}
