package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/engine"
	"github.com/stockpilot/reorder/internal/forecast"
	"github.com/stockpilot/reorder/internal/planner"
)

var testToday = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func testPlanner() *planner.Planner {
	calc := engine.NewCalculator(forecast.New(false), engine.Options{})
	return planner.New(calc, 4)
}

func testLines() []*domain.ProductLine {
	us := &domain.MarketParams{Market: "US", LeadTimeDays: 30, BufferDays: 7, OrderingCost: 100, HoldingCost: 2}
	eu := &domain.MarketParams{Market: "EU", LeadTimeDays: 21, BufferDays: 5, OrderingCost: 80, HoldingCost: 3}
	return []*domain.ProductLine{
		{Product: "A", Market: "US", CurrentStock: 500, CurrentDaily: 10,
			Sales: domain.SalesSeries{300, 310, 320, 330, 340}, Params: us},
		{Product: "B", Market: "US", CurrentStock: 50, CurrentDaily: 5,
			Sales: domain.SalesSeries{150, 140, 130, 120, 110}, Params: us},
		{Product: "C", Market: "EU", CurrentStock: 900, CurrentDaily: 8,
			Sales: domain.SalesSeries{240, 240, 240}, Params: eu},
	}
}

func TestPlan_OutputFollowsInputOrder(t *testing.T) {
	result, err := testPlanner().Plan(context.Background(), testLines(), testToday)
	require.NoError(t, err)
	require.Len(t, result.Lines, 3)

	assert.Equal(t, "A", result.Lines[0].Product)
	assert.Equal(t, "B", result.Lines[1].Product)
	assert.Equal(t, "C", result.Lines[2].Product)
}

func TestPlan_CommonDateIsEarliestReorderDate(t *testing.T) {
	lines := testLines()
	result, err := testPlanner().Plan(context.Background(), lines, testToday)
	require.NoError(t, err)

	// Line B is nearly out of stock, so its reorder date (today) wins.
	planB := result.Plan("B", "US")
	require.NotNil(t, planB)
	assert.Equal(t, planB.ReorderDate, result.CommonOrderDate)
	for _, plan := range result.Lines {
		assert.False(t, result.CommonOrderDate.After(plan.ReorderDate))
		assert.GreaterOrEqual(t, plan.RecommendedOrder, 0)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	p := testPlanner()
	first, err := p.Plan(context.Background(), testLines(), testToday)
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), testLines(), testToday)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlan_PropagatesValidationError(t *testing.T) {
	lines := testLines()
	lines[1].CurrentDaily = 0

	_, err := testPlanner().Plan(context.Background(), lines, testToday)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonPositiveDaily)
	assert.Contains(t, err.Error(), "B@US")
}

func TestPlan_NoLines(t *testing.T) {
	_, err := testPlanner().Plan(context.Background(), nil, testToday)
	assert.ErrorIs(t, err, domain.ErrNoLines)
}
