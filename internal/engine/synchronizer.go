// internal/engine/synchronizer.go
package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockpilot/reorder/internal/domain"
)

// CommonOrderDate reduces per-line metrics to the single shipment date: the
// earliest individual reorder date across all lines. The result is always an
// actual reorder date belonging to one of the lines, never interpolated.
func CommonOrderDate(metrics []domain.LineMetrics) (time.Time, error) {
	if len(metrics) == 0 {
		return time.Time{}, domain.ErrNoLines
	}
	earliest := metrics[0].ReorderDate
	for _, m := range metrics[1:] {
		if m.ReorderDate.Before(earliest) {
			earliest = m.ReorderDate
		}
	}
	return earliest, nil
}

// Synchronize collapses the per-line metrics into one synchronized plan.
// Every line orders on the common date; lines whose own reorder date is
// later simply receive a larger quantity to cover the gap until arrival.
func Synchronize(metrics []domain.LineMetrics, today time.Time) (*domain.PlanResult, error) {
	common, err := CommonOrderDate(metrics)
	if err != nil {
		return nil, err
	}

	result := &domain.PlanResult{
		Today:           today,
		CommonOrderDate: common,
		Lines:           make([]domain.OrderPlan, 0, len(metrics)),
		TotalOrderValue: decimal.Zero,
	}

	daysToOrder := daysBetween(today, common)
	for _, m := range metrics {
		plan := planLine(m, common, daysToOrder)
		result.TotalOrderValue = result.TotalOrderValue.Add(plan.OrderValue)
		result.Lines = append(result.Lines, plan)
	}
	return result, nil
}

// planLine computes one line's order so that projected inventory at shipment
// arrival meets its target.
func planLine(m domain.LineMetrics, common time.Time, daysToOrder float64) domain.OrderPlan {
	line := m.Line
	p := line.Params

	projectedAtOrder := line.CurrentStock - line.CurrentDaily*daysToOrder
	consumptionAfterOrder := m.AverageDaily * p.LeadTimeDays
	projectedAtArrival := projectedAtOrder - consumptionAfterOrder

	recommended := int(math.Max(0, math.Ceil(m.TargetInventory-projectedAtArrival)))

	leadDays := int(math.Ceil(p.LeadTimeDays))
	arrival := common.AddDate(0, 0, leadDays)
	runOut := arrival.AddDate(0, 0, int(math.Ceil(m.CoverageDays)))
	nextOrder := runOut.AddDate(0, 0, -leadDays)

	return domain.OrderPlan{
		Product:          line.Product,
		Market:           line.Market,
		RecommendedOrder: recommended,
		OrderValue:       line.UnitCost.Mul(decimal.NewFromInt(int64(recommended))),
		ReorderDate:      m.ReorderDate,
		ArrivalDate:      arrival,
		RunOutDate:       runOut,
		NextOrderDate:    nextOrder,
		EOQ:              m.EOQ,
	}
}

// daysBetween returns whole days from a to b for date-granular timestamps.
func daysBetween(a, b time.Time) float64 {
	return math.Round(b.Sub(a).Hours() / 24)
}
