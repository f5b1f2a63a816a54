// internal/engine/sensitivity.go
package engine

import "github.com/stockpilot/reorder/internal/domain"

// Parameter names accepted by Simulate.
const (
	ParamLeadTime   = "lead_time"
	ParamBufferDays = "buffer_days"
)

// Simulate recomputes a line's target inventory and recommended order under
// each candidate parameter value, one row per candidate in input order.
//
// This is an exploratory report, not a final order: results are intentionally
// neither clamped at zero nor rounded, and only a lead-time substitution
// changes the coverage term — other parameters report the baseline target.
// The original metrics are never mutated.
func Simulate(m domain.LineMetrics, param string, values []float64) []domain.SensitivityRow {
	line := m.Line
	p := line.Params

	rows := make([]domain.SensitivityRow, 0, len(values))
	for _, v := range values {
		lead := p.LeadTimeDays
		if param == ParamLeadTime {
			lead = v
		}
		target := m.AverageDaily*(lead+p.BufferDays) + m.SafetyStock
		order := target - (line.CurrentStock - line.CurrentDaily*m.DaysUntilReorder)
		rows = append(rows, domain.SensitivityRow{
			Value:            v,
			TargetInventory:  target,
			RecommendedOrder: order,
		})
	}
	return rows
}
