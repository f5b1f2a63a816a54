// internal/planner/planner.go
package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/engine"
)

// Planner runs the two-phase reorder pipeline: a map phase computing
// LineMetrics per product line, then the cross-line reduction that picks the
// common order date and sizes every order. Lines are independent, so the map
// phase fans out across a bounded worker group; the group wait is the barrier
// the reduction requires.
type Planner struct {
	calc    *engine.Calculator
	workers int
}

// New creates a planner. workerCount < 1 falls back to 1.
func New(calc *engine.Calculator, workerCount int) *Planner {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Planner{calc: calc, workers: workerCount}
}

// Plan computes the synchronized order plan for all lines as of today.
// Output ordering follows input ordering regardless of worker scheduling.
func (p *Planner) Plan(ctx context.Context, lines []*domain.ProductLine, today time.Time) (*domain.PlanResult, error) {
	if len(lines) == 0 {
		return nil, domain.ErrNoLines
	}

	start := time.Now()
	metrics := make([]domain.LineMetrics, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := p.calc.Compute(line, today)
			if err != nil {
				return err
			}
			metrics[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := engine.Synchronize(metrics, today)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("lines", len(lines)).
		Str("common_order_date", result.CommonOrderDate.Format("2006-01-02")).
		Dur("took", time.Since(start)).
		Msg("computed synchronized order plan")
	return result, nil
}

// Metrics computes the metrics bundle for a single line, for sensitivity
// analysis and diagnostics.
func (p *Planner) Metrics(line *domain.ProductLine, today time.Time) (domain.LineMetrics, error) {
	return p.calc.Compute(line, today)
}
