// internal/engine/metrics.go
package engine

import (
	"math"
	"time"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/forecast"
)

// Options tunes the metrics engine. Zero values are replaced by defaults.
type Options struct {
	// ServiceZ is the service-level z factor for dynamic safety stock.
	// Defaults to 1.65 (~95% service level).
	ServiceZ float64
}

// DefaultServiceZ corresponds to a ~95% service level under normally
// distributed lead-time demand.
const DefaultServiceZ = 1.65

// Calculator computes per-line reorder metrics from a product line and a
// reference date. Each run is independent; calculators are safe for
// concurrent use across lines.
type Calculator struct {
	forecaster *forecast.Forecaster
	z          float64
}

// NewCalculator creates a metrics calculator backed by the given forecaster.
func NewCalculator(f *forecast.Forecaster, opts Options) *Calculator {
	z := opts.ServiceZ
	if z <= 0 {
		z = DefaultServiceZ
	}
	return &Calculator{forecaster: f, z: z}
}

// Compute derives the full LineMetrics bundle for one product line.
//
// The sales series is cleaned first; if cleaning leaves fewer than 2 points
// the raw series feeds the forecaster instead. Variability is always taken
// from the cleaned series converted to daily rates.
func (c *Calculator) Compute(line *domain.ProductLine, today time.Time) (domain.LineMetrics, error) {
	if err := line.Validate(); err != nil {
		return domain.LineMetrics{}, err
	}

	p := line.Params
	cleaned := forecast.CleanOutliers(line.Sales)
	forecastInput := cleaned
	if len(cleaned) < 2 {
		forecastInput = line.Sales
	}

	forecasted := c.forecaster.DailyDemand(forecastInput, line.CurrentDaily, p.LeadTimeDays)
	averageDaily := (line.CurrentDaily + forecasted) / 2
	consumptionLead := averageDaily * p.LeadTimeDays

	sigmaDaily := populationStdDev(cleaned.Daily())
	margin := line.MarginFactor
	if margin == 0 {
		margin = marginFactor(cleaned)
	}
	margin = clamp(margin, domain.MarginFactorMin, domain.MarginFactorMax)

	dynamicSafety := c.z * sigmaDaily * math.Sqrt(p.LeadTimeDays)
	safetyStock := dynamicSafety * margin
	reorderPoint := consumptionLead + safetyStock

	daysUntilReorder := math.Max(0, (line.CurrentStock-reorderPoint)/line.CurrentDaily)
	reorderDate := today.AddDate(0, 0, int(math.Ceil(daysUntilReorder)))

	coverageDays := p.LeadTimeDays + p.BufferDays
	targetInventory := averageDaily*coverageDays + safetyStock

	eoq := 0.0
	if annual := averageDaily * 365; p.HoldingCost > 0 && annual > 0 {
		eoq = math.Sqrt(2 * annual * p.OrderingCost / p.HoldingCost)
	}

	return domain.LineMetrics{
		Line:             line,
		Today:            today,
		ForecastedDaily:  forecasted,
		AverageDaily:     averageDaily,
		ConsumptionLead:  consumptionLead,
		SigmaDaily:       sigmaDaily,
		MarginFactor:     margin,
		SafetyStock:      safetyStock,
		ReorderPoint:     reorderPoint,
		DaysUntilReorder: daysUntilReorder,
		ReorderDate:      reorderDate,
		CoverageDays:     coverageDays,
		TargetInventory:  targetInventory,
		EOQ:              eoq,
	}, nil
}

// marginFactor derives the safety multiplier from the coefficient of
// variation of the cleaned monthly series. Fewer than 2 usable points
// degrade to the minimum bound.
func marginFactor(series domain.SalesSeries) float64 {
	if len(series) < 2 {
		return domain.MarginFactorMin
	}
	m := mean(series)
	if m <= 0 {
		return domain.MarginFactorMin
	}
	cv := populationStdDev(series) / m
	return 1 + cv/2
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev returns the population standard deviation, or 0 for
// fewer than 2 points.
func populationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
