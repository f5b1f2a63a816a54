// internal/forecast/forecast.go
package forecast

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/stockpilot/reorder/internal/domain"
)

// Forecaster projects a future daily demand rate from a monthly sales series.
// Two strategies exist: trend-aware exponential smoothing when enabled and
// enough history is available, and a geometric-growth fallback that never
// fails. Smoothing failures are recovered locally; the caller always gets a
// forecast.
type Forecaster struct {
	smoothingEnabled bool
}

// New returns a Forecaster. With smoothingEnabled false every call uses the
// geometric fallback, mirroring a runtime where the smoothing capability is
// unavailable.
func New(smoothingEnabled bool) *Forecaster {
	return &Forecaster{smoothingEnabled: smoothingEnabled}
}

// DailyDemand forecasts the daily demand rate at the end of the lead time.
// The monthly series is converted to daily rates before smoothing; the
// fallback growth rate is derived from the original monthly values.
func (f *Forecaster) DailyDemand(monthly domain.SalesSeries, currentDaily, leadTimeDays float64) float64 {
	if f.smoothingEnabled {
		if v, err := f.smoothed(monthly, leadTimeDays); err == nil {
			return v
		} else {
			log.Debug().Err(err).Msg("trend smoothing unavailable, using geometric fallback")
		}
	}
	return f.geometric(monthly, currentDaily, leadTimeDays)
}

// smoothed fits Holt's linear method to the daily series and forecasts
// ceil(leadTimeDays) steps ahead.
func (f *Forecaster) smoothed(monthly domain.SalesSeries, leadTimeDays float64) (float64, error) {
	daily := monthly.Daily()
	if len(daily) < 3 {
		return 0, errShortSeries
	}
	model, err := fitHolt(daily)
	if err != nil {
		return 0, err
	}
	return model.forecast(int(math.Ceil(leadTimeDays)))
}

// geometric projects the current daily rate forward by the per-month
// geometric growth of the original series: current * (1+g)^(lead/30).
func (f *Forecaster) geometric(monthly domain.SalesSeries, currentDaily, leadTimeDays float64) float64 {
	growth := monthly.GeometricGrowth()
	return currentDaily * math.Pow(1+growth, leadTimeDays/domain.DaysPerMonth)
}
