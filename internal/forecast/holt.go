// internal/forecast/holt.go
package forecast

import (
	"errors"
	"math"
)

// errShortSeries is returned when the series is too short to fit a trend.
var errShortSeries = errors.New("holt: need at least 3 observations")

// errNoFit is returned when no parameter combination produces a finite fit.
var errNoFit = errors.New("holt: fitting did not converge")

// holtModel is a fitted additive-trend, no-seasonality exponential smoothing
// model (Holt's linear method).
type holtModel struct {
	level float64
	trend float64
	alpha float64
	beta  float64
}

// fitHolt fits Holt's linear method to the series by grid-searching the
// smoothing parameters against the one-step-ahead sum of squared errors.
func fitHolt(series []float64) (holtModel, error) {
	if len(series) < 3 {
		return holtModel{}, errShortSeries
	}

	best := holtModel{}
	bestSSE := math.Inf(1)
	for a := 0.1; a < 1.0; a += 0.1 {
		for b := 0.1; b < 1.0; b += 0.1 {
			m, sse := smooth(series, a, b)
			if math.IsNaN(sse) || math.IsInf(sse, 0) {
				continue
			}
			if sse < bestSSE {
				bestSSE = sse
				best = m
			}
		}
	}
	if math.IsInf(bestSSE, 1) {
		return holtModel{}, errNoFit
	}
	return best, nil
}

// smooth runs one smoothing pass and returns the final state plus the SSE of
// the one-step-ahead forecasts.
func smooth(series []float64, alpha, beta float64) (holtModel, float64) {
	level := series[0]
	trend := series[1] - series[0]
	sse := 0.0
	for _, y := range series[1:] {
		predicted := level + trend
		err := y - predicted
		sse += err * err

		prevLevel := level
		level = alpha*y + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return holtModel{level: level, trend: trend, alpha: alpha, beta: beta}, sse
}

// forecast projects the fitted model h steps ahead and returns the value at
// the final step.
func (m holtModel) forecast(h int) (float64, error) {
	if h < 1 {
		h = 1
	}
	v := m.level + float64(h)*m.trend
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNoFit
	}
	return v, nil
}
