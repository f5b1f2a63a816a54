// internal/forecast/cleaner.go
package forecast

import (
	"sort"

	"github.com/stockpilot/reorder/internal/domain"
)

// CleanOutliers removes statistical outliers from a sales series using the
// interquartile-range rule: observations outside [Q1-1.5*IQR, Q3+1.5*IQR] are
// dropped, original order is preserved. Series shorter than 2 points have no
// meaningful quartiles and are returned unchanged.
func CleanOutliers(series domain.SalesSeries) domain.SalesSeries {
	if len(series) < 2 {
		return series
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	cleaned := make(domain.SalesSeries, 0, len(series))
	for _, v := range series {
		if v >= lower && v <= upper {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

// quantile computes the q-th quantile of an ascending slice with linear
// interpolation between the two closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
