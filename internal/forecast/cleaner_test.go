package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/forecast"
)

func TestCleanOutliers_RemovesSpike(t *testing.T) {
	series := domain.SalesSeries{100, 102, 98, 101, 500}
	cleaned := forecast.CleanOutliers(series)

	assert.Equal(t, domain.SalesSeries{100, 102, 98, 101}, cleaned,
		"the 500 spike falls outside Q3+1.5*IQR and must be dropped")
}

func TestCleanOutliers_PreservesOrder(t *testing.T) {
	series := domain.SalesSeries{42, 7, 9, 8, 10, 11}
	cleaned := forecast.CleanOutliers(series)

	assert.Equal(t, domain.SalesSeries{7, 9, 8, 10, 11}, cleaned)
}

func TestCleanOutliers_ShortInputUnchanged(t *testing.T) {
	assert.Empty(t, forecast.CleanOutliers(domain.SalesSeries{}))
	assert.Equal(t, domain.SalesSeries{5}, forecast.CleanOutliers(domain.SalesSeries{5}))
}

func TestCleanOutliers_NoOutliers(t *testing.T) {
	series := domain.SalesSeries{300, 310, 320, 330, 340}
	assert.Equal(t, series, forecast.CleanOutliers(series))
}

func TestCleanOutliers_Idempotent(t *testing.T) {
	cases := []domain.SalesSeries{
		{100, 102, 98, 101, 500},
		{300, 310, 320, 330, 340},
		{50, 50, 50, 50},
		{1, 2, 3, 4, 5, 6, 7, 1000},
	}
	for _, series := range cases {
		once := forecast.CleanOutliers(series)
		twice := forecast.CleanOutliers(once)
		assert.Equal(t, once, twice, "cleaning an already-cleaned series must be a no-op")
	}
}
