package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/input"
)

const yamlDoc = `
markets:
  - market: US
    lead_time_days: 30
    buffer_days: 7
    ordering_cost: 100
    holding_cost: 2
  - market: EU
    lead_time_days: 21
    buffer_days: 5
    ordering_cost: 80
    holding_cost: 3
lines:
  - product: SKU-1
    market: US
    current_stock: 500
    current_daily: 10
    unit_cost: "12.50"
    monthly_sales: [300, 310, 320, 330, 340]
  - product: SKU-2
    market: US
    current_stock: 50
    current_daily: 5
    monthly_sales: [150, 140, 130, 120, 110]
  - product: SKU-3
    market: EU
    current_stock: 900
    current_daily: 8
    monthly_sales: [240, 240, 240]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML_BuildsLines(t *testing.T) {
	doc, err := input.LoadFile(writeTemp(t, "plan.yaml", yamlDoc))
	require.NoError(t, err)

	lines, err := doc.Build()
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, "SKU-1@US", lines[0].Key())
	assert.True(t, lines[0].UnitCost.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, domain.SalesSeries{300, 310, 320, 330, 340}, lines[0].Sales)
	assert.InDelta(t, 0.0317857, lines[0].MonthlyGrowthRate, 1e-6)
	assert.True(t, lines[1].UnitCost.IsZero())
}

func TestBuild_SharesMarketParamsByReference(t *testing.T) {
	doc, err := input.LoadYAML(writeTemp(t, "plan.yml", yamlDoc))
	require.NoError(t, err)

	lines, err := doc.Build()
	require.NoError(t, err)

	assert.Same(t, lines[0].Params, lines[1].Params, "lines of one market share one params instance")
	assert.NotSame(t, lines[0].Params, lines[2].Params)
}

func TestBuild_UnknownMarket(t *testing.T) {
	doc := &input.Document{
		Markets: []input.MarketSpec{{Market: "US", LeadTimeDays: 30}},
		Lines: []input.LineSpec{
			{Product: "SKU-1", Market: "APAC", CurrentStock: 10, CurrentDaily: 1},
		},
	}

	_, err := doc.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingMarket)
}

func TestBuild_NoLines(t *testing.T) {
	_, err := (&input.Document{}).Build()
	assert.ErrorIs(t, err, domain.ErrNoLines)
}

func TestBuild_InvalidUnitCost(t *testing.T) {
	doc := &input.Document{
		Markets: []input.MarketSpec{{Market: "US", LeadTimeDays: 30}},
		Lines: []input.LineSpec{
			{Product: "SKU-1", Market: "US", CurrentStock: 10, CurrentDaily: 1, UnitCost: "abc"},
		},
	}

	_, err := doc.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unit cost")
}

func TestLoadCSV_BuildsLines(t *testing.T) {
	csvDoc := "product,market,current_stock,current_daily,lead_time_days,buffer_days,ordering_cost,holding_cost,unit_cost,monthly_sales\n" +
		"SKU-1,US,500,10,30,7,100,2,12.50,300|310|320|330|340\n" +
		"SKU-2,US,50,5,30,7,100,2,,150|140|130|120|110\n"

	doc, err := input.LoadFile(writeTemp(t, "plan.csv", csvDoc))
	require.NoError(t, err)
	require.Len(t, doc.Markets, 1, "one market block per distinct market")
	require.Len(t, doc.Lines, 2)

	lines, err := doc.Build()
	require.NoError(t, err)
	assert.Same(t, lines[0].Params, lines[1].Params)
	assert.Equal(t, domain.SalesSeries{150, 140, 130, 120, 110}, lines[1].Sales)
	assert.InDelta(t, 30.0, lines[0].Params.LeadTimeDays, 1e-9)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	csvDoc := "product,market\nSKU-1,US\n"
	_, err := input.LoadCSV(writeTemp(t, "plan.csv", csvDoc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := input.LoadFile(writeTemp(t, "plan.txt", "x"))
	assert.Error(t, err)
}
