// internal/input/loader.go
package input

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/stockpilot/reorder/internal/domain"
)

// Document is the externally supplied planning input: market parameter blocks
// plus the product lines that reference them. The same shape is accepted as a
// YAML file and as an API request body.
type Document struct {
	Markets []MarketSpec `yaml:"markets" json:"markets"`
	Lines   []LineSpec   `yaml:"lines" json:"lines"`
}

// MarketSpec mirrors domain.MarketParams for decoding.
type MarketSpec struct {
	Market       string  `yaml:"market" json:"market"`
	LeadTimeDays float64 `yaml:"lead_time_days" json:"lead_time_days"`
	BufferDays   float64 `yaml:"buffer_days" json:"buffer_days"`
	OrderingCost float64 `yaml:"ordering_cost" json:"ordering_cost"`
	HoldingCost  float64 `yaml:"holding_cost" json:"holding_cost"`
}

// LineSpec is one product line as supplied by the caller.
type LineSpec struct {
	Product      string    `yaml:"product" json:"product"`
	Market       string    `yaml:"market" json:"market"`
	CurrentStock float64   `yaml:"current_stock" json:"current_stock"`
	CurrentDaily float64   `yaml:"current_daily" json:"current_daily"`
	UnitCost     string    `yaml:"unit_cost" json:"unit_cost"`
	MonthlySales []float64 `yaml:"monthly_sales" json:"monthly_sales"`
}

// Build resolves market references and validates every line. All lines of one
// market share a single *domain.MarketParams instance.
func (d *Document) Build() ([]*domain.ProductLine, error) {
	if len(d.Lines) == 0 {
		return nil, domain.ErrNoLines
	}

	markets := make(map[string]*domain.MarketParams, len(d.Markets))
	for _, m := range d.Markets {
		params := &domain.MarketParams{
			Market:       m.Market,
			LeadTimeDays: m.LeadTimeDays,
			BufferDays:   m.BufferDays,
			OrderingCost: m.OrderingCost,
			HoldingCost:  m.HoldingCost,
		}
		if err := params.Validate(); err != nil {
			return nil, err
		}
		markets[m.Market] = params
	}

	lines := make([]*domain.ProductLine, 0, len(d.Lines))
	for _, spec := range d.Lines {
		params, ok := markets[spec.Market]
		if !ok {
			return nil, fmt.Errorf("line %s/%s references unknown market: %w",
				spec.Product, spec.Market, domain.ErrMissingMarket)
		}

		unitCost := decimal.Zero
		if strings.TrimSpace(spec.UnitCost) != "" {
			var err error
			unitCost, err = decimal.NewFromString(strings.TrimSpace(spec.UnitCost))
			if err != nil {
				return nil, fmt.Errorf("line %s/%s: invalid unit cost %q: %w",
					spec.Product, spec.Market, spec.UnitCost, err)
			}
		}

		sales := domain.SalesSeries(spec.MonthlySales)
		line := &domain.ProductLine{
			Product:           spec.Product,
			Market:            spec.Market,
			CurrentStock:      spec.CurrentStock,
			CurrentDaily:      spec.CurrentDaily,
			Sales:             sales,
			UnitCost:          unitCost,
			MonthlyGrowthRate: sales.GeometricGrowth(),
			Params:            params,
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadFile reads a planning document from disk, choosing the decoder by file
// extension (.yaml/.yml or .csv).
func LoadFile(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input file extension for %s (expected .yaml, .yml or .csv)", path)
	}
}

// LoadYAML decodes a YAML planning document.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}
	return &doc, nil
}

// LoadCSV decodes a flat CSV planning document. Each row carries both the
// line fields and its market parameters; the first row seen for a market
// defines that market's shared block. The monthly_sales column holds
// pipe-separated values, e.g. "300|310|320".
func LoadCSV(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{"product", "market", "current_stock", "current_daily", "lead_time_days"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("CSV input missing required column %q", required)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	doc := &Document{}
	seenMarkets := make(map[string]bool)
	for i, rec := range records {
		get := func(col string) string {
			idx, ok := colMap[col]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		getFloat := func(col string) (float64, error) {
			s := get(col)
			if s == "" {
				return 0, nil
			}
			return strconv.ParseFloat(s, 64)
		}

		market := get("market")
		if !seenMarkets[market] {
			seenMarkets[market] = true
			spec := MarketSpec{Market: market}
			for col, dst := range map[string]*float64{
				"lead_time_days": &spec.LeadTimeDays,
				"buffer_days":    &spec.BufferDays,
				"ordering_cost":  &spec.OrderingCost,
				"holding_cost":   &spec.HoldingCost,
			} {
				v, err := getFloat(col)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid %s: %w", i+2, col, err)
				}
				*dst = v
			}
			doc.Markets = append(doc.Markets, spec)
		}

		line := LineSpec{
			Product:  get("product"),
			Market:   market,
			UnitCost: get("unit_cost"),
		}
		if line.CurrentStock, err = getFloat("current_stock"); err != nil {
			return nil, fmt.Errorf("row %d: invalid current_stock: %w", i+2, err)
		}
		if line.CurrentDaily, err = getFloat("current_daily"); err != nil {
			return nil, fmt.Errorf("row %d: invalid current_daily: %w", i+2, err)
		}
		if sales := get("monthly_sales"); sales != "" {
			for _, part := range strings.Split(sales, "|") {
				v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid monthly_sales entry %q: %w", i+2, part, err)
				}
				line.MonthlySales = append(line.MonthlySales, v)
			}
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}
