// internal/domain/models.go
package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Margin factor bounds applied to the dynamic safety stock multiplier.
const (
	MarginFactorMin = 1.05
	MarginFactorMax = 1.20
)

// DaysPerMonth converts monthly sales figures to daily rates.
const DaysPerMonth = 30.0

// SalesSeries is a chronological sequence of monthly sales observations.
type SalesSeries []float64

// Daily returns the series converted to daily rates (monthly units / 30).
func (s SalesSeries) Daily() []float64 {
	daily := make([]float64, len(s))
	for i, v := range s {
		daily[i] = v / DaysPerMonth
	}
	return daily
}

// GeometricGrowth returns the per-period geometric growth rate
// (last/first)^(1/(n-1)) - 1. Series shorter than 2 points or with a
// non-positive first observation yield 0.
func (s SalesSeries) GeometricGrowth() float64 {
	if len(s) < 2 || s[0] <= 0 {
		return 0
	}
	return math.Pow(s[len(s)-1]/s[0], 1/float64(len(s)-1)) - 1
}

// MarketParams holds ordering parameters shared by every product line sold in
// one market. Created once per market and shared by reference; never mutated.
type MarketParams struct {
	Market       string  `json:"market" yaml:"market"`
	LeadTimeDays float64 `json:"lead_time_days" yaml:"lead_time_days"`
	BufferDays   float64 `json:"buffer_days" yaml:"buffer_days"`
	OrderingCost float64 `json:"ordering_cost" yaml:"ordering_cost"`
	HoldingCost  float64 `json:"holding_cost" yaml:"holding_cost"`
}

// Validate checks the market-level parameter ranges.
func (p *MarketParams) Validate() error {
	if p.Market == "" {
		return fmt.Errorf("market params: %w", ErrMissingMarket)
	}
	if p.LeadTimeDays <= 0 {
		return fmt.Errorf("market %s: %w", p.Market, ErrInvalidLeadTime)
	}
	if p.BufferDays < 0 {
		return fmt.Errorf("market %s: %w", p.Market, ErrInvalidBufferDays)
	}
	if p.OrderingCost < 0 || p.HoldingCost < 0 {
		return fmt.Errorf("market %s: %w", p.Market, ErrInvalidCost)
	}
	return nil
}

// ProductLine is one product in one market, with its sales history and the
// market's shared parameters. Read-only after construction.
type ProductLine struct {
	Product      string          `json:"product"`
	Market       string          `json:"market"`
	CurrentStock float64         `json:"current_stock"`
	CurrentDaily float64         `json:"current_daily"`
	Sales        SalesSeries     `json:"monthly_sales"`
	UnitCost     decimal.Decimal `json:"unit_cost"`

	// MonthlyGrowthRate and MarginFactor are derived at ingestion; a zero
	// MarginFactor means "derive from the cleaned series".
	MonthlyGrowthRate float64 `json:"monthly_growth_rate"`
	MarginFactor      float64 `json:"margin_factor"`

	Params *MarketParams `json:"params"`
}

// Key identifies the line within a plan.
func (l *ProductLine) Key() string {
	return l.Product + "@" + l.Market
}

// Validate rejects lines the metrics engine cannot safely process. A zero
// current daily rate would divide by zero in the days-until-reorder step, so
// it is refused here rather than given sentinel semantics.
func (l *ProductLine) Validate() error {
	if l.Product == "" || l.Market == "" {
		return fmt.Errorf("line %q/%q: %w", l.Product, l.Market, ErrMissingIdentity)
	}
	if l.CurrentStock < 0 {
		return fmt.Errorf("line %s: %w", l.Key(), ErrNegativeStock)
	}
	if l.CurrentDaily <= 0 {
		return fmt.Errorf("line %s: %w", l.Key(), ErrNonPositiveDaily)
	}
	for i, v := range l.Sales {
		if v < 0 {
			return fmt.Errorf("line %s: observation %d: %w", l.Key(), i, ErrNegativeSales)
		}
	}
	if l.UnitCost.IsNegative() {
		return fmt.Errorf("line %s: %w", l.Key(), ErrInvalidCost)
	}
	if l.Params == nil {
		return fmt.Errorf("line %s: %w", l.Key(), ErrMissingMarket)
	}
	return l.Params.Validate()
}

// LineMetrics is the per-line forecast and safety-stock bundle produced by
// the metrics engine. Immutable once computed.
type LineMetrics struct {
	Line  *ProductLine `json:"-"`
	Today time.Time    `json:"today"`

	ForecastedDaily  float64   `json:"forecasted_daily"`
	AverageDaily     float64   `json:"average_daily"`
	ConsumptionLead  float64   `json:"consumption_during_lead"`
	SigmaDaily       float64   `json:"sigma_daily"`
	MarginFactor     float64   `json:"margin_factor"`
	SafetyStock      float64   `json:"safety_stock"`
	ReorderPoint     float64   `json:"reorder_point"`
	DaysUntilReorder float64   `json:"days_until_reorder"`
	ReorderDate      time.Time `json:"individual_reorder_date"`
	CoverageDays     float64   `json:"coverage_days"`
	TargetInventory  float64   `json:"target_inventory"`
	EOQ              float64   `json:"eoq"`
}

// OrderPlan is the synchronized recommendation for one line.
type OrderPlan struct {
	Product          string          `json:"product"`
	Market           string          `json:"market"`
	RecommendedOrder int             `json:"recommended_order"`
	OrderValue       decimal.Decimal `json:"order_value"`
	ReorderDate      time.Time       `json:"individual_reorder_date"`
	ArrivalDate      time.Time       `json:"arrival_date"`
	RunOutDate       time.Time       `json:"run_out_date"`
	NextOrderDate    time.Time       `json:"next_order_date"`
	EOQ              float64         `json:"eoq"`
}

// Key identifies the plan's line.
func (p *OrderPlan) Key() string {
	return p.Product + "@" + p.Market
}

// PlanResult is the full synchronized plan: one common order date and one
// OrderPlan per line, in input order.
type PlanResult struct {
	Today           time.Time       `json:"today"`
	CommonOrderDate time.Time       `json:"common_order_date"`
	Lines           []OrderPlan     `json:"lines"`
	TotalOrderValue decimal.Decimal `json:"total_order_value"`
}

// Plan returns the line's plan by identity, or nil when absent.
func (r *PlanResult) Plan(product, market string) *OrderPlan {
	for i := range r.Lines {
		if r.Lines[i].Product == product && r.Lines[i].Market == market {
			return &r.Lines[i]
		}
	}
	return nil
}

// SensitivityRow is one what-if outcome: the recomputed target inventory and
// recommended order for a candidate parameter value. Unlike OrderPlan the
// order is neither clamped at zero nor rounded.
type SensitivityRow struct {
	Value            float64 `json:"value"`
	TargetInventory  float64 `json:"target_inventory"`
	RecommendedOrder float64 `json:"recommended_order"`
}
