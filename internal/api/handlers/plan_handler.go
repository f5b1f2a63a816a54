// internal/api/handlers/plan_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stockpilot/reorder/internal/domain"
	"github.com/stockpilot/reorder/internal/engine"
	"github.com/stockpilot/reorder/internal/input"
	"github.com/stockpilot/reorder/internal/planner"
)

// PlanHandler serves synchronized order plans. In serve mode a source file
// can be configured; the handler keeps the latest computed plan as an
// in-memory snapshot refreshed on demand or on a schedule.
type PlanHandler struct {
	planner *planner.Planner
	source  string

	mu        sync.RWMutex
	cached    *domain.PlanResult
	refreshed time.Time
}

// NewPlanHandler creates a handler. source may be empty when only ad hoc
// POST /plan requests are expected.
func NewPlanHandler(p *planner.Planner, source string) *PlanHandler {
	return &PlanHandler{planner: p, source: source}
}

type planRequest struct {
	input.Document
	Today string `json:"today"`
}

type sensitivityRequest struct {
	Market input.MarketSpec `json:"market"`
	Line   input.LineSpec   `json:"line"`
	Param  string           `json:"param"`
	Values []float64        `json:"values"`
	Today  string           `json:"today"`
}

// ComputePlan computes a plan for the lines supplied in the request body.
func (h *PlanHandler) ComputePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	today, err := parseToday(req.Today)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today date", "details": err.Error()})
		return
	}

	lines, err := req.Document.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planning input", "details": err.Error()})
		return
	}

	result, err := h.planner.Plan(c.Request.Context(), lines, today)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to compute plan", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPlan returns the cached snapshot computed from the configured source.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	h.mu.RLock()
	cached, refreshed := h.cached, h.refreshed
	h.mu.RUnlock()

	if cached == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no plan snapshot available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":         cached,
		"refreshed_at": refreshed,
	})
}

// Sensitivity runs a what-if report for a single line.
func (h *PlanHandler) Sensitivity(c *gin.Context) {
	var req sensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if len(req.Values) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "values are required"})
		return
	}

	today, err := parseToday(req.Today)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today date", "details": err.Error()})
		return
	}

	doc := input.Document{
		Markets: []input.MarketSpec{req.Market},
		Lines:   []input.LineSpec{req.Line},
	}
	lines, err := doc.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid planning input", "details": err.Error()})
		return
	}

	metrics, err := h.planner.Metrics(lines[0], today)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to compute metrics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"line":  lines[0].Key(),
		"param": req.Param,
		"rows":  engine.Simulate(metrics, req.Param, req.Values),
	})
}

// Refresh recomputes the cached snapshot from the configured source file.
func (h *PlanHandler) Refresh(ctx context.Context) error {
	if h.source == "" {
		return fmt.Errorf("no plan source configured")
	}

	doc, err := input.LoadFile(h.source)
	if err != nil {
		return fmt.Errorf("failed to load plan source: %w", err)
	}
	lines, err := doc.Build()
	if err != nil {
		return fmt.Errorf("failed to build plan input: %w", err)
	}

	today := midnightUTC(time.Now())
	result, err := h.planner.Plan(ctx, lines, today)
	if err != nil {
		return fmt.Errorf("failed to compute plan: %w", err)
	}

	h.mu.Lock()
	h.cached = result
	h.refreshed = time.Now()
	h.mu.Unlock()

	log.Info().Str("source", h.source).Int("lines", len(result.Lines)).Msg("refreshed plan snapshot")
	return nil
}

func parseToday(s string) (time.Time, error) {
	if s == "" {
		return midnightUTC(time.Now()), nil
	}
	return time.Parse("2006-01-02", s)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
