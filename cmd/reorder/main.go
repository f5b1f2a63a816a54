// cmd/reorder/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/stockpilot/reorder/internal/api"
	"github.com/stockpilot/reorder/internal/api/handlers"
	"github.com/stockpilot/reorder/internal/config"
	"github.com/stockpilot/reorder/internal/engine"
	"github.com/stockpilot/reorder/internal/forecast"
	"github.com/stockpilot/reorder/internal/input"
	"github.com/stockpilot/reorder/internal/output"
	"github.com/stockpilot/reorder/internal/planner"
	"github.com/stockpilot/reorder/pkg/logger"
)

func newInputFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Usage:    "Planning input file (.yaml, .yml or .csv)",
		Required: required,
		EnvVars:  []string{"REORDER_INPUT"},
	}
}

func newTodayFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "today",
		Usage: "Reference date in YYYY-MM-DD format (defaults to the current date)",
	}
}

func newPlanner() *planner.Planner {
	cfg := config.Load()
	forecaster := forecast.New(cfg.Forecast.SmoothingEnabled)
	calc := engine.NewCalculator(forecaster, engine.Options{ServiceZ: cfg.Planning.ServiceZ})
	return planner.New(calc, cfg.Planning.WorkerCount)
}

func parseToday(c *cli.Context) (time.Time, error) {
	if s := c.String("today"); s != "" {
		return time.Parse("2006-01-02", s)
	}
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func runPlan(c *cli.Context) error {
	today, err := parseToday(c)
	if err != nil {
		return fmt.Errorf("invalid today date: %w", err)
	}

	doc, err := input.LoadFile(c.String("input"))
	if err != nil {
		return err
	}
	lines, err := doc.Build()
	if err != nil {
		return err
	}

	result, err := newPlanner().Plan(c.Context, lines, today)
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}
	return output.RenderPlan(c.App.Writer, result)
}

func runSensitivity(c *cli.Context) error {
	today, err := parseToday(c)
	if err != nil {
		return fmt.Errorf("invalid today date: %w", err)
	}

	values, err := parseValues(c.String("values"))
	if err != nil {
		return err
	}

	doc, err := input.LoadFile(c.String("input"))
	if err != nil {
		return err
	}
	lines, err := doc.Build()
	if err != nil {
		return err
	}

	product, market := c.String("product"), c.String("market")
	pl := newPlanner()
	for _, line := range lines {
		if line.Product != product || line.Market != market {
			continue
		}
		metrics, err := pl.Metrics(line, today)
		if err != nil {
			return err
		}
		rows := engine.Simulate(metrics, c.String("param"), values)
		return output.RenderSensitivity(c.App.Writer, line.Key(), c.String("param"), rows)
	}
	return fmt.Errorf("line %s@%s not found in input", product, market)
}

func parseValues(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid candidate value %q: %w", part, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one candidate value is required")
	}
	return values, nil
}

func runServe(c *cli.Context) error {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	planHandler := handlers.NewPlanHandler(newPlanner(), c.String("input"))

	// Compute the initial snapshot and start the refresh schedule when a
	// source file is configured.
	var scheduler *cron.Cron
	if c.String("input") != "" {
		if err := planHandler.Refresh(c.Context); err != nil {
			logger.Log.Error().Err(err).Msg("initial plan refresh failed")
		}
		schedule := c.String("schedule")
		if schedule == "" {
			schedule = cfg.Server.RefreshSchedule
		}
		if schedule != "" {
			scheduler = cron.New()
			if _, err := scheduler.AddFunc(schedule, func() {
				if err := planHandler.Refresh(context.Background()); err != nil {
					logger.Log.Error().Err(err).Msg("scheduled plan refresh failed")
				}
			}); err != nil {
				return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
			}
			scheduler.Start()
			logger.Log.Info().Str("schedule", schedule).Msg("plan refresh scheduled")
		}
	}

	port := c.String("port")
	if port == "" {
		port = cfg.Server.Port
	}
	router := api.NewRouter(planHandler, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "reorder",
		Usage: "Compute synchronized reorder recommendations across products and markets",
		Commands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "Compute the synchronized order plan from an input file",
				Flags: []cli.Flag{
					newInputFlag(true),
					newTodayFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (table or json)",
						Value: "table",
					},
				},
				Action: runPlan,
			},
			{
				Name:  "sensitivity",
				Usage: "Run a what-if report for one product line",
				Flags: []cli.Flag{
					newInputFlag(true),
					newTodayFlag(),
					&cli.StringFlag{Name: "product", Usage: "Product identifier", Required: true},
					&cli.StringFlag{Name: "market", Usage: "Market identifier", Required: true},
					&cli.StringFlag{
						Name:  "param",
						Usage: "Parameter to perturb (lead_time or buffer_days)",
						Value: engine.ParamLeadTime,
					},
					&cli.StringFlag{
						Name:     "values",
						Usage:    "Comma-separated candidate values, e.g. 20,30,45",
						Required: true,
					},
				},
				Action: runSensitivity,
			},
			{
				Name:  "serve",
				Usage: "Serve the planning API over HTTP",
				Flags: []cli.Flag{
					newInputFlag(false),
					&cli.StringFlag{Name: "port", Usage: "HTTP port (overrides SERVER_PORT)"},
					&cli.StringFlag{
						Name:    "schedule",
						Usage:   "Cron schedule for plan refresh from the input file",
						EnvVars: []string{"SERVER_REFRESH_SCHEDULE"},
					},
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
