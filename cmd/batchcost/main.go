package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/marsicprod-hub/batchcost/pkg/costing"
	"github.com/marsicprod-hub/batchcost/pkg/infrastructure/config"
	csvrepo "github.com/marsicprod-hub/batchcost/pkg/infrastructure/repositories/csv"
)

func main() {
	// Command line flags
	var (
		requestFile = flag.String("request", "", "Path to batch request JSON file")
		itemsFile   = flag.String("items", "", "Path to recipe items CSV file (replaces items from the request file)")
		laborFile   = flag.String("labor", "", "Path to labor roles CSV file (replaces labor from the request file)")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Print cache diagnostics after the calculation")
	)

	flag.Parse()

	if *requestFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -request is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	req, err := loadRequest(*requestFile, *itemsFile, *laborFile, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := costing.NewEngineWithConfig(costing.EngineConfig{
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})

	result, err := engine.Calculate(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := generateOutput(result, *format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		printDiagnostics(engine.Diagnostics())
	}
}

// loadRequest reads the request JSON and optionally replaces its recipe
// items and labor roles from CSV files. Config defaults fill pricing
// fields the request leaves unset.
func loadRequest(requestFile, itemsFile, laborFile string, cfg *config.Config) (*costing.BatchRequest, error) {
	data, err := os.ReadFile(requestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", requestFile, err)
	}

	var req costing.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", requestFile, err)
	}

	loader := csvrepo.NewLoader()
	if itemsFile != "" {
		items, err := loader.LoadItems(itemsFile)
		if err != nil {
			return nil, err
		}
		req.Items = items
	}
	if laborFile != "" {
		labor, err := loader.LoadLabor(laborFile)
		if err != nil {
			return nil, err
		}
		req.Labor = labor
	}

	if req.Markup.IsZero() {
		req.Markup = cfg.DefaultMarkup
	}
	if req.VatPercent.IsZero() {
		req.VatPercent = cfg.DefaultVatPercent
	}
	if req.RoundingRule == "" {
		req.RoundingRule = cfg.RoundingRule
	}

	return &req, nil
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg.Level = parsed
	return zapCfg.Build()
}
