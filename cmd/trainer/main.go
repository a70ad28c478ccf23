package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkadiri/creditworthy/internal/config"
	"github.com/mkadiri/creditworthy/internal/synthdata"
	"github.com/mkadiri/creditworthy/internal/training"
)

// Default configuration constants.
const (
	defaultDataDir = "data"
	defaultTimeout = 30 * time.Minute
)

func main() {
	// Service configuration supplies the shared defaults; flags override.
	cfg, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	defaults := synthdata.DefaultCounts()
	var (
		cin      = flag.Int("cin", defaults.CIN, "Generated identity card rows")
		paySlips = flag.Int("payslips", defaults.PaySlip, "Generated pay slip rows")
		tax      = flag.Int("tax", defaults.TaxDeclaration, "Generated tax declaration rows")
		bank     = flag.Int("bank", defaults.BankStatement, "Generated bank statement rows")
		dataDir  = flag.String("data", defaultDataDir, "Output directory for CSV datasets")
		modelDir = flag.String("models", cfg.ModelDir, "Output directory for model artifacts")
		xlsxPath = flag.String("xlsx", "", "Optional combined workbook path, empty to skip")
		seed     = flag.Uint64("seed", synthdata.DefaultSeed, "Generator and trainer seed")
		workers  = flag.Int("workers", cfg.WorkerCount, "Concurrent generator workers per kind")
		trees    = flag.Int("trees", 0, "Forest size for the status classifier (0 = default)")
		stages   = flag.Int("stages", 0, "Boosting stages for the score regressor (0 = default)")
		evaluate = flag.Bool("evaluate", false, "Reload saved artifacts and score one fixture per kind")
		logLevel = flag.String("log", "info", "Log level: debug, info, warn, error")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		training.ShowHelp()
		return
	}

	// Setup logging
	if err := training.SetupLogging(*logLevel); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Cancel on SIGINT/SIGTERM, bounded by an overall timeout
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Create pipeline configuration
	config := &training.Config{
		Counts: synthdata.Counts{
			CIN:            *cin,
			PaySlip:        *paySlips,
			TaxDeclaration: *tax,
			BankStatement:  *bank,
		},
		DataDir:  *dataDir,
		ModelDir: *modelDir,
		XLSXPath: *xlsxPath,
		Seed:     *seed,
		Workers:  *workers,
		Trees:    *trees,
		Stages:   *stages,
		Evaluate: *evaluate,
	}

	// Run the pipeline
	if err := training.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Training failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
