package training

import (
	"fmt"
	"os"

	"github.com/mkadiri/creditworthy/pkg/logger"
)

// SetupLogging initializes structured logging for the pipeline.
func SetupLogging(level string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if level != "" {
		if err := logger.SetLevelString(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the trainer tool.
func ShowHelp() {
	os.Stdout.WriteString(`Creditworthy Model Trainer
==========================

Generates labeled synthetic document datasets and trains one scoring
model per document kind. Artifacts are JSON files the service loads at
startup.

Usage:
  go run cmd/trainer/main.go [options]

Options:
  -cin int
        Generated identity card rows (default 1000)
  -payslips int
        Generated pay slip rows (default 1500)
  -tax int
        Generated tax declaration rows (default 1000)
  -bank int
        Generated bank statement rows (default 1500)
  -data string
        Output directory for CSV datasets (default "data")
  -models string
        Output directory for model artifacts (default "models")
  -xlsx string
        Optional combined workbook path, empty to skip
  -seed uint
        Generator and trainer seed (default 42)
  -workers int
        Concurrent generator workers per kind
  -trees int
        Forest size for the status classifier (0 = default)
  -stages int
        Boosting stages for the score regressor (0 = default)
  -evaluate
        Reload saved artifacts and score one fixture per kind
  -log string
        Log level: debug, info, warn, error (default "info")

Examples:
  # Full run with defaults
  go run cmd/trainer/main.go -evaluate

  # Quick run with small models
  go run cmd/trainer/main.go -cin 300 -payslips 300 -tax 300 -bank 300 -trees 50 -stages 50
`)
}
