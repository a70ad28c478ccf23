// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelDir points at the directory holding trained model artifacts.
	ModelDir string `koanf:"model_dir"`

	// WorkerCount sets the number of goroutines used for dataset
	// generation and batch analysis.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the duplicate-document fingerprint cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxUploadBytes caps the size of one uploaded document.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MinMonthlyIncome is the eligibility floor in MAD per month.
	MinMonthlyIncome float64 `koanf:"min_monthly_income"`

	// MaxDebtToIncome is the rejection ceiling for the debt-to-income
	// ratio, in percent.
	MaxDebtToIncome float64 `koanf:"max_debt_to_income"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		ModelDir:         "models",
		WorkerCount:      runtime.NumCPU(),
		DedupeSize:       50_000,
		MaxUploadBytes:   10 << 20,
		MinMonthlyIncome: 3000,
		MaxDebtToIncome:  40,
	}
	return c
}
