package training

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/ml"
	"github.com/mkadiri/creditworthy/internal/synthdata"
	"github.com/mkadiri/creditworthy/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
)

// Run executes the complete training pipeline: dataset generation,
// tabular export, per-kind model training, and artifact persistence.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting training pipeline",
		logger.String("dataDir", config.DataDir),
		logger.String("modelDir", config.ModelDir),
		logger.Int("workers", config.Workers),
		logger.Int("trees", config.Trees),
		logger.Int("stages", config.Stages),
		logger.Any("seed", config.Seed))

	// Step 1: Generate labeled datasets for every document kind
	gen := synthdata.New(
		synthdata.WithSeed(config.Seed),
		synthdata.WithWorkers(config.Workers),
	)
	datasets, err := gen.GenerateAll(ctx, config.Counts)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}
	for _, ds := range datasets {
		stats.RowsGenerated += len(ds.Records)
	}

	// Step 2: Write one CSV per kind
	if err := writeDatasets(ctx, config, datasets); err != nil {
		return fmt.Errorf("dataset export failed: %w", err)
	}

	// Step 3: Optional combined workbook
	if config.XLSXPath != "" {
		if err := synthdata.WriteXLSX(config.XLSXPath, datasets); err != nil {
			return fmt.Errorf("workbook export failed: %w", err)
		}
		logger.Get().Info(ctx, "workbook written", logger.String("path", config.XLSXPath))
	}

	// Step 4: Train one model per kind concurrently
	reports, err := trainModels(ctx, config, datasets)
	if err != nil {
		return fmt.Errorf("model training failed: %w", err)
	}
	stats.Reports = reports
	stats.ModelsTrained = len(reports)

	// Step 5: Fixture predictions against the freshly saved artifacts
	if config.Evaluate {
		if err := evaluateArtifacts(ctx, config); err != nil {
			return fmt.Errorf("artifact evaluation failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "training pipeline completed")
	return nil
}

// csvName returns the dataset file name for a kind.
func csvName(kind model.DocumentKind) string {
	return strings.ToLower(string(kind)) + ".csv"
}

// writeDatasets exports each dataset as <kind>.csv under DataDir.
func writeDatasets(ctx context.Context, config *Config, datasets []synthdata.Dataset) error {
	if err := os.MkdirAll(config.DataDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, ds := range datasets {
		path := filepath.Join(config.DataDir, csvName(ds.Kind))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := synthdata.WriteCSV(f, ds); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		logger.Get().Info(ctx, "dataset written",
			logger.String("kind", string(ds.Kind)),
			logger.Int("rows", len(ds.Records)),
			logger.String("path", path))
	}
	return nil
}

// trainModels fits and saves one model per dataset, each kind on its
// own goroutine.
func trainModels(ctx context.Context, config *Config, datasets []synthdata.Dataset) ([]KindReport, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reports  []KindReport
		firstErr error
	)

	for _, ds := range datasets {
		wg.Add(1)
		go func(ds synthdata.Dataset) {
			defer wg.Done()

			report, err := trainOne(ctx, config, ds)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", ds.Kind, err)
				}
				return
			}
			reports = append(reports, report)
		}(ds)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return reports, nil
}

func trainOne(ctx context.Context, config *Config, ds synthdata.Dataset) (KindReport, error) {
	samples := make([]ml.Sample, len(ds.Records))
	for i, rec := range ds.Records {
		samples[i] = ml.Sample{
			Features: rec.Features.Vector(),
			Status:   rec.Status,
			Score:    rec.Score,
		}
	}

	opts := []ml.Option{ml.WithSeed(config.Seed)}
	if config.Trees > 0 {
		opts = append(opts, ml.WithTrees(config.Trees))
	}
	if config.Stages > 0 {
		opts = append(opts, ml.WithStages(config.Stages))
	}

	m := ml.NewKindModel(ds.Kind, opts...)
	if err := m.Fit(samples); err != nil {
		return KindReport{}, fmt.Errorf("fit failed: %w", err)
	}
	if err := m.Save(config.ModelDir); err != nil {
		return KindReport{}, fmt.Errorf("save failed: %w", err)
	}

	report := KindReport{
		Kind:     ds.Kind,
		Rows:     len(ds.Records),
		Accuracy: m.Metadata.Accuracy,
		ScoreMAE: m.Metadata.ScoreMAE,
		Path:     filepath.Join(config.ModelDir, strings.ToLower(string(ds.Kind))+".json"),
	}

	logger.Get().Info(ctx, "model trained",
		logger.String("kind", string(ds.Kind)),
		logger.Int("rows", report.Rows),
		logger.Float64("accuracy", report.Accuracy),
		logger.Float64("scoreMAE", report.ScoreMAE),
		logger.String("path", report.Path))

	return report, nil
}

// evaluateArtifacts reloads the saved artifacts and scores one fixture
// per kind, so a broken artifact fails the run instead of the service.
func evaluateArtifacts(ctx context.Context, config *Config) error {
	registry, missing := ml.LoadRegistry(config.ModelDir)
	if len(missing) > 0 {
		return fmt.Errorf("artifacts missing for %v", missing)
	}

	for _, fs := range evaluationFixtures() {
		pred, err := registry.Predict(fs)
		if err != nil {
			return fmt.Errorf("%s fixture prediction failed: %w", fs.Kind(), err)
		}
		logger.Get().Info(ctx, "fixture prediction",
			logger.String("kind", string(fs.Kind())),
			logger.String("status", string(pred.Status)),
			logger.Float64("score", pred.Score),
			logger.Float64("confidence", pred.Confidence))
	}
	return nil
}

// evaluationFixtures returns one clean document per kind.
func evaluationFixtures() []model.FeatureSet {
	return []model.FeatureSet{
		model.CINFeatures{
			OCRConfidence: 0.95,
			ImageQuality:  0.9,
			HasPhoto:      true,
			TextLegible:   true,
			CorrectFormat: true,
		},
		model.PaySlipFeatures{
			GrossSalary:       9000,
			NetSalary:         7200,
			TotalDeductions:   1800,
			HasCompanyStamp:   true,
			AmountsMatch:      true,
			HasRequiredFields: true,
			SalaryConsistency: 0.95,
			MonthsSinceIssue:  1,
		},
		model.TaxFeatures{
			GrossIncome:         120000,
			TaxableIncome:       100000,
			TaxPaid:             18000,
			HasOfficialStamp:    true,
			CalculationsCorrect: true,
			AllFieldsFilled:     true,
			IncomeReasonable:    true,
		},
		model.BankFeatures{
			PeriodMonths:       3,
			OpeningBalance:     15000,
			ClosingBalance:     18000,
			AverageBalance:     16000,
			TotalCredits:       24000,
			TotalDebits:        21000,
			AvgMonthlyIncome:   8000,
			AvgMonthlyExpenses: 7000,
			SavingsRate:        0.125,
			HasBankHeader:      true,
			BalancesMatch:      true,
			RegularIncome:      true,
		},
	}
}

// displayFinalStats logs the end-of-run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "training run summary",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("modelsTrained", stats.ModelsTrained),
		logger.String("duration", stats.Duration.String()))
	for _, r := range stats.Reports {
		logger.Get().Info(ctx, "model summary",
			logger.String("kind", string(r.Kind)),
			logger.Float64("accuracy", r.Accuracy),
			logger.Float64("scoreMAE", r.ScoreMAE))
	}
}
