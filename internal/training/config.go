package training

import (
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/synthdata"
)

// Config holds configuration for one training run.
type Config struct {
	Counts   synthdata.Counts // Rows to generate per document kind
	DataDir  string           // Output directory for generated CSV datasets
	ModelDir string           // Output directory for trained model artifacts
	XLSXPath string           // Optional combined workbook path, empty to skip
	Seed     uint64           // Generator and trainer seed
	Workers  int              // Concurrent generator workers per kind
	Trees    int              // Forest size for the status classifier
	Stages   int              // Boosting stages for the score regressor
	Evaluate bool             // Run fixture predictions after training
}

// KindReport summarizes the trained model for one document kind.
type KindReport struct {
	Kind     model.DocumentKind
	Rows     int
	Accuracy float64
	ScoreMAE float64
	Path     string
}

// Stats holds end-to-end pipeline statistics.
type Stats struct {
	RowsGenerated int
	ModelsTrained int
	Reports       []KindReport
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
