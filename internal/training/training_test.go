package training

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/ml"
	"github.com/mkadiri/creditworthy/internal/synthdata"
	"github.com/mkadiri/creditworthy/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Counts: synthdata.Counts{
			CIN:            150,
			PaySlip:        150,
			TaxDeclaration: 150,
			BankStatement:  150,
		},
		DataDir:  t.TempDir(),
		ModelDir: t.TempDir(),
		Seed:     42,
		Workers:  2,
		Trees:    15,
		Stages:   20,
	}
}

func TestTrainingPipeline(t *testing.T) {
	convey.Convey("Given a small training configuration", t, func() {
		config := smallConfig(t)

		convey.Convey("When running the full pipeline", func() {
			err := Run(context.Background(), config)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then one CSV per kind should exist", func() {
				for _, kind := range model.Kinds() {
					path := filepath.Join(config.DataDir, csvName(kind))
					f, err := os.Open(path)
					convey.So(err, convey.ShouldBeNil)

					rows, err := csv.NewReader(f).ReadAll()
					convey.So(f.Close(), convey.ShouldBeNil)
					convey.So(err, convey.ShouldBeNil)
					convey.So(rows, convey.ShouldHaveLength, 151)
					convey.So(rows[0][0], convey.ShouldEqual, "document_type")
				}
			})

			convey.Convey("And one loadable artifact per kind should exist", func() {
				registry, missing := ml.LoadRegistry(config.ModelDir)
				convey.So(missing, convey.ShouldBeEmpty)
				convey.So(registry.Len(), convey.ShouldEqual, 4)

				pred, err := registry.Predict(model.CINFeatures{
					OCRConfidence: 0.95,
					ImageQuality:  0.9,
					HasPhoto:      true,
					TextLegible:   true,
					CorrectFormat: true,
				})
				convey.So(err, convey.ShouldBeNil)
				convey.So(pred.Score, convey.ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		convey.Convey("When the evaluate step is enabled", func() {
			config.Evaluate = true
			err := Run(context.Background(), config)
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("When the workbook path is set", func() {
			config.XLSXPath = filepath.Join(t.TempDir(), "datasets.xlsx")
			err := Run(context.Background(), config)
			convey.So(err, convey.ShouldBeNil)

			info, err := os.Stat(config.XLSXPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := Run(ctx, config)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestEvaluationFixtures(t *testing.T) {
	convey.Convey("Given the built-in evaluation fixtures", t, func() {
		fixtures := evaluationFixtures()

		convey.Convey("Then they should cover every document kind once", func() {
			seen := map[model.DocumentKind]bool{}
			for _, fs := range fixtures {
				seen[fs.Kind()] = true
			}
			convey.So(len(seen), convey.ShouldEqual, len(model.Kinds()))
		})
	})
}
