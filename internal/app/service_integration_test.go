package service_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/mkadiri/creditworthy/internal/app"
	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/ml"
	"github.com/mkadiri/creditworthy/internal/synthdata"
)

// trainKind fits a small model on synthetic rows and saves its
// artifact under dir.
func trainKind(t *testing.T, dir string, kind model.DocumentKind) {
	t.Helper()

	g := synthdata.New(synthdata.WithSeed(42), synthdata.WithWorkers(2))
	ds, err := g.Generate(context.Background(), kind, 300)
	if err != nil {
		t.Fatalf("generate %s: %v", kind, err)
	}

	samples := make([]ml.Sample, 0, len(ds.Records))
	for _, rec := range ds.Records {
		samples = append(samples, ml.Sample{
			Features: rec.Features.Vector(),
			Status:   rec.Status,
			Score:    rec.Score,
		})
	}

	m := ml.NewKindModel(kind, ml.WithTrees(20), ml.WithStages(25))
	if err := m.Fit(samples); err != nil {
		t.Fatalf("fit %s: %v", kind, err)
	}
	if err := m.Save(dir); err != nil {
		t.Fatalf("save %s: %v", kind, err)
	}
}

func TestServiceWithTrainedModels(t *testing.T) {
	Convey("Given trained artifacts for two kinds", t, func() {
		dir := t.TempDir()
		trainKind(t, dir, model.KindPaySlip)
		trainKind(t, dir, model.KindCIN)

		svc := service.New(service.WithModelDir(dir))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the service starts", func() {
			stats := svc.GetStats()

			Convey("Then only the untrained kinds should fall back", func() {
				So(stats["modelsLoaded"], ShouldEqual, 2)
				So(stats["ruleFallbackKinds"], ShouldHaveLength, 2)
			})
		})

		Convey("When analyzing a pay slip", func() {
			result, err := svc.AnalyzeDocument(ctx, model.KindPaySlip, paySlipText("7,200.00"))

			Convey("Then the trained model should produce the prediction", func() {
				So(err, ShouldBeNil)
				So(result.StatusProbabilities, ShouldHaveLength, len(model.Statuses()))
				So(result.Score, ShouldBeBetweenOrEqual, 0, 100)
				So(result.Confidence, ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		Convey("When analyzing a kind without an artifact", func() {
			result, err := svc.AnalyzeDocument(ctx, model.KindBankStatement, `ATTIJARIWAFA BANK - RELEVE DE COMPTE
Période: 3 mois
Titulaire: Karim Alaoui
Solde Final: 27,500.00
Ancien Solde: 10,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Retrait: 2,000.00`)

			Convey("Then the rule fallback should apply", func() {
				So(err, ShouldBeNil)
				So(result.Confidence, ShouldEqual, 0.7)
				So(result.StatusProbabilities, ShouldHaveLength, 1)
			})
		})

		Convey("When analyzing many documents concurrently", func() {
			const goroutines = 8
			errs := make(chan error, goroutines)
			rng := rand.New(rand.NewPCG(1, 2))
			texts := make([]string, goroutines)
			for i := range texts {
				texts[i] = paySlipText("7,2" + string(rune('0'+rng.IntN(10))) + "0.00")
			}

			for i := 0; i < goroutines; i++ {
				go func(text string) {
					_, err := svc.AnalyzeDocument(ctx, model.KindPaySlip, text)
					errs <- err
				}(texts[i])
			}

			Convey("Then every analysis should complete", func() {
				for i := 0; i < goroutines; i++ {
					So(<-errs, ShouldBeNil)
				}
			})
		})
	})
}

func TestEndToEndAssessment(t *testing.T) {
	Convey("Given a full document set analyzed by the service", t, func() {
		svc := startedService(t)
		defer svc.Stop()
		ctx := context.Background()

		texts := []struct {
			kind model.DocumentKind
			text string
		}{
			{model.KindPaySlip, paySlipText("7,200.00")},
			{model.KindPaySlip, paySlipText("7,350.00")},
			{model.KindTaxDeclaration, `DECLARATION ANNUELLE DU REVENU
Année Fiscale: ` + fmt.Sprint(time.Now().Year()-1) + `
Revenu Brut Global: 150,000.00
Revenu Net Imposable: 120,000.00
Impôt sur le Revenu: 18,500.00
Cachet officiel`},
			{model.KindBankStatement, `ATTIJARIWAFA BANK - RELEVE DE COMPTE
Période: 3 mois
Titulaire: Karim Alaoui
Solde Final: 27,500.00
Ancien Solde: 10,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Retrait: 2,000.00
Loyer: 3,000.00
Courses: 1,500.00`},
		}

		Convey("When evaluating the applicant", func() {
			var documents []model.DocumentAnalysisResult
			for _, d := range texts {
				result, err := svc.AnalyzeDocument(ctx, d.kind, d.text)
				So(err, ShouldBeNil)
				documents = append(documents, result)
			}

			assessment, err := svc.EvaluateCreditworthiness(ctx, documents, 50000, 1800)

			Convey("Then the applicant should be eligible with a usable credit line", func() {
				So(err, ShouldBeNil)
				So(assessment.MonthlyIncome, ShouldAlmostEqual, 7275, 1)
				So(assessment.IsEligible, ShouldBeTrue)
				So(assessment.MaxCreditLimit, ShouldBeGreaterThan, 0)
				So(assessment.DebtToIncomeRatio, ShouldBeLessThan, 40)
				So(assessment.Decision, ShouldBeIn, model.DecisionApproved, model.DecisionReview)
				So(assessment.MissingDocuments, ShouldBeEmpty)
			})
		})
	})
}
