package aggregate

import (
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

func paySlipDoc(netSalary, score, confidence float64, status model.DocumentStatus) model.DocumentAnalysisResult {
	return model.DocumentAnalysisResult{
		DocumentType: model.KindPaySlip,
		Status:       status,
		Score:        score,
		Confidence:   confidence,
		ExtractedData: model.PaySlipFeatures{
			NetSalary:    netSalary,
			GrossSalary:  netSalary * 1.2,
			AmountsMatch: true,
		},
	}
}

func taxDoc(score, confidence float64) model.DocumentAnalysisResult {
	return model.DocumentAnalysisResult{
		DocumentType:  model.KindTaxDeclaration,
		Status:        model.StatusValid,
		Score:         score,
		Confidence:    confidence,
		ExtractedData: model.TaxFeatures{GrossIncome: 150000, TaxableIncome: 120000},
	}
}

func TestEmptyDocumentList(t *testing.T) {
	Convey("Given an empty document list", t, func() {
		e := New()

		Convey("When evaluating creditworthiness", func() {
			a := e.Evaluate(nil, 100000, 2500)

			Convey("Then it should return a zero-score rejection without panicking", func() {
				So(a.OverallScore, ShouldEqual, 0)
				So(a.Decision, ShouldEqual, model.DecisionRejected)
				So(a.DecisionReason, ShouldNotBeEmpty)
				So(a.MonthlyIncome, ShouldEqual, 0)
				So(a.DebtToIncomeRatio, ShouldEqual, 0)
			})
		})
	})
}

func TestWeights(t *testing.T) {
	Convey("Given the component weights", t, func() {
		Convey("Then they should sum to exactly 1.0", func() {
			So(incomeWeight+consistencyWeight+debtRatioWeight+qualityWeight, ShouldEqual, 1.0)
		})
	})
}

func TestDebtRatioScore(t *testing.T) {
	Convey("Given debt ratio scoring", t, func() {
		Convey("When the payment is 3000 against an income of 10000", func() {
			score, ratio := debtRatioScore(10000, 3000)

			Convey("Then the ratio should be 30% in the 80-point bucket", func() {
				So(ratio, ShouldAlmostEqual, 30.0)
				So(score, ShouldEqual, 80)
			})
		})

		Convey("When the income is zero", func() {
			score, ratio := debtRatioScore(0, 5000)

			Convey("Then both should be zero, never NaN", func() {
				So(score, ShouldEqual, 0)
				So(ratio, ShouldEqual, 0)
			})
		})

		Convey("When walking the bucket boundaries", func() {
			cases := []struct {
				payment float64
				want    float64
			}{
				{2500, 100}, {3300, 80}, {4000, 60}, {5000, 40}, {6000, 20},
			}
			for _, c := range cases {
				score, _ := debtRatioScore(10000, c.payment)
				So(score, ShouldEqual, c.want)
			}
		})
	})
}

func TestIncomeScore(t *testing.T) {
	Convey("Given the income component", t, func() {
		Convey("When two identical pay slips and a tax declaration are supplied", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(8000, 80, 0.9, model.StatusValid),
				paySlipDoc(8000, 80, 0.9, model.StatusValid),
				taxDoc(85, 0.9),
			}
			score, income := incomeScore(docs)

			Convey("Then the level bucket, consistency bonus and tax bonus should stack", func() {
				// 20 (>=7000) + 20 (no variance) + 10 (tax declaration)
				So(score, ShouldEqual, 50)
				So(income, ShouldAlmostEqual, 8000)
			})
		})

		Convey("When the salaries vary widely", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(12000, 80, 0.9, model.StatusValid),
				paySlipDoc(6000, 80, 0.9, model.StatusValid),
			}
			score, income := incomeScore(docs)

			Convey("Then only the minimal consistency bonus should apply", func() {
				So(income, ShouldAlmostEqual, 9000)
				// 20 (>=7000) + 5 (ratio 0.67)
				So(score, ShouldEqual, 25)
			})
		})

		Convey("When more than three pay slips are submitted", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(9000, 80, 0.9, model.StatusValid),
				paySlipDoc(9000, 80, 0.9, model.StatusValid),
				paySlipDoc(9000, 80, 0.9, model.StatusValid),
				paySlipDoc(100, 80, 0.9, model.StatusValid),
			}
			_, income := incomeScore(docs)

			Convey("Then only the first three should be averaged", func() {
				So(income, ShouldAlmostEqual, 9000)
			})
		})
	})
}

func TestConsistencyScore(t *testing.T) {
	Convey("Given the consistency component", t, func() {
		Convey("When all documents are valid with perfect scores", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(8000, 100, 1.0, model.StatusValid),
				taxDoc(100, 1.0),
			}

			Convey("Then the score should reach the 100 cap", func() {
				So(consistencyScore(docs), ShouldAlmostEqual, 100)
			})
		})

		Convey("When half the documents are invalid", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(8000, 80, 0.8, model.StatusValid),
				paySlipDoc(8000, 20, 0.4, model.StatusInvalid),
			}
			score := consistencyScore(docs)

			Convey("Then the blend should reflect the 40/30/30 split", func() {
				// 0.5*40 + 0.5*30 + 0.6*30
				So(score, ShouldAlmostEqual, 53.0)
			})
		})
	})
}

func TestEvaluateDecisions(t *testing.T) {
	Convey("Given full evaluations", t, func() {
		e := New()

		Convey("When a strong application is evaluated", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(16000, 95, 0.95, model.StatusValid),
				paySlipDoc(16000, 95, 0.95, model.StatusValid),
				taxDoc(90, 0.9),
			}
			a := e.Evaluate(docs, 100000, 3000)

			Convey("Then it should be approved and eligible", func() {
				So(a.Decision, ShouldEqual, model.DecisionApproved)
				So(a.IsEligible, ShouldBeTrue)
				So(a.RiskLevel, ShouldEqual, model.RiskLow)
				So(a.MissingDocuments, ShouldBeEmpty)
				So(a.OverallScore, ShouldBeGreaterThanOrEqualTo, 80)
			})

			Convey("And the credit limit should follow the score band", func() {
				multiplier := 10.0
				switch {
				case a.OverallScore >= 90:
					multiplier *= 1.5
				case a.OverallScore >= 80:
					multiplier *= 1.3
				case a.OverallScore >= 70:
					multiplier *= 1.1
				case a.OverallScore >= 60:
					multiplier *= 0.9
				default:
					multiplier *= 0.5
				}
				So(a.MaxCreditLimit, ShouldAlmostEqual, a.MonthlyIncome*multiplier, 0.01)
			})
		})

		Convey("When the debt ratio exceeds the hard limit", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(16000, 95, 0.95, model.StatusValid),
				paySlipDoc(16000, 95, 0.95, model.StatusValid),
				taxDoc(90, 0.9),
			}
			a := e.Evaluate(docs, 500000, 8000)

			Convey("Then the decision should be forced to REJECTED with a reason", func() {
				So(a.DebtToIncomeRatio, ShouldBeGreaterThan, 40)
				So(a.Decision, ShouldEqual, model.DecisionRejected)
				So(a.DecisionReason, ShouldContainSubstring, "debt-to-income")
			})
		})

		Convey("When the income is below the eligibility gate", func() {
			// High document scores would otherwise land in the approved
			// band; the income floor must still force a rejection.
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(2500, 95, 0.95, model.StatusValid),
				paySlipDoc(2500, 95, 0.95, model.StatusValid),
				taxDoc(90, 0.9),
			}
			a := e.Evaluate(docs, 20000, 500)

			Convey("Then the decision should be forced to REJECTED", func() {
				So(a.Decision, ShouldEqual, model.DecisionRejected)
				So(a.IsEligible, ShouldBeFalse)
				So(a.DecisionReason, ShouldContainSubstring, "insufficient monthly income")
			})
		})

		Convey("When required documents are missing", func() {
			docs := []model.DocumentAnalysisResult{
				paySlipDoc(9000, 80, 0.9, model.StatusValid),
			}
			a := e.Evaluate(docs, 50000, 1500)

			Convey("Then the checklist should name what is missing", func() {
				So(a.MissingDocuments, ShouldContain, "pay slips (1/2)")
				So(a.MissingDocuments, ShouldContain, "tax declaration")
				So(a.RequiredDocuments, ShouldContain, "2 recent pay slips")
			})
		})
	})
}

func TestOverallScoreBounds(t *testing.T) {
	Convey("Given randomized document sets", t, func() {
		e := New()
		rng := rand.New(rand.NewPCG(7, 7))

		Convey("When evaluating many random applications", func() {
			Convey("Then the overall score should always stay within [0,100]", func() {
				for i := 0; i < 300; i++ {
					var docs []model.DocumentAnalysisResult
					for j := 0; j < rng.IntN(5); j++ {
						docs = append(docs, paySlipDoc(
							rng.Float64()*50000,
							rng.Float64()*100,
							rng.Float64(),
							model.Statuses()[rng.IntN(4)],
						))
					}
					a := e.Evaluate(docs, rng.Float64()*1e6, rng.Float64()*20000)
					So(a.OverallScore, ShouldBeGreaterThanOrEqualTo, 0)
					So(a.OverallScore, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})
	})
}

func TestMonotonicity(t *testing.T) {
	Convey("Given the monotonicity property", t, func() {
		e := New()
		rng := rand.New(rand.NewPCG(11, 11))

		Convey("When raising a single document score", func() {
			Convey("Then the overall score should never decrease", func() {
				for i := 0; i < 100; i++ {
					base := rng.Float64() * 90
					docs := []model.DocumentAnalysisResult{
						paySlipDoc(9000, base, 0.8, model.StatusValid),
						taxDoc(70, 0.8),
					}
					before := e.Evaluate(docs, 50000, 1500).OverallScore

					docs[0].Score = base + rng.Float64()*(100-base)
					after := e.Evaluate(docs, 50000, 1500).OverallScore

					So(after, ShouldBeGreaterThanOrEqualTo, before)
				}
			})
		})

		Convey("When raising the net salary on a single pay slip", func() {
			Convey("Then the overall score should never decrease", func() {
				for i := 0; i < 100; i++ {
					salary := 3000 + rng.Float64()*10000
					docs := []model.DocumentAnalysisResult{
						paySlipDoc(salary, 80, 0.9, model.StatusValid),
					}
					before := e.Evaluate(docs, 50000, 1500).OverallScore

					docs[0].ExtractedData = model.PaySlipFeatures{NetSalary: salary + rng.Float64()*20000, AmountsMatch: true}
					after := e.Evaluate(docs, 50000, 1500).OverallScore

					So(after, ShouldBeGreaterThanOrEqualTo, before)
				}
			})
		})
	})
}
