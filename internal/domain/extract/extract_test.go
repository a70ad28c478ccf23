package extract

import (
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

func TestUnreadableInput(t *testing.T) {
	Convey("Given unreadable input", t, func() {
		Convey("When extracting from an empty string", func() {
			_, _, err := Extract("", model.KindPaySlip)

			Convey("Then it should return ErrUnreadable", func() {
				So(errors.Is(err, ErrUnreadable), ShouldBeTrue)
			})
		})

		Convey("When extracting from text below the readable minimum", func() {
			_, _, err := Extract("BULLETIN DE PAIE", model.KindPaySlip)

			Convey("Then it should return ErrUnreadable", func() {
				So(errors.Is(err, ErrUnreadable), ShouldBeTrue)
			})
		})

		Convey("When extracting with an unknown kind", func() {
			_, _, err := Extract("some sufficiently long document text for the reader to accept", "PASSPORT")

			Convey("Then it should return the unknown-kind error", func() {
				So(errors.Is(err, model.ErrUnknownKind), ShouldBeTrue)
			})
		})
	})
}

func TestPaySlipExtraction(t *testing.T) {
	Convey("Given a pay slip document", t, func() {
		text := `SOCIETE ATLAS MAROC SA
BULLETIN DE PAIE
Période: Janvier ` + fmt.Sprint(time.Now().Year()) + `
Employé: Ahmed Benani
CNSS: 380.80
IR: 919.20
Total Brut: 8,500.00
NET À PAYER: 7,200.00`

		Convey("When extracting features", func() {
			fs, issues, err := Extract(text, model.KindPaySlip)

			Convey("Then amounts should be parsed with separators stripped", func() {
				So(err, ShouldBeNil)
				ps := fs.(model.PaySlipFeatures)
				So(ps.GrossSalary, ShouldAlmostEqual, 8500.0)
				So(ps.NetSalary, ShouldAlmostEqual, 7200.0)
				So(ps.TotalDeductions, ShouldAlmostEqual, 1300.0)
			})

			Convey("And derived features should reconcile", func() {
				ps := fs.(model.PaySlipFeatures)
				So(ps.AmountsMatch, ShouldBeTrue)
				So(ps.HasCompanyStamp, ShouldBeTrue)
				So(ps.HasRequiredFields, ShouldBeTrue)
				So(ps.SalaryConsistency, ShouldAlmostEqual, 0.85)
				So(ps.MonthsSinceIssue, ShouldBeGreaterThanOrEqualTo, 0)
				So(issues, ShouldBeEmpty)
			})
		})

		Convey("When the net salary exceeds the gross salary", func() {
			suspicious := `SOCIETE ATLAS MAROC SA
BULLETIN DE PAIE
Période: Janvier ` + fmt.Sprint(time.Now().Year()) + `
Total Brut: 5,000.00
NET À PAYER: 9,000.00`
			fs, issues, err := Extract(suspicious, model.KindPaySlip)

			Convey("Then consistency should collapse and an issue should be raised", func() {
				So(err, ShouldBeNil)
				ps := fs.(model.PaySlipFeatures)
				So(ps.SalaryConsistency, ShouldAlmostEqual, 0.3)
				So(issues, ShouldContain, "net salary greater than gross salary - suspicious")
			})
		})

		Convey("When salary fields are missing entirely", func() {
			sparse := `BULLETIN DE PAIE for an employee of some company, month unknown, amounts unreadable`
			fs, issues, err := Extract(sparse, model.KindPaySlip)

			Convey("Then defaults should be applied and issues recorded", func() {
				So(err, ShouldBeNil)
				ps := fs.(model.PaySlipFeatures)
				So(ps.GrossSalary, ShouldAlmostEqual, 10000.0)
				So(ps.NetSalary, ShouldAlmostEqual, 8000.0)
				So(ps.HasRequiredFields, ShouldBeFalse)
				So(len(issues), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestTaxExtraction(t *testing.T) {
	Convey("Given a tax declaration document", t, func() {
		lastYear := time.Now().Year() - 1
		text := fmt.Sprintf(`DECLARATION ANNUELLE DU REVENU
Année Fiscale: %d
Revenu Brut Global: 150,000.00
Revenu Net Imposable: 120,000.00
Impôt sur le Revenu: 18,500.00
Cachet officiel de la direction des impôts`, lastYear)

		Convey("When extracting features", func() {
			fs, issues, err := Extract(text, model.KindTaxDeclaration)

			Convey("Then all amounts should be captured", func() {
				So(err, ShouldBeNil)
				tf := fs.(model.TaxFeatures)
				So(tf.GrossIncome, ShouldAlmostEqual, 150000.0)
				So(tf.TaxableIncome, ShouldAlmostEqual, 120000.0)
				So(tf.TaxPaid, ShouldAlmostEqual, 18500.0)
				So(tf.YearsSinceDeclaration, ShouldEqual, 1)
			})

			Convey("And the derived flags should hold", func() {
				tf := fs.(model.TaxFeatures)
				So(tf.HasOfficialStamp, ShouldBeTrue)
				So(tf.CalculationsCorrect, ShouldBeTrue)
				So(tf.IncomeReasonable, ShouldBeTrue)
				So(tf.AllFieldsFilled, ShouldBeTrue)
				So(issues, ShouldBeEmpty)
			})
		})

		Convey("When taxable income exceeds gross income", func() {
			inverted := fmt.Sprintf(`DECLARATION ANNUELLE DU REVENU
Année Fiscale: %d
Revenu Brut Global: 80,000.00
Revenu Net Imposable: 120,000.00
Impôt sur le Revenu: 8,500.00
Cachet officiel`, lastYear)
			fs, issues, err := Extract(inverted, model.KindTaxDeclaration)

			Convey("Then the calculations flag should drop and an issue should be raised", func() {
				So(err, ShouldBeNil)
				tf := fs.(model.TaxFeatures)
				So(tf.CalculationsCorrect, ShouldBeFalse)
				So(issues, ShouldContain, "taxable income exceeds gross income - suspicious")
			})
		})

		Convey("When every field is missing", func() {
			fs, issues, err := Extract("a mostly blank page with no recognizable declaration fields on it", model.KindTaxDeclaration)

			Convey("Then the documented defaults should be used", func() {
				So(err, ShouldBeNil)
				tf := fs.(model.TaxFeatures)
				So(tf.GrossIncome, ShouldAlmostEqual, 120000.0)
				So(tf.TaxableIncome, ShouldAlmostEqual, 96000.0)
				So(tf.TaxPaid, ShouldAlmostEqual, 5000.0)
				So(tf.AllFieldsFilled, ShouldBeFalse)
				So(len(issues), ShouldBeGreaterThanOrEqualTo, 4)
			})
		})
	})
}

func TestBankExtraction(t *testing.T) {
	Convey("Given a bank statement document", t, func() {
		text := `ATTIJARIWAFA BANK - RELEVE DE COMPTE
Période: 3 mois
Titulaire: Karim Alaoui
Solde Final: 27,500.00
Ancien Solde: 10,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Virement Reçu: 8,000.00
Retrait: 2,000.00
Loyer: 3,000.00
Courses: 1,500.00`

		Convey("When extracting features", func() {
			fs, issues, err := Extract(text, model.KindBankStatement)

			Convey("Then balances and transactions should be captured", func() {
				So(err, ShouldBeNil)
				bf := fs.(model.BankFeatures)
				So(bf.ClosingBalance, ShouldAlmostEqual, 27500.0)
				So(bf.OpeningBalance, ShouldAlmostEqual, 10000.0)
				So(bf.TotalCredits, ShouldAlmostEqual, 24000.0)
				So(bf.TotalDebits, ShouldAlmostEqual, 6500.0)
				So(bf.PeriodMonths, ShouldEqual, 3)
			})

			Convey("And derived metrics should reconcile", func() {
				bf := fs.(model.BankFeatures)
				So(bf.BalancesMatch, ShouldBeTrue)
				So(bf.AvgMonthlyIncome, ShouldAlmostEqual, 8000.0)
				So(bf.SavingsRate, ShouldAlmostEqual, 17500.0/24000.0)
				So(bf.RegularIncome, ShouldBeTrue)
				So(bf.LowBalanceIncidents, ShouldEqual, 0)
				So(bf.HasBankHeader, ShouldBeTrue)
				So(issues, ShouldBeEmpty)
			})
		})

		Convey("When the balances do not reconcile with transactions", func() {
			broken := `ATTIJARIWAFA BANK - RELEVE DE COMPTE
Période: 3 mois
Titulaire: Karim Alaoui
Solde Final: 99,999.00
Ancien Solde: 10,000.00
Virement Reçu: 8,000.00
Retrait: 2,000.00`
			fs, issues, err := Extract(broken, model.KindBankStatement)

			Convey("Then the reconciliation flag should drop", func() {
				So(err, ShouldBeNil)
				bf := fs.(model.BankFeatures)
				So(bf.BalancesMatch, ShouldBeFalse)
				So(issues, ShouldContain, "balances do not reconcile with transactions")
			})
		})

		Convey("When no transactions appear at all", func() {
			sparse := `a statement-like page without any recognizable banking fields or rows`
			fs, issues, err := Extract(sparse, model.KindBankStatement)

			Convey("Then defaults should apply and zero income should not divide by zero", func() {
				So(err, ShouldBeNil)
				bf := fs.(model.BankFeatures)
				So(bf.ClosingBalance, ShouldAlmostEqual, 15000.0)
				So(bf.AvgMonthlyIncome, ShouldEqual, 0)
				So(bf.SavingsRate, ShouldEqual, 0)
				So(bf.RegularIncome, ShouldBeFalse)
				So(len(issues), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestCINExtraction(t *testing.T) {
	Convey("Given a national identity card text", t, func() {
		future := time.Now().AddDate(3, 0, 0).Format("02/01/2006")
		text := `ROYAUME DU MAROC
CARTE NATIONALE D'IDENTITE
Nom: BENANI
Prénom: AHMED
Né le: 15/03/1985
Valable jusqu'au: ` + future + `
N° K482193`

		Convey("When extracting features", func() {
			fs, issues, err := Extract(text, model.KindCIN)

			Convey("Then the text-level fields should be recovered", func() {
				So(err, ShouldBeNil)
				cf := fs.(model.CINFeatures)
				So(cf.IsExpired, ShouldBeFalse)
				So(cf.OCRConfidence, ShouldAlmostEqual, 1.0)
				So(cf.TextLegible, ShouldBeTrue)
				So(cf.CorrectFormat, ShouldBeTrue)
			})

			Convey("And the unassessable image quality should be flagged", func() {
				So(issues, ShouldContain, "image quality not assessable from text")
			})
		})

		Convey("When the card is expired", func() {
			past := time.Now().AddDate(-1, 0, 0).Format("02/01/2006")
			expired := `ROYAUME DU MAROC
CARTE NATIONALE D'IDENTITE
Nom: BENANI
Né le: 15/03/1985
Valable jusqu'au: ` + past + `
N° K482193`
			fs, issues, err := Extract(expired, model.KindCIN)

			Convey("Then the expiry flag should be set with an issue", func() {
				So(err, ShouldBeNil)
				cf := fs.(model.CINFeatures)
				So(cf.IsExpired, ShouldBeTrue)
				So(issues, ShouldContain, "identity card is expired")
			})
		})

		Convey("When the card number is malformed", func() {
			text := `ROYAUME DU MAROC CARTE NATIONALE D'IDENTITE
Nom: BENANI
Né le: 15/03/1985
Valable jusqu'au: ` + future
			fs, issues, err := Extract(text, model.KindCIN)

			Convey("Then the format flag should drop", func() {
				So(err, ShouldBeNil)
				cf := fs.(model.CINFeatures)
				So(cf.CorrectFormat, ShouldBeFalse)
				So(issues, ShouldContain, "CIN number not found")
			})
		})
	})
}
