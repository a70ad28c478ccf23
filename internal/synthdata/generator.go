// Package synthdata produces labeled synthetic document feature rows
// for the four Moroccan document kinds. Feature values are drawn from
// distributions calibrated to realistic ranges; the status and score
// labels come from the deterministic rule engine, which is the ground
// truth the statistical models are trained to approximate.
package synthdata

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/domain/rules"
)

// DefaultSeed reproduces the reference datasets.
const DefaultSeed = 42

const defaultWorkers = 4

// cnssRate is the employee CNSS contribution rate.
const cnssRate = 0.0448

// Record is one generated document: rendered identity fields, the
// drawn feature set, and its ground-truth label.
type Record struct {
	Identity []string
	Features model.FeatureSet
	Status   model.DocumentStatus
	Score    float64
}

// Dataset holds every generated record for one document kind.
type Dataset struct {
	Kind    model.DocumentKind
	Records []Record
}

// Header returns the column names for tabular export: the document
// type, the kind's identity columns, its feature columns, then the
// labels.
func (d Dataset) Header() []string {
	header := []string{"document_type"}
	header = append(header, IdentityColumns(d.Kind)...)
	header = append(header, model.EmptyFeatures(d.Kind).Columns()...)
	return append(header, "status", "score")
}

// IdentityColumns lists the rendered identity fields per kind, in the
// order they appear in Record.Identity.
func IdentityColumns(kind model.DocumentKind) []string {
	switch kind {
	case model.KindCIN:
		return []string{"cin_number", "first_name", "last_name", "birth_date", "issue_date", "expiry_date"}
	case model.KindPaySlip:
		return []string{"employee_name", "company", "pay_month"}
	case model.KindTaxDeclaration:
		return []string{"taxpayer_name", "fiscal_id", "fiscal_year"}
	case model.KindBankStatement:
		return []string{"account_holder", "account_number", "city", "period_start", "period_end"}
	}
	return nil
}

// Counts sets how many rows to generate per kind.
type Counts struct {
	CIN            int
	PaySlip        int
	TaxDeclaration int
	BankStatement  int
}

// DefaultCounts mirrors the reference dataset sizes.
func DefaultCounts() Counts {
	return Counts{CIN: 1000, PaySlip: 1500, TaxDeclaration: 1000, BankStatement: 1500}
}

func (c Counts) forKind(kind model.DocumentKind) int {
	switch kind {
	case model.KindCIN:
		return c.CIN
	case model.KindPaySlip:
		return c.PaySlip
	case model.KindTaxDeclaration:
		return c.TaxDeclaration
	case model.KindBankStatement:
		return c.BankStatement
	}
	return 0
}

// Generator draws synthetic documents. A fixed seed and worker count
// yields identical datasets across runs.
type Generator struct {
	seed    uint64
	workers int
	now     time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSeed sets the base random seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithWorkers sets how many goroutines generate rows concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithNow pins the reference time used for dates and staleness.
func WithNow(now time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator with the default seed and worker count.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:    DefaultSeed,
		workers: defaultWorkers,
		now:     time.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws n labeled rows for one kind. Each worker draws its
// chunk from its own seeded stream.
func (g *Generator) Generate(ctx context.Context, kind model.DocumentKind, n int) (Dataset, error) {
	if _, err := model.ParseKind(string(kind)); err != nil {
		return Dataset{}, err
	}
	if n <= 0 {
		return Dataset{Kind: kind}, nil
	}

	records := make([]Record, n)
	chunk := (n + g.workers - 1) / g.workers

	var wg sync.WaitGroup
	for w := 0; w < g.workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			d := g.drawerFor(kind, w)
			for i := lo; i < hi; i++ {
				records[i] = g.one(kind, d)
			}
		}(w, lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}

	return Dataset{Kind: kind, Records: records}, nil
}

// GenerateAll draws the configured number of rows for every kind,
// one kind per goroutine.
func (g *Generator) GenerateAll(ctx context.Context, counts Counts) ([]Dataset, error) {
	kinds := model.Kinds()
	out := make([]Dataset, len(kinds))
	errs := make([]error, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind model.DocumentKind) {
			defer wg.Done()
			out[i], errs[i] = g.Generate(ctx, kind, counts.forKind(kind))
		}(i, kind)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// drawer bundles a deterministic source with the distributions the
// generators draw from.
type drawer struct {
	src rand.Source
	rng *rand.Rand
}

func (g *Generator) drawerFor(kind model.DocumentKind, worker int) *drawer {
	var kindIdx uint64
	for i, k := range model.Kinds() {
		if k == kind {
			kindIdx = uint64(i)
		}
	}
	stream := kindIdx<<32 | uint64(worker)+1
	src := rand.NewSource(g.seed + stream*0x9e3779b97f4a7c15)
	return &drawer{src: src, rng: rand.New(src)}
}

func (d *drawer) normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: d.src}.Rand()
}

func (d *drawer) lognormal(mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: d.src}.Rand()
}

func (d *drawer) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: d.src}.Rand()
}

func (d *drawer) chance(p float64) bool {
	return d.rng.Float64() < p
}

func (d *drawer) pick(pool []string) string {
	return pool[d.rng.Intn(len(pool))]
}

func (d *drawer) fullName() string {
	return d.pick(firstNames) + " " + d.pick(lastNames)
}

func (g *Generator) one(kind model.DocumentKind, d *drawer) Record {
	var rec Record
	switch kind {
	case model.KindCIN:
		rec = g.oneCIN(d)
	case model.KindPaySlip:
		rec = g.onePaySlip(d)
	case model.KindTaxDeclaration:
		rec = g.oneTax(d)
	case model.KindBankStatement:
		rec = g.oneBank(d)
	}
	rec.Status, rec.Score = rules.Evaluate(rec.Features)
	return rec
}

func (g *Generator) oneCIN(d *drawer) Record {
	number := fmt.Sprintf("%s%d", d.pick(cinPrefixes), 100000+d.rng.Intn(9900000))
	birth := g.now.AddDate(0, 0, -(18*365 + d.rng.Intn(52 * 365)))

	// Issue window extends past the 10-year validity so a minority of
	// cards come out expired; the label rules need both populations.
	issue := g.now.AddDate(0, 0, -d.rng.Intn(4380))
	expiry := issue.AddDate(0, 0, 3650)
	isExpired := expiry.Before(g.now)

	mu := 0.85
	sigma := 0.15
	if isExpired {
		mu, sigma = 0.65, 0.2
	}

	fs := model.CINFeatures{
		IsExpired:     isExpired,
		OCRConfidence: clamp(d.normal(mu, sigma), 0.3, 1.0),
		ImageQuality:  clamp(d.normal(0.80, 0.15), 0.3, 1.0),
		HasPhoto:      d.chance(0.95),
		TextLegible:   d.chance(0.90),
		CorrectFormat: d.chance(0.92),
	}

	return Record{
		Identity: []string{
			number, d.pick(firstNames), d.pick(lastNames),
			birth.Format("2006-01-02"), issue.Format("2006-01-02"), expiry.Format("2006-01-02"),
		},
		Features: fs,
	}
}

func (g *Generator) onePaySlip(d *drawer) Record {
	gross := clamp(d.lognormal(8.5, 0.8)*100, 2500, 50000)

	deductions := gross*cnssRate + gross*irRate(gross) + d.uniform(0, 500)
	net := gross - deductions

	monthsAgo := d.rng.Intn(25)
	payDate := g.now.AddDate(0, 0, -monthsAgo*30)

	fs := model.PaySlipFeatures{
		GrossSalary:       round2(gross),
		NetSalary:         round2(net),
		TotalDeductions:   round2(deductions),
		HasCompanyStamp:   d.chance(0.90),
		AmountsMatch:      math.Abs(gross-deductions-net) < 1,
		HasRequiredFields: d.chance(0.88),
		SalaryConsistency: clamp(d.normal(0.85, 0.15), 0.3, 1.0),
		MonthsSinceIssue:  monthsAgo,
	}

	return Record{
		Identity: []string{d.fullName(), d.pick(companies), payDate.Format("2006-01")},
		Features: fs,
	}
}

func (g *Generator) oneTax(d *drawer) Record {
	gross := clamp(d.lognormal(11.0, 0.9)*100, 30000, 1000000)

	deductionRate := d.uniform(0.05, 0.20)
	taxable := gross * (1 - deductionRate)
	taxPaid := taxable * irRate(taxable)

	yearsAgo := d.rng.Intn(4)
	fiscalYear := g.now.Year() - yearsAgo

	ratio := taxable / gross
	fs := model.TaxFeatures{
		GrossIncome:           round2(gross),
		TaxableIncome:         round2(taxable),
		TaxPaid:               round2(taxPaid),
		HasOfficialStamp:      d.chance(0.92),
		CalculationsCorrect:   d.chance(0.85),
		AllFieldsFilled:       d.chance(0.90),
		IncomeReasonable:      ratio > 0.6 && ratio < 0.95,
		YearsSinceDeclaration: yearsAgo,
	}

	return Record{
		Identity: []string{
			d.fullName(),
			fmt.Sprintf("%d", 10000000+d.rng.Intn(90000000)),
			fmt.Sprintf("%d", fiscalYear),
		},
		Features: fs,
	}
}

func (g *Generator) oneBank(d *drawer) Record {
	periodMonths := 1 + d.rng.Intn(6)
	end := g.now.AddDate(0, 0, -d.rng.Intn(61))
	start := end.AddDate(0, 0, -periodMonths*30)

	opening := clamp(d.lognormal(8.0, 1.2)*100, 0, 500000)
	monthlyCredits := clamp(d.lognormal(8.2, 0.9)*100, 1000, 100000)
	totalCredits := monthlyCredits * float64(periodMonths)
	totalDebits := totalCredits * d.uniform(0.60, 1.20)

	closing := math.Max(0, opening+totalCredits-totalDebits)
	average := (opening + closing) / 2

	avgIncome := totalCredits / float64(periodMonths)
	avgExpenses := totalDebits / float64(periodMonths)
	savingsRate := -0.5
	if avgIncome > 0 {
		savingsRate = (avgIncome - avgExpenses) / avgIncome
	}

	incidents := 0
	if closing < 500 {
		incidents = d.rng.Intn(periodMonths + 1)
	}

	fs := model.BankFeatures{
		PeriodMonths:        periodMonths,
		OpeningBalance:      round2(opening),
		ClosingBalance:      round2(closing),
		AverageBalance:      round2(average),
		TotalCredits:        round2(totalCredits),
		TotalDebits:         round2(totalDebits),
		AvgMonthlyIncome:    round2(avgIncome),
		AvgMonthlyExpenses:  round2(avgExpenses),
		SavingsRate:         round3(savingsRate),
		LowBalanceIncidents: incidents,
		HasBankHeader:       d.chance(0.95),
		BalancesMatch:       math.Abs((opening+totalCredits-totalDebits)-closing) < 100,
		RegularIncome:       d.chance(0.70),
	}

	return Record{
		Identity: []string{
			d.fullName(),
			fmt.Sprintf("MA%d", 1000000000000000+d.rng.Intn(9000000000000000)),
			d.pick(cities),
			start.Format("2006-01-02"), end.Format("2006-01-02"),
		},
		Features: fs,
	}
}

// irRate returns the Moroccan progressive income tax bracket rate.
func irRate(income float64) float64 {
	switch {
	case income < 30000:
		return 0.0
	case income < 50000:
		return 0.10
	case income < 60000:
		return 0.20
	case income < 80000:
		return 0.30
	case income < 180000:
		return 0.34
	default:
		return 0.38
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
