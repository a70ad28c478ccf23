package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Default ensemble hyperparameters.
const (
	defaultNumTrees        = 200
	defaultForestDepth     = 15
	defaultNumStages       = 200
	defaultBoostDepth      = 8
	defaultLearningRate    = 0.1
	defaultMinSamplesSplit = 10
	defaultMinSamplesLeaf  = 5
	defaultSeed            = 42

	validationFraction = 0.2
)

// Sample is one labeled training row for a document kind.
type Sample struct {
	Features []float64
	Status   model.DocumentStatus
	Score    float64
}

// Prediction is the model output for one document.
type Prediction struct {
	Status        model.DocumentStatus `json:"status"`
	Score         float64              `json:"score"`
	Confidence    float64              `json:"confidence"`
	Probabilities map[string]float64   `json:"probabilities"`
}

// Metadata records how and when a model was trained.
type Metadata struct {
	TrainedAt    time.Time `json:"trained_at"`
	Version      string    `json:"version"`
	Samples      int       `json:"samples"`
	Accuracy     float64   `json:"accuracy"`
	ScoreMAE     float64   `json:"score_mae"`
	FeatureNames []string  `json:"features"`
}

// KindModel scores one document kind with a classification forest for
// the status and a boosted regressor for the numeric score, both over
// standardized features.
type KindModel struct {
	Kind       model.DocumentKind `json:"kind"`
	Columns    []string           `json:"columns"`
	Scaler     *StandardScaler    `json:"scaler"`
	Classifier *RandomForest      `json:"classifier"`
	Regressor  *GradientBoosting  `json:"regressor"`
	Metadata   Metadata           `json:"metadata"`

	seed uint64
}

// Option customizes model training.
type Option func(*KindModel)

// WithTrees overrides the forest size.
func WithTrees(n int) Option {
	return func(m *KindModel) {
		if n > 0 {
			m.Classifier.NumTrees = n
		}
	}
}

// WithStages overrides the boosting stage count.
func WithStages(n int) Option {
	return func(m *KindModel) {
		if n > 0 {
			m.Regressor.NumStages = n
		}
	}
}

// WithLearningRate overrides the boosting learning rate.
func WithLearningRate(lr float64) Option {
	return func(m *KindModel) {
		if lr > 0 {
			m.Regressor.LearningRate = lr
		}
	}
}

// WithSeed overrides the training seed.
func WithSeed(seed uint64) Option {
	return func(m *KindModel) {
		m.seed = seed
	}
}

// NewKindModel creates an untrained model for the given document kind.
func NewKindModel(kind model.DocumentKind, opts ...Option) *KindModel {
	m := &KindModel{
		Kind:    kind,
		Columns: model.EmptyFeatures(kind).Columns(),
		Classifier: &RandomForest{
			NumClasses:      len(model.Statuses()),
			NumTrees:        defaultNumTrees,
			MaxDepth:        defaultForestDepth,
			MinSamplesSplit: defaultMinSamplesSplit,
			MinSamplesLeaf:  defaultMinSamplesLeaf,
		},
		Regressor: &GradientBoosting{
			NumStages:       defaultNumStages,
			MaxDepth:        defaultBoostDepth,
			MinSamplesSplit: defaultMinSamplesSplit,
			MinSamplesLeaf:  defaultMinSamplesLeaf,
			LearningRate:    defaultLearningRate,
		},
		seed: defaultSeed,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// statusIndex maps a status to its position in the stable ordering
// used as the label encoding.
func statusIndex(s model.DocumentStatus) (int, bool) {
	for i, st := range model.Statuses() {
		if st == s {
			return i, true
		}
	}
	return 0, false
}

// Fit trains both ensembles on the samples, holding out a stratified
// validation fraction for the metrics recorded in Metadata.
func (m *KindModel) Fit(samples []Sample) error {
	if len(samples) == 0 {
		return ErrEmptyDataset
	}

	rng := rand.New(rand.NewPCG(m.seed, m.seed^0x9e3779b97f4a7c15))

	train, val := stratifiedSplit(samples, validationFraction, rng)

	x := make([][]float64, len(train))
	yClass := make([]int, len(train))
	yScore := make([]float64, len(train))
	for i, s := range train {
		if len(s.Features) != len(m.Columns) {
			return ErrDimensionMismatch
		}
		x[i] = s.Features
		cls, ok := statusIndex(s.Status)
		if !ok {
			return fmt.Errorf("fit %s: unknown status %q", m.Kind, s.Status)
		}
		yClass[i] = cls
		yScore[i] = s.Score
	}

	scaler, err := FitScaler(x)
	if err != nil {
		return fmt.Errorf("fit %s: %w", m.Kind, err)
	}
	m.Scaler = scaler

	scaled, err := scaler.TransformAll(x)
	if err != nil {
		return fmt.Errorf("fit %s: %w", m.Kind, err)
	}

	if err := m.Classifier.Fit(scaled, yClass, rng); err != nil {
		return fmt.Errorf("fit %s classifier: %w", m.Kind, err)
	}
	if err := m.Regressor.Fit(scaled, yScore); err != nil {
		return fmt.Errorf("fit %s regressor: %w", m.Kind, err)
	}

	accuracy, mae, err := m.validate(val)
	if err != nil {
		return fmt.Errorf("validate %s: %w", m.Kind, err)
	}

	m.Metadata = Metadata{
		TrainedAt:    time.Now().UTC(),
		Version:      ArtifactVersion,
		Samples:      len(samples),
		Accuracy:     accuracy,
		ScoreMAE:     mae,
		FeatureNames: m.Columns,
	}

	return nil
}

func (m *KindModel) validate(val []Sample) (float64, float64, error) {
	if len(val) == 0 {
		return 0, 0, nil
	}

	correct := 0
	var absErr float64
	for _, s := range val {
		scaled, err := m.Scaler.Transform(s.Features)
		if err != nil {
			return 0, 0, err
		}

		cls, err := m.Classifier.Predict(scaled)
		if err != nil {
			return 0, 0, err
		}
		if want, ok := statusIndex(s.Status); ok && cls == want {
			correct++
		}

		score, err := m.Regressor.Predict(scaled)
		if err != nil {
			return 0, 0, err
		}
		absErr += math.Abs(clipScore(score) - s.Score)
	}

	n := float64(len(val))
	return float64(correct) / n, absErr / n, nil
}

// stratifiedSplit holds out roughly frac of each status class,
// keeping at least one sample per class in the training set.
func stratifiedSplit(samples []Sample, frac float64, rng *rand.Rand) ([]Sample, []Sample) {
	byStatus := make(map[model.DocumentStatus][]int)
	for i, s := range samples {
		byStatus[s.Status] = append(byStatus[s.Status], i)
	}

	statuses := make([]model.DocumentStatus, 0, len(byStatus))
	for st := range byStatus {
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	var train, val []Sample
	for _, st := range statuses {
		idx := byStatus[st]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		hold := int(float64(len(idx)) * frac)
		if hold >= len(idx) {
			hold = len(idx) - 1
		}
		for k, i := range idx {
			if k < hold {
				val = append(val, samples[i])
			} else {
				train = append(train, samples[i])
			}
		}
	}

	return train, val
}

// Predict scores one extracted feature set. The feature set kind must
// match the kind the model was trained for.
func (m *KindModel) Predict(fs model.FeatureSet) (Prediction, error) {
	if fs.Kind() != m.Kind {
		return Prediction{}, fmt.Errorf("predict: expected %s features, got %s: %w",
			m.Kind, fs.Kind(), ErrDimensionMismatch)
	}
	if m.Scaler == nil {
		return Prediction{}, ErrNotFitted
	}

	scaled, err := m.Scaler.Transform(fs.Vector())
	if err != nil {
		return Prediction{}, err
	}

	probs, err := m.Classifier.PredictProba(scaled)
	if err != nil {
		return Prediction{}, err
	}

	statuses := model.Statuses()
	best := 0
	probMap := make(map[string]float64, len(probs))
	for c, p := range probs {
		probMap[string(statuses[c])] = round4(p)
		if p > probs[best] {
			best = c
		}
	}

	score, err := m.Regressor.Predict(scaled)
	if err != nil {
		return Prediction{}, err
	}

	return Prediction{
		Status:        statuses[best],
		Score:         round2(clipScore(score)),
		Confidence:    round4(probs[best]),
		Probabilities: probMap,
	}, nil
}

func clipScore(s float64) float64 {
	return math.Min(100, math.Max(0, s))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// Registry holds the trained model for each document kind.
type Registry struct {
	mu     sync.RWMutex
	models map[model.DocumentKind]*KindModel
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[model.DocumentKind]*KindModel)}
}

// Put registers a trained model, replacing any existing one for the
// same kind.
func (r *Registry) Put(m *KindModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Kind] = m
}

// Get returns the model for a kind, or ErrModelUnavailable.
func (r *Registry) Get(kind model.DocumentKind) (*KindModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrModelUnavailable)
	}
	return m, nil
}

// Predict dispatches to the model for the feature set's kind.
func (r *Registry) Predict(fs model.FeatureSet) (Prediction, error) {
	m, err := r.Get(fs.Kind())
	if err != nil {
		return Prediction{}, err
	}
	return m.Predict(fs)
}

// Len reports how many kinds have a trained model loaded.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
