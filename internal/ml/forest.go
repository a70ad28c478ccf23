package ml

import (
	"math"
	"math/rand/v2"
)

// RandomForest is a bagged ensemble of Gini classification trees.
// Class probabilities are averaged leaf distributions across trees.
type RandomForest struct {
	Trees      []*treeNode `json:"trees"`
	NumClasses int         `json:"num_classes"`

	NumTrees        int `json:"num_trees"`
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// FitForest trains the ensemble on scaled features and encoded class
// labels. Each tree sees a bootstrap sample and sqrt(d) features per
// split. The rng makes training reproducible for a fixed seed.
func (f *RandomForest) Fit(x [][]float64, y []int, rng *rand.Rand) error {
	if len(x) == 0 {
		return ErrEmptyDataset
	}
	if len(x) != len(y) {
		return ErrDimensionMismatch
	}

	maxFeatures := int(math.Ceil(math.Sqrt(float64(len(x[0])))))
	f.Trees = make([]*treeNode, f.NumTrees)

	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.IntN(len(x))
		}

		b := &treeBuilder{
			x:      x,
			yClass: y,
			params: treeParams{
				maxDepth:        f.MaxDepth,
				minSamplesSplit: f.MinSamplesSplit,
				minSamplesLeaf:  f.MinSamplesLeaf,
				maxFeatures:     maxFeatures,
				numClasses:      f.NumClasses,
			},
			rng: rng,
		}
		f.Trees[t] = b.build(idx, 0)
	}

	return nil
}

// PredictProba returns the averaged class distribution for one sample.
func (f *RandomForest) PredictProba(v []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}

	probs := make([]float64, f.NumClasses)
	for _, t := range f.Trees {
		leaf := t.predict(v)
		for c, p := range leaf.Probs {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}

	return probs, nil
}

// Predict returns the majority class index for one sample.
func (f *RandomForest) Predict(v []float64) (int, error) {
	probs, err := f.PredictProba(v)
	if err != nil {
		return 0, err
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, nil
}
