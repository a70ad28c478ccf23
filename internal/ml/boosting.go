package ml

// GradientBoosting is a stagewise ensemble of regression trees fitted
// to the residuals of the running prediction.
type GradientBoosting struct {
	Trees        []*treeNode `json:"trees"`
	InitValue    float64     `json:"init_value"`
	LearningRate float64     `json:"learning_rate"`

	NumStages       int `json:"num_stages"`
	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
}

// Fit trains the ensemble on scaled features and continuous targets.
// Training is deterministic: every stage sees all samples and all
// features.
func (g *GradientBoosting) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return ErrEmptyDataset
	}
	if len(x) != len(y) {
		return ErrDimensionMismatch
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	g.InitValue = sum / float64(len(y))

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = g.InitValue
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	residual := make([]float64, len(y))
	g.Trees = make([]*treeNode, 0, g.NumStages)

	for stage := 0; stage < g.NumStages; stage++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}

		b := &treeBuilder{
			x:    x,
			yReg: residual,
			params: treeParams{
				maxDepth:        g.MaxDepth,
				minSamplesSplit: g.MinSamplesSplit,
				minSamplesLeaf:  g.MinSamplesLeaf,
			},
		}
		tree := b.build(idx, 0)
		g.Trees = append(g.Trees, tree)

		for i := range pred {
			pred[i] += g.LearningRate * tree.predict(x[i]).Value
		}
	}

	return nil
}

// Predict returns the boosted estimate for one sample.
func (g *GradientBoosting) Predict(v []float64) (float64, error) {
	if len(g.Trees) == 0 {
		return 0, ErrNotFitted
	}

	out := g.InitValue
	for _, t := range g.Trees {
		out += g.LearningRate * t.predict(v).Value
	}
	return out, nil
}
