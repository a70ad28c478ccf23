package ml

import (
	"math"
	"math/rand/v2"
	"sort"
)

// treeNode is a single node of a CART decision tree. Internal nodes
// route on Feature <= Threshold; leaves hold either a class
// distribution or a regression value.
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Value     float64   `json:"value,omitempty"`
	Probs     []float64 `json:"probs,omitempty"`
}

// treeParams controls tree growth. NumClasses > 0 selects Gini
// classification; zero selects variance-reduction regression.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	numClasses      int
}

type treeBuilder struct {
	x      [][]float64
	yClass []int
	yReg   []float64
	params treeParams
	rng    *rand.Rand
}

func (b *treeBuilder) build(idx []int, depth int) *treeNode {
	if depth >= b.params.maxDepth || len(idx) < b.params.minSamplesSplit || b.isPure(idx) {
		return b.leaf(idx)
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return b.leaf(idx)
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.params.minSamplesLeaf || len(right) < b.params.minSamplesLeaf {
		return b.leaf(idx)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) isPure(idx []int) bool {
	if b.params.numClasses > 0 {
		first := b.yClass[idx[0]]
		for _, i := range idx[1:] {
			if b.yClass[i] != first {
				return false
			}
		}
		return true
	}

	first := b.yReg[idx[0]]
	for _, i := range idx[1:] {
		if b.yReg[i] != first {
			return false
		}
	}
	return true
}

func (b *treeBuilder) leaf(idx []int) *treeNode {
	if b.params.numClasses > 0 {
		probs := make([]float64, b.params.numClasses)
		for _, i := range idx {
			probs[b.yClass[i]]++
		}
		total := float64(len(idx))
		for c := range probs {
			probs[c] /= total
		}
		return &treeNode{Leaf: true, Probs: probs}
	}

	var sum float64
	for _, i := range idx {
		sum += b.yReg[i]
	}
	return &treeNode{Leaf: true, Value: sum / float64(len(idx))}
}

// bestSplit scans the candidate features for the threshold with the
// highest impurity reduction. Thresholds are midpoints between
// consecutive distinct values in sorted order.
func (b *treeBuilder) bestSplit(idx []int) (int, float64, bool) {
	features := b.candidateFeatures()

	bestScore := math.Inf(1)
	bestFeature := -1
	var bestThreshold float64

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool {
			return b.x[sorted[a]][f] < b.x[sorted[c]][f]
		})

		score, threshold, ok := b.scanSplits(sorted, f)
		if ok && score < bestScore {
			bestScore = score
			bestFeature = f
			bestThreshold = threshold
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) candidateFeatures() []int {
	total := len(b.x[0])
	if b.params.maxFeatures <= 0 || b.params.maxFeatures >= total || b.rng == nil {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}

	perm := b.rng.Perm(total)
	return perm[:b.params.maxFeatures]
}

// scanSplits walks a feature-sorted index slice once, maintaining
// running left-side statistics, and returns the weighted impurity of
// the best valid cut along with its threshold.
func (b *treeBuilder) scanSplits(sorted []int, f int) (float64, float64, bool) {
	n := len(sorted)
	minLeaf := b.params.minSamplesLeaf

	bestScore := math.Inf(1)
	var bestThreshold float64
	found := false

	if b.params.numClasses > 0 {
		leftCounts := make([]float64, b.params.numClasses)
		rightCounts := make([]float64, b.params.numClasses)
		for _, i := range sorted {
			rightCounts[b.yClass[i]]++
		}

		for pos := 1; pos < n; pos++ {
			c := b.yClass[sorted[pos-1]]
			leftCounts[c]++
			rightCounts[c]--

			prev, cur := b.x[sorted[pos-1]][f], b.x[sorted[pos]][f]
			if prev == cur || pos < minLeaf || n-pos < minLeaf {
				continue
			}

			score := weightedGini(leftCounts, float64(pos)) + weightedGini(rightCounts, float64(n-pos))
			if score < bestScore {
				bestScore = score
				bestThreshold = (prev + cur) / 2
				found = true
			}
		}
		return bestScore, bestThreshold, found
	}

	var leftSum, leftSq, rightSum, rightSq float64
	for _, i := range sorted {
		v := b.yReg[i]
		rightSum += v
		rightSq += v * v
	}

	for pos := 1; pos < n; pos++ {
		v := b.yReg[sorted[pos-1]]
		leftSum += v
		leftSq += v * v
		rightSum -= v
		rightSq -= v * v

		prev, cur := b.x[sorted[pos-1]][f], b.x[sorted[pos]][f]
		if prev == cur || pos < minLeaf || n-pos < minLeaf {
			continue
		}

		nl, nr := float64(pos), float64(n-pos)
		score := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
		if score < bestScore {
			bestScore = score
			bestThreshold = (prev + cur) / 2
			found = true
		}
	}
	return bestScore, bestThreshold, found
}

// weightedGini returns n * gini for a side so that summing the two
// sides compares splits without dividing by the parent size.
func weightedGini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for _, c := range counts {
		p := c / n
		sumSq += p * p
	}
	return n * (1 - sumSq)
}

func (t *treeNode) predict(v []float64) *treeNode {
	node := t
	for !node.Leaf {
		if v[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}
