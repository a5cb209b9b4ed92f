// Package forest implements the bagged decision-tree ensemble predicting
// the hospitalization label, with the split controls the tuning stage
// searches over, impurity-based feature importances, and durable model
// bundles.
package forest

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted decision tree. Exported fields keep
// the structure gob-encodable for model bundles.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Leaf      bool
	Prob      float64 // fraction of positive samples reaching the leaf
}

// Tree is a single CART classifier using Gini impurity splits.
type Tree struct {
	Root *TreeNode
}

// treeParams carries the split controls during building.
type treeParams struct {
	maxDepth        int // 0 = unbounded
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	numFeatures     int
	rng             *rand.Rand
	importances     []float64 // accumulated weighted impurity decrease
	totalSamples    int
}

// buildTree fits a tree on the sample rows at indices.
func buildTree(X [][]float64, y []int, indices []int, params *treeParams) *Tree {
	return &Tree{Root: growNode(X, y, indices, 0, params)}
}

func growNode(X [][]float64, y []int, indices []int, depth int, params *treeParams) *TreeNode {
	positives := 0
	for _, idx := range indices {
		positives += y[idx]
	}
	prob := float64(positives) / float64(len(indices))

	if prob == 0 || prob == 1 ||
		len(indices) < params.minSamplesSplit ||
		(params.maxDepth > 0 && depth >= params.maxDepth) {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	split, ok := bestSplit(X, y, indices, params)
	if !ok {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	weight := float64(len(indices)) / float64(params.totalSamples)
	params.importances[split.feature] += weight * split.decrease

	return &TreeNode{
		Feature:   split.feature,
		Threshold: split.threshold,
		Left:      growNode(X, y, split.left, depth+1, params),
		Right:     growNode(X, y, split.right, depth+1, params),
	}
}

type splitCandidate struct {
	feature   int
	threshold float64
	decrease  float64
	left      []int
	right     []int
}

// bestSplit searches a random feature subset for the Gini-optimal
// threshold honoring the min-samples-per-leaf constraint.
func bestSplit(X [][]float64, y []int, indices []int, params *treeParams) (splitCandidate, bool) {
	parentGini := giniOf(y, indices)

	var best splitCandidate
	found := false

	for _, feature := range sampleFeatures(params) {
		ordered := append([]int(nil), indices...)
		sort.Slice(ordered, func(a, b int) bool {
			return X[ordered[a]][feature] < X[ordered[b]][feature]
		})

		total := len(ordered)
		totalPos := 0
		for _, idx := range ordered {
			totalPos += y[idx]
		}

		leftPos := 0
		for i := 1; i < total; i++ {
			leftPos += y[ordered[i-1]]

			prev := X[ordered[i-1]][feature]
			cur := X[ordered[i]][feature]
			if prev == cur {
				continue
			}
			if i < params.minSamplesLeaf || total-i < params.minSamplesLeaf {
				continue
			}

			left := float64(i)
			right := float64(total - i)
			giniLeft := binaryGini(float64(leftPos), left)
			giniRight := binaryGini(float64(totalPos-leftPos), right)
			weighted := (left*giniLeft + right*giniRight) / float64(total)
			decrease := parentGini - weighted

			if !found || decrease > best.decrease {
				found = true
				best = splitCandidate{
					feature:   feature,
					threshold: (prev + cur) / 2,
					decrease:  decrease,
					left:      append([]int(nil), ordered[:i]...),
					right:     append([]int(nil), ordered[i:]...),
				}
			}
		}
	}

	if !found || best.decrease <= 0 {
		return splitCandidate{}, false
	}
	return best, true
}

// sampleFeatures draws maxFeatures distinct feature indices.
func sampleFeatures(params *treeParams) []int {
	if params.maxFeatures >= params.numFeatures {
		all := make([]int, params.numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return params.rng.Perm(params.numFeatures)[:params.maxFeatures]
}

func giniOf(y []int, indices []int) float64 {
	positives := 0
	for _, idx := range indices {
		positives += y[idx]
	}
	return binaryGini(float64(positives), float64(len(indices)))
}

// binaryGini computes 1 - p^2 - (1-p)^2 for pos positives of n samples.
func binaryGini(pos, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := pos / n
	return 1 - p*p - (1-p)*(1-p)
}

// predict walks the tree and returns the leaf's positive probability.
func (t *Tree) predict(x []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}
