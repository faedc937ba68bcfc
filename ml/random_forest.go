package ml

import (
	"context"
	"errors"
	"fmt"
)

// RandomForest averages the output vectors of its regression trees.
type RandomForest struct {
	Features []string         `json:"features"`
	Trees    []RegressionTree `json:"trees"`
}

// RegressionTree stores its nodes flattened; node 0 is the root.
type RegressionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value,omitempty"`
	IsLeaf     bool      `json:"is_leaf"`
}

func (rf *RandomForest) Predict(ctx context.Context, rows []map[string]float64) ([][]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("model not loaded")
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := rowVector(rf.Features, row)
		if err != nil {
			return nil, err
		}
		var sum []float64
		for t := range rf.Trees {
			leaf, err := rf.Trees[t].predict(x)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", t, err)
			}
			if sum == nil {
				sum = make([]float64, len(leaf))
			}
			for k, v := range leaf {
				sum[k] += v
			}
		}
		for k := range sum {
			sum[k] /= float64(len(rf.Trees))
		}
		out[i] = sum
	}
	return out, nil
}

func (rf *RandomForest) Load(path string) error {
	var model RandomForest
	if err := readArtifact(path, &model); err != nil {
		return err
	}
	if err := model.validate(); err != nil {
		return err
	}
	*rf = model
	return nil
}

func (rf *RandomForest) validate() error {
	if err := validateFeatures(rf.Features); err != nil {
		return err
	}
	if len(rf.Trees) == 0 {
		return errors.New("artifact has no trees")
	}
	outputs := -1
	for t, tree := range rf.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", t)
		}
		for i, node := range tree.Nodes {
			if node.IsLeaf {
				if len(node.Value) == 0 {
					return fmt.Errorf("tree %d leaf %d has no value", t, i)
				}
				if outputs == -1 {
					outputs = len(node.Value)
				} else if len(node.Value) != outputs {
					return fmt.Errorf("tree %d leaf %d has %d outputs, want %d", t, i, len(node.Value), outputs)
				}
				continue
			}
			if node.FeatureIdx < 0 || node.FeatureIdx >= len(rf.Features) {
				return fmt.Errorf("tree %d node %d: feature index out of range", t, i)
			}
			if !validChild(node.LeftChild, i, len(tree.Nodes)) || !validChild(node.RightChild, i, len(tree.Nodes)) {
				return fmt.Errorf("tree %d node %d: invalid child index", t, i)
			}
		}
	}
	return nil
}

// validChild requires children to follow their parent, which rules out
// cycles in the flattened layout.
func validChild(child, parent, count int) bool {
	return child > parent && child < count
}

func (rt *RegressionTree) predict(features []float64) ([]float64, error) {
	idx := 0
	for {
		node := rt.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(rt.Nodes) {
			return nil, errors.New("invalid tree state")
		}
	}
}
