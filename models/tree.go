package models

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyTree    = errors.New("tree has no nodes")
	ErrInvalidChild = errors.New("tree child index must point after its parent and within the tree")
	ErrSharedNode   = errors.New("tree node referenced by more than one parent")
	ErrOrphanNode   = errors.New("tree node not reachable from the root")
	ErrInvalidSplit = errors.New("tree split feature out of range")
	ErrTreeTooDeep  = errors.New("tree exceeds max depth")
	ErrTooManyTrees = errors.New("ensemble has more trees than estimators")
	ErrMissingChild = errors.New("tree split is missing a child")
)

// Node is a single split or leaf of a regression tree. A node with no children is
// a leaf. A split sends a row left when row[Feature] < Threshold, otherwise right.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Leaf      float64 `json:"leaf,omitempty"`
}

// IsLeaf reports whether the node terminates a path. The root is node 0 so no child
// index can be 0.
func (n Node) IsLeaf() bool {
	return n.Left == 0 && n.Right == 0
}

// Tree is a flattened regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Depth returns the number of splits on the longest root to leaf path. The tree must be
// valid.
func (t Tree) Depth() int {
	depth := make([]int, len(t.Nodes))
	var maxDepth int
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			maxDepth = max(maxDepth, depth[i])
			continue
		}
		depth[n.Left] = depth[i] + 1
		depth[n.Right] = depth[i] + 1
	}
	return maxDepth
}

func (t Tree) validate(nFeatures, maxDepth int) error {
	if len(t.Nodes) == 0 {
		return ErrEmptyTree
	}

	parents := make([]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			if math.IsNaN(n.Leaf) || math.IsInf(n.Leaf, 0) {
				return fmt.Errorf("leaf at node %d, %w", i, ErrNonFiniteParameter)
			}
			continue
		}
		if n.Left == 0 || n.Right == 0 {
			return fmt.Errorf("node %d, %w", i, ErrMissingChild)
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d, %w", i, n.Feature, nFeatures, ErrInvalidSplit)
		}
		if math.IsNaN(n.Threshold) {
			return fmt.Errorf("threshold at node %d, %w", i, ErrNonFiniteParameter)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has child %d with %d nodes, %w", i, child, len(t.Nodes), ErrInvalidChild)
			}
			parents[child]++
			if parents[child] > 1 {
				return fmt.Errorf("node %d, %w", child, ErrSharedNode)
			}
		}
	}
	for i := 1; i < len(parents); i++ {
		if parents[i] == 0 {
			return fmt.Errorf("node %d, %w", i, ErrOrphanNode)
		}
	}

	if depth := t.Depth(); depth > maxDepth {
		return fmt.Errorf("depth %d greater than %d, %w", depth, maxDepth, ErrTreeTooDeep)
	}
	return nil
}

func (t Tree) predict(row []float64) float64 {
	var i int
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Leaf
		}
		if row[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// TreeEnsembleModel is the serializable form of a TreeEnsemble
type TreeEnsembleModel struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
}

// TreeEnsemble sums the leaf values of boosted regression trees on top of a base score.
type TreeEnsemble struct {
	opt       *TreeOptions
	nFeatures int
	baseScore float64
	trees     []Tree
}

// NewTreeEnsemble initializes an ensemble with no trees. It predicts the default base
// score for every row.
func NewTreeEnsemble(opt *TreeOptions, nFeatures int) (*TreeEnsemble, error) {
	return NewTreeEnsembleFromModel(opt, nFeatures, TreeEnsembleModel{BaseScore: DefaultBaseScore})
}

// NewTreeEnsembleFromModel validates every tree against the options and the number of
// input features.
func NewTreeEnsembleFromModel(opt *TreeOptions, nFeatures int, model TreeEnsembleModel) (*TreeEnsemble, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if nFeatures <= 0 {
		return nil, ErrNoFeatures
	}
	if math.IsNaN(model.BaseScore) || math.IsInf(model.BaseScore, 0) {
		return nil, fmt.Errorf("base score, %w", ErrNonFiniteParameter)
	}
	if len(model.Trees) > opt.Estimators {
		return nil, fmt.Errorf("got %d trees, expected at most %d, %w", len(model.Trees), opt.Estimators, ErrTooManyTrees)
	}
	for i, tree := range model.Trees {
		if err := tree.validate(nFeatures, opt.MaxDepth); err != nil {
			return nil, fmt.Errorf("tree %d, %w", i, err)
		}
	}

	trees := make([]Tree, len(model.Trees))
	for i, tree := range model.Trees {
		nodes := make([]Node, len(tree.Nodes))
		copy(nodes, tree.Nodes)
		trees[i] = Tree{Nodes: nodes}
	}

	return &TreeEnsemble{
		opt:       opt,
		nFeatures: nFeatures,
		baseScore: model.BaseScore,
		trees:     trees,
	}, nil
}

// Predict using the tree ensemble. A zero value TreeEnsemble has no options and
// returns ErrNoOptions.
func (e *TreeEnsemble) Predict(x mat.Matrix) ([]float64, error) {
	if e.opt == nil {
		return nil, ErrNoOptions
	}
	m, err := checkDesignMatrix(x, e.nFeatures)
	if err != nil {
		return nil, err
	}

	res := make([]float64, m)
	row := make([]float64, e.nFeatures)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		val := e.baseScore
		for _, tree := range e.trees {
			val += tree.predict(row)
		}
		res[i] = val
	}
	return res, nil
}

// Fitted reports whether the ensemble holds any trees
func (e *TreeEnsemble) Fitted() bool {
	return len(e.trees) > 0
}

func (e *TreeEnsemble) Options() *TreeOptions {
	return e.opt
}

func (e *TreeEnsemble) BaseScore() float64 {
	return e.baseScore
}

func (e *TreeEnsemble) NumTrees() int {
	return len(e.trees)
}

// Model returns a copy of the ensemble parameters for serialization
func (e *TreeEnsemble) Model() RegressorModel {
	trees := make([]Tree, len(e.trees))
	for i, tree := range e.trees {
		nodes := make([]Node, len(tree.Nodes))
		copy(nodes, tree.Nodes)
		trees[i] = Tree{Nodes: nodes}
	}
	return RegressorModel{
		Type: RegressorTypeTreeEnsemble,
		TreeEnsemble: &TreeEnsembleModel{
			BaseScore: e.baseScore,
			Trees:     trees,
		},
	}
}

// TablePrint writes a per tree summary of the ensemble
func (e *TreeEnsemble) TablePrint(w io.Writer, prefix, indent string) error {
	if err := e.opt.TablePrint(w, prefix, indent); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%sBase Score: %.3f    Trees: %d\n", prefix, e.baseScore, len(e.trees)); err != nil {
		return err
	}
	if len(e.trees) == 0 {
		return nil
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sTree\tNodes\tDepth\t\n", prefix, indent); err != nil {
		return err
	}
	for i, tree := range e.trees {
		if _, err := fmt.Fprintf(tbl, "%s%s%d\t%d\t%d\t\n", prefix, indent, i, len(tree.Nodes), tree.Depth()); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
