package inference

import "fmt"

type treeNode struct {
	leaf  bool
	value float64

	feature     int
	categorical bool
	threshold   float64
	categories  map[string]struct{}
	yes, no     int
}

func (n *treeNode) goesYes(v featureValue) bool {
	if n.categorical {
		_, ok := n.categories[v.text]
		return ok
	}
	return v.num < n.threshold
}

type treeEnsemble struct {
	trees [][]treeNode
}

func (e *treeEnsemble) score(row []featureValue) float64 {
	var sum float64
	for _, nodes := range e.trees {
		i := 0
		for !nodes[i].leaf {
			n := &nodes[i]
			if n.goesYes(row[n.feature]) {
				i = n.yes
			} else {
				i = n.no
			}
		}
		sum += nodes[i].value
	}
	return sum
}

// compileTrees validates tree specs and resolves feature names to row
// offsets. Children must point strictly forward so every walk ends on a leaf.
func compileTrees(specs []TreeSpec, features []FeatureSpec, index map[string]int) (*treeEnsemble, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: tree ensemble has no trees", ErrInvalidArtifact)
	}

	trees := make([][]treeNode, len(specs))
	for t, spec := range specs {
		if len(spec.Nodes) == 0 {
			return nil, fmt.Errorf("%w: tree %d has no nodes", ErrInvalidArtifact, t)
		}

		nodes := make([]treeNode, len(spec.Nodes))
		for i, ns := range spec.Nodes {
			node, err := compileNode(ns, i, len(spec.Nodes), features, index)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", t, err)
			}
			nodes[i] = node
		}
		trees[t] = nodes
	}

	return &treeEnsemble{trees: trees}, nil
}

func compileNode(ns NodeSpec, i, count int, features []FeatureSpec, index map[string]int) (treeNode, error) {
	if ns.Leaf != nil {
		if ns.Feature != "" {
			return treeNode{}, fmt.Errorf("%w: node %d is both leaf and split", ErrInvalidArtifact, i)
		}
		return treeNode{leaf: true, value: *ns.Leaf}, nil
	}

	fi, ok := index[ns.Feature]
	if !ok {
		return treeNode{}, fmt.Errorf("%w: node %d splits on undeclared feature %q", ErrInvalidArtifact, i, ns.Feature)
	}
	if ns.Yes <= i || ns.Yes >= count || ns.No <= i || ns.No >= count {
		return treeNode{}, fmt.Errorf("%w: node %d has children out of range (yes=%d, no=%d)", ErrInvalidArtifact, i, ns.Yes, ns.No)
	}

	node := treeNode{feature: fi, yes: ns.Yes, no: ns.No}
	switch features[fi].Type {
	case FeatureNumeric:
		if ns.Threshold == nil || len(ns.Categories) > 0 {
			return treeNode{}, fmt.Errorf("%w: node %d on numeric feature %q needs a threshold", ErrInvalidArtifact, i, ns.Feature)
		}
		node.threshold = *ns.Threshold
	case FeatureCategorical:
		if len(ns.Categories) == 0 || ns.Threshold != nil {
			return treeNode{}, fmt.Errorf("%w: node %d on categorical feature %q needs categories", ErrInvalidArtifact, i, ns.Feature)
		}
		node.categorical = true
		node.categories = make(map[string]struct{}, len(ns.Categories))
		for _, c := range ns.Categories {
			node.categories[c] = struct{}{}
		}
	}
	return node, nil
}
