package inference

import (
	"fmt"
	"sort"
)

type linearTerm struct {
	index  int
	weight float64
}

type linearLevels struct {
	index  int
	levels map[string]float64
}

// Terms are kept in feature order so the sum is the same on every call.
type linearModel struct {
	intercept float64
	weights   []linearTerm
	levels    []linearLevels
}

func (m *linearModel) score(row []featureValue) float64 {
	sum := m.intercept
	for _, t := range m.weights {
		sum += t.weight * row[t.index].num
	}
	// Unseen categories contribute nothing.
	for _, lv := range m.levels {
		sum += lv.levels[row[lv.index].text]
	}
	return sum
}

func compileLinear(spec *LinearSpec, features []FeatureSpec, index map[string]int) (*linearModel, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: linear model has no coefficients", ErrInvalidArtifact)
	}

	m := &linearModel{
		intercept: spec.Intercept,
		weights:   make([]linearTerm, 0, len(spec.Weights)),
		levels:    make([]linearLevels, 0, len(spec.Levels)),
	}

	for name, w := range spec.Weights {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: weight for undeclared feature %q", ErrInvalidArtifact, name)
		}
		if features[i].Type != FeatureNumeric {
			return nil, fmt.Errorf("%w: weight for categorical feature %q", ErrInvalidArtifact, name)
		}
		m.weights = append(m.weights, linearTerm{index: i, weight: w})
	}

	for name, lv := range spec.Levels {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: levels for undeclared feature %q", ErrInvalidArtifact, name)
		}
		if features[i].Type != FeatureCategorical {
			return nil, fmt.Errorf("%w: levels for numeric feature %q", ErrInvalidArtifact, name)
		}
		m.levels = append(m.levels, linearLevels{index: i, levels: lv})
	}

	sort.Slice(m.weights, func(a, b int) bool { return m.weights[a].index < m.weights[b].index })
	sort.Slice(m.levels, func(a, b int) bool { return m.levels[a].index < m.levels[b].index })

	return m, nil
}
