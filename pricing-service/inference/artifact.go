package inference

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

const (
	KindTreeEnsemble = "tree_ensemble"
	KindLinear       = "linear"

	FeatureNumeric     = "numeric"
	FeatureCategorical = "categorical"

	TransformIdentity = "identity"
	TransformLog1p    = "log1p"
)

// Artifact is the on-disk model document.
type Artifact struct {
	Name            string        `json:"name" yaml:"name"`
	Version         string        `json:"version" yaml:"version"`
	Kind            string        `json:"kind" yaml:"kind"`
	Features        []FeatureSpec `json:"features" yaml:"features"`
	BaseScore       float64       `json:"base_score" yaml:"base_score"`
	TargetTransform string        `json:"target_transform,omitempty" yaml:"target_transform,omitempty"`
	Trees           []TreeSpec    `json:"trees,omitempty" yaml:"trees,omitempty"`
	Linear          *LinearSpec   `json:"linear,omitempty" yaml:"linear,omitempty"`
}

type FeatureSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
}

// NodeSpec is either a leaf (Leaf set) or a split on Feature. Numeric splits
// go to Yes when value < Threshold; categorical splits go to Yes when the
// value is one of Categories.
type NodeSpec struct {
	Feature    string   `json:"feature,omitempty" yaml:"feature,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Yes        int      `json:"yes,omitempty" yaml:"yes,omitempty"`
	No         int      `json:"no,omitempty" yaml:"no,omitempty"`
	Leaf       *float64 `json:"leaf,omitempty" yaml:"leaf,omitempty"`
}

type LinearSpec struct {
	Intercept float64                       `json:"intercept" yaml:"intercept"`
	Weights   map[string]float64            `json:"weights" yaml:"weights"`
	Levels    map[string]map[string]float64 `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// Model is a loaded, validated artifact ready for inference.
type Model struct {
	Name    string
	Version string
	Kind    string

	features  []FeatureSpec
	baseScore float64
	transform string
	scorer    scorer
}

// scorer evaluates a resolved row laid out in feature order.
type scorer interface {
	score(row []featureValue) float64
}

type featureValue struct {
	num  float64
	text string
}

// Load reads and validates the model artifact at path. JSON and YAML
// documents are accepted; the format is picked from the file extension.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact Artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &artifact)
	default:
		err = json.Unmarshal(data, &artifact)
	}
	if err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	return NewModel(&artifact)
}

// NewModel validates an artifact and compiles it into a Model.
func NewModel(a *Artifact) (*Model, error) {
	index, err := indexFeatures(a.Features)
	if err != nil {
		return nil, err
	}

	transform := a.TargetTransform
	if transform == "" {
		transform = TransformIdentity
	}
	if transform != TransformIdentity && transform != TransformLog1p {
		return nil, fmt.Errorf("%w: unknown target_transform %q", ErrInvalidArtifact, a.TargetTransform)
	}

	var s scorer
	switch a.Kind {
	case KindTreeEnsemble:
		s, err = compileTrees(a.Trees, a.Features, index)
	case KindLinear:
		s, err = compileLinear(a.Linear, a.Features, index)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Model{
		Name:      a.Name,
		Version:   a.Version,
		Kind:      a.Kind,
		features:  a.Features,
		baseScore: a.BaseScore,
		transform: transform,
		scorer:    s,
	}, nil
}

// Features returns the feature names the model expects, in order.
func (m *Model) Features() []string {
	names := make([]string, len(m.features))
	for i, f := range m.features {
		names[i] = f.Name
	}
	return names
}

// Predict implements Predictor.
func (m *Model) Predict(ctx context.Context, record Record) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	row := make([]featureValue, len(m.features))
	for i, f := range m.features {
		switch f.Type {
		case FeatureNumeric:
			v, err := record.Number(f.Name)
			if err != nil {
				return 0, err
			}
			row[i].num = v
		case FeatureCategorical:
			v, err := record.Text(f.Name)
			if err != nil {
				return 0, err
			}
			row[i].text = v
		}
	}

	raw := m.baseScore + m.scorer.score(row)
	if m.transform == TransformLog1p {
		return math.Expm1(raw), nil
	}
	return raw, nil
}

func indexFeatures(features []FeatureSpec) (map[string]int, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no features declared", ErrInvalidArtifact)
	}

	index := make(map[string]int, len(features))
	for i, f := range features {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: feature %d has no name", ErrInvalidArtifact, i)
		}
		if f.Type != FeatureNumeric && f.Type != FeatureCategorical {
			return nil, fmt.Errorf("%w: feature %q has unknown type %q", ErrInvalidArtifact, f.Name, f.Type)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("%w: feature %q declared twice", ErrInvalidArtifact, f.Name)
		}
		index[f.Name] = i
	}
	return index, nil
}
