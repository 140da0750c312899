// Package inference loads serialized price models and evaluates them
// against single feature records.
package inference

import (
	"context"
	"errors"
	"fmt"
)

// Predictor scores one record. Implementations must be safe for concurrent
// use once constructed.
type Predictor interface {
	Predict(ctx context.Context, record Record) (float64, error)
}

var (
	// ErrMissingFeature is returned when a record lacks a feature the model expects.
	ErrMissingFeature = errors.New("missing feature")

	// ErrFeatureType is returned when a record holds a feature with the wrong kind of value.
	ErrFeatureType = errors.New("feature type mismatch")

	// ErrInvalidArtifact is returned when a model document fails structural validation.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Record is a flat single-row input keyed by human-readable feature names.
type Record struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

func NewRecord() Record {
	return Record{
		Numeric:     make(map[string]float64),
		Categorical: make(map[string]string),
	}
}

func (r Record) SetNumber(name string, v float64) {
	r.Numeric[name] = v
}

func (r Record) SetText(name, v string) {
	r.Categorical[name] = v
}

// Number returns the numeric value stored under name.
func (r Record) Number(name string) (float64, error) {
	if v, ok := r.Numeric[name]; ok {
		return v, nil
	}
	if _, ok := r.Categorical[name]; ok {
		return 0, fmt.Errorf("feature %q: %w: expected number, got text", name, ErrFeatureType)
	}
	return 0, fmt.Errorf("feature %q: %w", name, ErrMissingFeature)
}

// Text returns the categorical value stored under name.
func (r Record) Text(name string) (string, error) {
	if v, ok := r.Categorical[name]; ok {
		return v, nil
	}
	if _, ok := r.Numeric[name]; ok {
		return "", fmt.Errorf("feature %q: %w: expected text, got number", name, ErrFeatureType)
	}
	return "", fmt.Errorf("feature %q: %w", name, ErrMissingFeature)
}

// Len reports how many features the record carries.
func (r Record) Len() int {
	return len(r.Numeric) + len(r.Categorical)
}
