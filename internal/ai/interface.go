package ai

import (
	"context"
	"errors"
)

var (
	ErrModelNotLoaded = errors.New("priority model not loaded")
	ErrUnknownLabel   = errors.New("predictor returned an unknown label")
)

// PriorityPredictor classifies a request text into a priority label.
// Implementations expect lowercased text.
type PriorityPredictor interface {
	Predict(ctx context.Context, text string) (string, error)
	Labels() []string
}
