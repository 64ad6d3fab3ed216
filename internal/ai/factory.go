package ai

import (
	"context"
	"fmt"

	"medidrop/internal/config"
)

var defaultLabels = []string{"High", "Medium", "Low"}

// NewFromConfig builds the configured predictor. The returned close func
// releases provider clients and is always non-nil.
func NewFromConfig(ctx context.Context, cfg config.PredictorConfig, geminiKey string) (PriorityPredictor, func(), error) {
	switch cfg.Kind {
	case config.PredictorGemini:
		labels := defaultLabels
		local := NewModelPredictor(cfg.ModelPath)
		if err := local.Load(); err == nil {
			labels = local.Labels()
		}
		p, err := NewGeminiPredictor(ctx, geminiKey, cfg.GeminiModel, labels)
		if err != nil {
			return nil, func() {}, err
		}
		return p, p.Close, nil
	case config.PredictorModel, "":
		p := NewModelPredictor(cfg.ModelPath)
		if err := p.Load(); err != nil {
			return nil, func() {}, err
		}
		return p, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown predictor %q", cfg.Kind)
	}
}
