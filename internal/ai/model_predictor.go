package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"
)

// ModelPredictor serves a ModelFile loaded from disk. Load must succeed
// before Predict is called.
type ModelPredictor struct {
	path string

	mu    sync.RWMutex
	model *ModelFile
}

func NewModelPredictor(path string) *ModelPredictor {
	return &ModelPredictor{path: path}
}

// Load reads and validates the model file, replacing any previously loaded model.
func (p *ModelPredictor) Load() error {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read model %s: %w", p.path, err)
	}
	var m ModelFile
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode model %s: %w", p.path, err)
	}
	if err := m.validate(); err != nil {
		return fmt.Errorf("invalid model %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.model = &m
	p.mu.Unlock()
	return nil
}

func (m *ModelFile) validate() error {
	if len(m.Labels) == 0 {
		return fmt.Errorf("no labels")
	}
	for _, l := range m.Labels {
		if _, ok := m.LogPriors[l]; !ok {
			return fmt.Errorf("missing prior for %q", l)
		}
		if _, ok := m.UnknownLogProb[l]; !ok {
			return fmt.Errorf("missing unknown-token probability for %q", l)
		}
	}
	return nil
}

func (p *ModelPredictor) Labels() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return nil
	}
	return append([]string(nil), p.model.Labels...)
}

// Predict returns the label with the highest posterior. Ties go to the label
// listed first in the model.
func (p *ModelPredictor) Predict(_ context.Context, text string) (string, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m == nil {
		return "", ErrModelNotLoaded
	}

	tokens := Tokenize(text)
	best, bestScore := "", math.Inf(-1)
	for _, label := range m.Labels {
		score := m.LogPriors[label]
		likelihoods := m.LogLikelihoods[label]
		for _, tok := range tokens {
			if lp, ok := likelihoods[tok]; ok {
				score += lp
			} else {
				score += m.UnknownLogProb[label]
			}
		}
		if score > bestScore {
			best, bestScore = label, score
		}
	}
	if best == "" {
		best = m.Labels[0]
	}
	return best, nil
}

// Tokenize lowercases text and splits it into letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
