package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"medidrop/internal/config"
)

const tinyModel = `{
  "labels": ["High", "Low"],
  "log_priors": {"High": -0.693147, "Low": -0.693147},
  "log_likelihoods": {
    "High": {"urgent": -1.0, "blood": -1.2},
    "Low":  {"routine": -1.0, "gloves": -1.2}
  },
  "unknown_log_prob": {"High": -5.0, "Low": -5.0}
}`

func writeModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestModelPredictor_PredictBeforeLoad(t *testing.T) {
	p := NewModelPredictor(writeModel(t, tinyModel))
	if _, err := p.Predict(context.Background(), "urgent blood"); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestModelPredictor_Argmax(t *testing.T) {
	p := NewModelPredictor(writeModel(t, tinyModel))
	if err := p.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	cases := map[string]string{
		"urgent blood for surgery": "High",
		"routine gloves":           "Low",
		"URGENT!!":                 "High",
		// all tokens unknown: equal scores, first label wins
		"paper forms": "High",
		"":            "High",
	}
	for text, want := range cases {
		got, err := p.Predict(context.Background(), text)
		if err != nil {
			t.Fatalf("predict %q: %v", text, err)
		}
		if got != want {
			t.Errorf("Predict(%q) = %s, want %s", text, got, want)
		}
	}
	if !reflect.DeepEqual(p.Labels(), []string{"High", "Low"}) {
		t.Errorf("labels = %v", p.Labels())
	}
}

func TestModelPredictor_LoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":        `{"labels":`,
		"no labels":       `{"labels": []}`,
		"missing prior":   `{"labels": ["High"], "unknown_log_prob": {"High": -1}}`,
		"missing unknown": `{"labels": ["High"], "log_priors": {"High": -1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if err := NewModelPredictor(writeModel(t, body)).Load(); err == nil {
				t.Fatal("expected load error")
			}
		})
	}

	if err := NewModelPredictor(filepath.Join(t.TempDir(), "missing.json")).Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestModelPredictor_ShippedModel(t *testing.T) {
	p := NewModelPredictor(filepath.Join("..", "..", "models", "priority_model.json"))
	if err := p.Load(); err != nil {
		t.Fatalf("load shipped model: %v", err)
	}
	cases := map[string]string{
		"urgent blood needed":       "High",
		"routine restock of gloves": "Low",
		"antibiotics for patients":  "Medium",
	}
	for text, want := range cases {
		if got, _ := p.Predict(context.Background(), text); got != want {
			t.Errorf("Predict(%q) = %s, want %s", text, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Need 2 O-negative BLOOD units, ASAP!")
	want := []string{"need", "2", "o", "negative", "blood", "units", "asap"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestParsePriority(t *testing.T) {
	labels := []string{"High", "Medium", "Low"}
	cases := []struct {
		raw  string
		want string
		err  bool
	}{
		{`{"priority":"High"}`, "High", false},
		{"```json\n{\"priority\": \"low\"}\n```", "Low", false},
		{`{"priority":"Critical"}`, "", true},
		{`not json`, "", true},
	}
	for _, tc := range cases {
		got, err := parsePriority(tc.raw, labels)
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("parsePriority(%q) = %q, %v", tc.raw, got, err)
		}
	}
}

func TestNewFromConfig_Model(t *testing.T) {
	p, closeFn, err := NewFromConfig(context.Background(), config.PredictorConfig{
		Kind:      config.PredictorModel,
		ModelPath: writeModel(t, tinyModel),
	}, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer closeFn()
	if got, _ := p.Predict(context.Background(), "routine gloves"); got != "Low" {
		t.Errorf("Predict = %s, want Low", got)
	}

	if _, _, err := NewFromConfig(context.Background(), config.PredictorConfig{Kind: "oracle"}, ""); err == nil {
		t.Error("expected error for unknown predictor kind")
	}
	if _, _, err := NewFromConfig(context.Background(), config.PredictorConfig{Kind: config.PredictorModel, ModelPath: "missing.json"}, ""); err == nil {
		t.Error("expected load error")
	}
}
