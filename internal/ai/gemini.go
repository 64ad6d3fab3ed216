package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiPredictor classifies priority with a Gemini model, constrained to a
// fixed label set.
type GeminiPredictor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	labels []string
}

// NewGeminiPredictor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiPredictor(ctx context.Context, apiKey, modelName string, labels []string) (*GeminiPredictor, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("gemini predictor needs at least one label")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)

	return &GeminiPredictor{
		client: client,
		model:  model,
		labels: append([]string(nil), labels...),
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiPredictor) Close() {
	p.client.Close()
}

func (p *GeminiPredictor) Labels() []string {
	return append([]string(nil), p.labels...)
}

func (p *GeminiPredictor) Predict(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nRequest: %s", buildPriorityPrompt(p.labels), text)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return parsePriority(out.String(), p.labels)
}

func buildPriorityPrompt(labels []string) string {
	return fmt.Sprintf(`Role: You triage medical-supply delivery requests for a regional dispatch hub.
Classify the urgency of the request into exactly one of: %s.
Life-threatening shortages (blood, oxygen, antivenom, insulin for a patient in crisis) are the highest class.
Routine restocking is the lowest class.

Output JSON Schema:
{"priority": "<one of the labels above>"}
`, strings.Join(labels, ", "))
}

// parsePriority extracts the label from the model's JSON answer. Matching is
// case-insensitive but the canonical label spelling is returned.
func parsePriority(raw string, labels []string) (string, error) {
	var body struct {
		Priority string `json:"priority"`
	}
	clean := cleanJSONString(raw)
	if err := json.Unmarshal([]byte(clean), &body); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, clean)
	}
	for _, l := range labels {
		if strings.EqualFold(strings.TrimSpace(body.Priority), l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, body.Priority)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
