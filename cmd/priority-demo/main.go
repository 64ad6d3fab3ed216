// README: Classifies request texts with the configured priority predictor.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"medidrop/internal/ai"
	"medidrop/internal/config"
)

func main() {
	kind := flag.String("predictor", envOrDefault("MEDIDROP_PREDICTOR", config.PredictorModel), "model or gemini")
	modelPath := flag.String("model", envOrDefault("MEDIDROP_MODEL_PATH", "models/priority_model.json"), "model file")
	flag.Parse()

	if *kind == config.PredictorGemini && os.Getenv("GEMINI_API_KEY") == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	predictor, closeFn, err := ai.NewFromConfig(ctx, config.PredictorConfig{
		Kind:        *kind,
		ModelPath:   *modelPath,
		GeminiModel: envOrDefault("MEDIDROP_GEMINI_MODEL", "gemini-2.0-flash"),
	}, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to initialize predictor: %v", err)
	}
	defer closeFn()

	texts := flag.Args()
	if len(texts) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				texts = append(texts, line)
			}
		}
	}

	fmt.Printf("Labels: %s\n", strings.Join(predictor.Labels(), ", "))
	for _, text := range texts {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		label, err := predictor.Predict(callCtx, strings.ToLower(text))
		cancel()
		if err != nil {
			fmt.Printf("%-8s %s (%v)\n", "ERROR", text, err)
			continue
		}
		fmt.Printf("%-8s %s\n", label, text)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
