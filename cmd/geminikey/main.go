package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"adjectivemagic/internal/infra"
	"adjectivemagic/internal/providers/genai"
)

// geminikey verifies that a Gemini API key can reach the image model before
// the server is started with it.
func main() {
	infra.LoadDotEnv()

	var (
		keyFlag   string
		modelFlag string
		timeout   time.Duration
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key (fallbacks to GEMINI_API_KEY)")
	flag.StringVar(&modelFlag, "model", "", "model to look up (fallbacks to GEMINI_MODEL, then the default)")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	flag.Parse()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "GEMINI API key is required via -key or environment")
		os.Exit(1)
	}
	model := strings.TrimSpace(modelFlag)
	if model == "" {
		model = strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "geminikey").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := genai.LookupModel(ctx, genai.Options{APIKey: key, Model: model, Timeout: timeout})
	if err != nil {
		logger.Error().Err(err).Msg("gemini api key check failed")
		os.Exit(1)
	}

	logger.Info().
		Str("model", info.Name).
		Str("display_name", info.DisplayName).
		Str("version", info.Version).
		Msg("gemini api key works")
}
