package genai

import (
	"context"
	"fmt"
	"strings"
)

// ModelInfo is what the API reports about a model.
type ModelInfo struct {
	Name        string
	DisplayName string
	Version     string
}

// LookupModel fetches the metadata of opts.Model (DefaultModel when empty).
// It is a cheap way to prove an API key works without generating anything.
func LookupModel(ctx context.Context, opts Options) (*ModelInfo, error) {
	sdk, err := newSDK(ctx, opts)
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	m, err := sdk.Models.Get(ctx, model, nil)
	if err != nil {
		return nil, fmt.Errorf("genai: get model %s: %w", model, err)
	}
	return &ModelInfo{Name: m.Name, DisplayName: m.DisplayName, Version: m.Version}, nil
}
