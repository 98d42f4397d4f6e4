// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider embeds text through the Gemini API. The API key is taken
// from the GEMINI_API_KEY environment variable by the client itself.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider builds the provider for the configured embedding model.
func NewGeminiProvider(ctx context.Context, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Embed returns the embedding vector for the given text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := p.client.Models.EmbedContent(ctx, p.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed call failed: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embedding: provider returned no vector")
	}
	return result.Embeddings[0].Values, nil
}
