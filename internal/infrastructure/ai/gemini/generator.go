// Package gemini generates recipes with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meadcraft/meadery/internal/infrastructure/ai"
	"github.com/meadcraft/meadery/internal/infrastructure/config"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Generator implements outbound.RecipeGenerator on the Gemini API
type Generator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *zap.Logger
}

// NewGenerator creates a Gemini-backed generator
func NewGenerator(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger) (*Generator, error) {
	return newGenerator(ctx, cfg, genai.HTTPOptions{}, logger)
}

func newGenerator(ctx context.Context, cfg *config.AIConfig, httpOptions genai.HTTPOptions, logger *zap.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ai.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(cfg.Temperature)),
	}
	if cfg.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	logger.Info("Gemini generator initialized", zap.String("model", model))

	return &Generator{
		client: client,
		model:  model,
		config: genConfig,
		logger: logger.Named("gemini"),
	}, nil
}

var _ outbound.RecipeGenerator = (*Generator)(nil)

// Name identifies the generator
func (g *Generator) Name() string {
	return "gemini"
}

// Generate asks the model for a recipe and returns its Markdown
func (g *Generator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(ai.BuildPrompt(req), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned no text")
	}

	g.logger.Debug("Gemini response received",
		zap.String("model", g.model),
		zap.Int("length", len(text)))

	return text, nil
}
