// Package ollama generates recipes with a local Ollama server
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meadcraft/meadery/internal/infrastructure/ai"
	"github.com/meadcraft/meadery/internal/infrastructure/config"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2:3b"
)

// Generator implements outbound.RecipeGenerator using the Ollama chat API
type Generator struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *zap.Logger
}

// ChatMessage is one turn of an Ollama chat
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ChatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// ChatResponse is a non-streamed /api/chat response
type ChatResponse struct {
	Model        string      `json:"model"`
	Message      ChatMessage `json:"message"`
	Done         bool        `json:"done"`
	EvalCount    int         `json:"eval_count,omitempty"`
	EvalDuration int64       `json:"eval_duration,omitempty"`
}

// NewGenerator creates an Ollama generator. A model name that does not look
// like an Ollama tag falls back to the default local model.
func NewGenerator(cfg *config.AIConfig, logger *zap.Logger) *Generator {
	baseURL := strings.TrimRight(cfg.OllamaHost, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	logger.Info("Ollama generator initialized",
		zap.String("base_url", baseURL),
		zap.String("model", model),
		zap.Duration("timeout", timeout))

	return &Generator{
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: timeout},
		logger:      logger.Named("ollama"),
	}
}

var _ outbound.RecipeGenerator = (*Generator)(nil)

// Name identifies the generator
func (g *Generator) Name() string {
	return "ollama"
}

// HealthCheck verifies the Ollama server is reachable
func (g *Generator) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// Generate sends the prompt to /api/chat and returns the message content
func (g *Generator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	options := map[string]interface{}{
		"temperature": g.temperature,
	}
	if g.maxTokens > 0 {
		options["num_predict"] = g.maxTokens
	}

	body, err := json.Marshal(ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: ai.SystemInstruction},
			{Role: "user", Content: ai.BuildPrompt(req)},
		},
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var chat ChatResponse
	if err := json.Unmarshal(payload, &chat); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !chat.Done {
		return "", fmt.Errorf("incomplete response from Ollama")
	}

	g.logger.Debug("Ollama chat completion successful",
		zap.String("model", chat.Model),
		zap.Int("eval_count", chat.EvalCount),
		zap.Int64("eval_duration", chat.EvalDuration))

	return strings.TrimSpace(chat.Message.Content), nil
}
