package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const deepSeekProvider = "deepseek"

// systemPrompt frames every chat-completions request.
const systemPrompt = "You are a health and nutrition assistant. Respond only with a JSON object."

// LLMService generates recommendations through an OpenAI-compatible
// chat-completions API (DeepSeek by default).
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	log    *zap.Logger
}

var _ Generator = (*LLMService)(nil)

// NewLLMService creates a new LLMService instance
func NewLLMService(apiKey, apiURL, model string, client *http.Client, log *zap.Logger) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY must be set")
	}
	if apiURL == "" || model == "" {
		return nil, fmt.Errorf("chat-completions URL and model must be set")
	}
	if client == nil {
		client = &http.Client{}
	}
	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: client,
		log:    log.Named(deepSeekProvider),
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *LLMService) Name() string {
	return deepSeekProvider
}

// Generate sends the prompt as a single user message and returns the first
// choice's content.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", s.fail(GenerationRejected, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", s.fail(GenerationRejected, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", s.fail(GenerationUnavailable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", s.fail(GenerationUnavailable, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("API request failed", zap.Int("status", resp.StatusCode), zap.ByteString("body", truncate(body, 512)))
		return "", s.fail(kindForStatus(resp.StatusCode), fmt.Errorf("API request failed with status %d", resp.StatusCode))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", s.fail(GenerationUnavailable, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", s.fail(GenerationEmpty, errors.New("no response from API"))
	}

	return result.Choices[0].Message.Content, nil
}

func (s *LLMService) fail(kind GenerationErrorKind, err error) error {
	return &GenerationError{Provider: deepSeekProvider, Kind: kind, Err: err}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
