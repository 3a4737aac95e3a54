package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const geminiProvider = "gemini"

// GeminiService generates recommendations with Google's Gemini models.
type GeminiService struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

var _ Generator = (*GeminiService)(nil)

// NewGeminiService creates a Gemini client. baseURL overrides the API
// endpoint and is empty outside tests.
func NewGeminiService(ctx context.Context, apiKey, model, baseURL string, log *zap.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  model,
		log:    log.Named(geminiProvider),
	}, nil
}

func (s *GeminiService) Name() string {
	return geminiProvider
}

// Generate sends the prompt as a single user turn and concatenates the text
// parts of the first candidate.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", s.classify(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &GenerationError{
			Provider: geminiProvider,
			Kind:     GenerationRejected,
			Err:      fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GenerationError{Provider: geminiProvider, Kind: GenerationEmpty, Err: errors.New("no candidates returned")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", &GenerationError{Provider: geminiProvider, Kind: GenerationEmpty, Err: errors.New("empty response text")}
	}

	return b.String(), nil
}

// classify maps SDK failures to a GenerationError. Anything that is not an
// API response is treated as the provider being unreachable.
func (s *GeminiService) classify(err error) error {
	kind := GenerationUnavailable
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		kind = kindForStatus(apiErr.Code)
	case errors.As(err, &apiErrPtr):
		kind = kindForStatus(apiErrPtr.Code)
	}
	s.log.Warn("gemini request failed", zap.String("kind", string(kind)), zap.Error(err))
	return &GenerationError{Provider: geminiProvider, Kind: kind, Err: err}
}
