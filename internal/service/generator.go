package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/config"
)

// NewGenerator builds the configured recommendation provider.
func NewGenerator(ctx context.Context, cfg *config.Config, log *zap.Logger) (Generator, error) {
	switch cfg.GeneratorProvider {
	case geminiProvider:
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", log)
	case deepSeekProvider:
		return NewLLMService(cfg.DeepSeekAPIKey, cfg.DeepSeekAPIURL, cfg.DeepSeekModel, &http.Client{}, log)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.GeneratorProvider)
	}
}
