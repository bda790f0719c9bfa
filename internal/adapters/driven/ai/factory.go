// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/rag-migrate/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/rag-migrate/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Supported embedding providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// EmbeddingSettings selects and configures an embedding provider.
type EmbeddingSettings struct {
	Provider          string
	Model             string
	BaseURL           string
	APIKey            string
	Dimensions        int
	RequestsPerSecond float64
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Every failure wraps domain.ErrMissingDependency.
func CreateAndValidateEmbeddingService(ctx context.Context, settings EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: embedding service unreachable (%w)", domain.ErrMissingDependency, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service named by settings.Provider.
// Construction failures wrap domain.ErrMissingDependency.
func CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMissingDependency, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", domain.ErrMissingDependency, settings.Provider)
	}
}
