package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
)

// Provider identifiers accepted by Setup.
const (
	ProviderOllama   = "ollama"
	ProviderGoogleAI = "googleai"
)

// SetupConfig selects and configures the generation provider.
type SetupConfig struct {
	Provider   string // "ollama" (default) or "googleai"
	ModelName  string // bare model name, without provider prefix
	OllamaHost string // only used by the ollama provider
	Logger     *slog.Logger
}

// Setup initializes Genkit with the configured provider and returns the
// instance plus the provider-qualified model name to generate with.
//
// Ollama is the default: like the system this serves, the model runs
// locally and no API key leaves the machine.
func Setup(ctx context.Context, cfg SetupConfig) (*genkit.Genkit, string, error) {
	if cfg.Logger == nil {
		return nil, "", errors.New("logger is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOllama
	}

	switch provider {
	case ProviderOllama:
		plugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g := genkit.Init(ctx, genkit.WithPlugins(plugin))
		if g == nil {
			return nil, "", errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery).
		plugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		cfg.Logger.Info("initialized generation provider",
			"provider", provider, "model", cfg.ModelName, "host", cfg.OllamaHost)
		return g, "ollama/" + cfg.ModelName, nil

	case ProviderGoogleAI:
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, "", errors.New("initializing genkit with googleai provider")
		}
		cfg.Logger.Info("initialized generation provider",
			"provider", provider, "model", cfg.ModelName)
		return g, "googleai/" + cfg.ModelName, nil

	default:
		return nil, "", fmt.Errorf("unsupported provider %q", provider)
	}
}
