// Package llm adapts a Genkit model to the generator's Model interface.
// Genkit keeps providers interchangeable: a local Ollama model is the
// default, with Google AI available through configuration.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/hirevox/hirevox/internal/generator"
)

// Config contains all required parameters for a Client.
type Config struct {
	Genkit    *genkit.Genkit
	ModelName string // provider-qualified, e.g. "ollama/gemma3" or "googleai/gemini-2.5-flash"
	Logger    *slog.Logger
}

// validate checks required parameters.
func (cfg Config) validate() error {
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Client invokes a Genkit-registered model. It implements generator.Model.
type Client struct {
	g         *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// New creates a Client. A nil Genkit instance is allowed so wiring can be
// staged; Invoke reports generator.ErrModelNotReady until one is present.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		g:         cfg.Genkit,
		modelName: cfg.ModelName,
		logger:    cfg.Logger,
	}, nil
}

// Invoke runs one generation request and returns the raw model text.
//
// RepetitionPenalty and BeamCount have no slot in Genkit's common
// generation config; providers that honor them must be configured at model
// definition time, so they are dropped here.
func (c *Client) Invoke(ctx context.Context, prompt string, params generator.SamplingParams) (string, error) {
	if c.g == nil {
		return "", generator.ErrModelNotReady
	}

	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.modelName),
		ai.WithPrompt(prompt),
		ai.WithConfig(&ai.GenerationCommonConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxNewTokens,
			TopK:            params.TopK,
			TopP:            params.TopP,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", c.modelName, err)
	}

	text := strings.TrimSpace(resp.Text())
	c.logger.Debug("model responded",
		"model", c.modelName,
		"temperature", params.Temperature,
		"length", len(text),
	)
	return text, nil
}
