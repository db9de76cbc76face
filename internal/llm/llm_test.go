package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/hirevox/hirevox/internal/generator"
	"github.com/hirevox/hirevox/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing model name", Config{Logger: testutil.DiscardLogger()}},
		{"missing logger", Config{ModelName: "ollama/gemma3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestInvokeWithoutGenkitReportsNotReady(t *testing.T) {
	client, err := New(Config{
		ModelName: "ollama/gemma3",
		Logger:    testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Invoke(context.Background(), "prompt", generator.SamplingParams{Temperature: 0.8})
	if !errors.Is(err, generator.ErrModelNotReady) {
		t.Errorf("Invoke() error = %v, want generator.ErrModelNotReady", err)
	}
}

func TestSetupRejectsUnsupportedProvider(t *testing.T) {
	_, _, err := Setup(context.Background(), SetupConfig{
		Provider:  "webllm",
		ModelName: "gemma3",
		Logger:    testutil.DiscardLogger(),
	})
	if err == nil {
		t.Error("Setup() error = nil for unsupported provider, want error")
	}
}
