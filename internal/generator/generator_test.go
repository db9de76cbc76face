package generator

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/testutil"
)

const goodQuestion = "Why did you choose Go for the ingestion pipeline instead of Python?"

func newTestGenerator(t *testing.T, model Model) *Generator {
	t.Helper()
	g, err := New(Config{
		Model:  model,
		Logger: testutil.DiscardLogger(),
		Rand:   rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing model", Config{Logger: testutil.DiscardLogger()}},
		{"missing logger", Config{Model: newScriptedModel("ok?")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestNewDefaultsPartialConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantRetry RetryConfig
		wantGates GateConfig
	}{
		{
			name:      "all zero",
			cfg:       Config{},
			wantRetry: DefaultRetryConfig(),
			wantGates: DefaultGateConfig(),
		},
		{
			name:      "only max attempts set",
			cfg:       Config{Retry: RetryConfig{MaxAttempts: 5}},
			wantRetry: RetryConfig{MaxAttempts: 5, BaseTemperature: 0.8, TemperatureStep: 0.15},
			wantGates: DefaultGateConfig(),
		},
		{
			name:      "only max length set",
			cfg:       Config{Gates: GateConfig{MaxLength: 200}},
			wantRetry: DefaultRetryConfig(),
			wantGates: GateConfig{MinLength: 10, MaxLength: 200, OverlapThreshold: 0.7},
		},
		{
			name:      "only overlap set",
			cfg:       Config{Gates: GateConfig{OverlapThreshold: 0.5}},
			wantRetry: DefaultRetryConfig(),
			wantGates: GateConfig{MinLength: 10, MaxLength: 300, OverlapThreshold: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Model = newScriptedModel("ok?")
			tt.cfg.Logger = testutil.DiscardLogger()
			g, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if g.retry != tt.wantRetry {
				t.Errorf("retry = %+v, want %+v", g.retry, tt.wantRetry)
			}
			if g.gates != tt.wantGates {
				t.Errorf("gates = %+v, want %+v", g.gates, tt.wantGates)
			}
		})
	}
}

func TestGenerateAcceptsValidOutput(t *testing.T) {
	model := newScriptedModel(goodQuestion)
	g := newTestGenerator(t, model)
	hist := interview.NewHistory()

	got, err := g.Generate(context.Background(), "I built a data pipeline in Go.", hist)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != goodQuestion {
		t.Errorf("Generate() = %q, want %q", got, goodQuestion)
	}
	if model.callCount() != 1 {
		t.Errorf("model calls = %d, want 1", model.callCount())
	}
}

func TestGenerateNeverMutatesHistory(t *testing.T) {
	g := newTestGenerator(t, newScriptedModel(goodQuestion))
	hist := interview.NewHistory()
	hist.AppendExchange("I built a data pipeline in Go.", "What throughput did it need to sustain?")

	if _, err := g.Generate(context.Background(), "Around ten thousand events per second.", hist); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if hist.Len() != 2 {
		t.Errorf("history has %d turns after Generate, want the 2 it started with", hist.Len())
	}
}

func TestRetryTemperatureRamp(t *testing.T) {
	model := &scriptedModel{}
	model.enqueue("no question here at all", "still no question", goodQuestion)
	g := newTestGenerator(t, model)

	if _, err := g.Generate(context.Background(), "I worked on systems.", interview.NewHistory()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	calls := model.callList()
	want := []float64{0.8, 0.95, 1.1}
	if len(calls) != len(want) {
		t.Fatalf("model calls = %d, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if got := calls[i].Params.Temperature; math.Abs(got-w) > 1e-9 {
			t.Errorf("attempt %d temperature = %v, want %v", i+1, got, w)
		}
	}
}

func TestRetryExhaustionYieldsFallback(t *testing.T) {
	// Every reply lacks a question mark, so all attempts are rejected.
	model := newScriptedModel("I enjoy asking candidates about their background.")
	g := newTestGenerator(t, model)

	got, err := g.Generate(context.Background(), "My background is in distributed databases.", interview.NewHistory())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if model.callCount() != DefaultRetryConfig().MaxAttempts {
		t.Errorf("model calls = %d, want exactly %d", model.callCount(), DefaultRetryConfig().MaxAttempts)
	}
	if got == "" {
		t.Fatal("Generate() returned empty fallback")
	}
	if !strings.HasSuffix(got, "?") {
		t.Errorf("fallback %q does not end in a question mark", got)
	}
}

func TestModelErrorConsumesAttempt(t *testing.T) {
	model := &scriptedModel{}
	model.enqueueError(errors.New("connection reset"))
	model.enqueue(goodQuestion)
	g := newTestGenerator(t, model)

	got, err := g.Generate(context.Background(), "I built a service.", interview.NewHistory())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != goodQuestion {
		t.Errorf("Generate() = %q, want recovery on second attempt", got)
	}
	if model.callCount() != 2 {
		t.Errorf("model calls = %d, want 2", model.callCount())
	}
}

func TestModelNotReadyPropagates(t *testing.T) {
	model := &scriptedModel{}
	model.enqueueError(ErrModelNotReady)
	g := newTestGenerator(t, model)

	_, err := g.Generate(context.Background(), "hello", interview.NewHistory())
	if !errors.Is(err, ErrModelNotReady) {
		t.Fatalf("Generate() error = %v, want ErrModelNotReady", err)
	}
	if model.callCount() != 1 {
		t.Errorf("model calls = %d, want 1 (no retry on precondition violation)", model.callCount())
	}
}

func TestCanceledContextReturnsError(t *testing.T) {
	model := newBlockingModel(goodQuestion)
	g := newTestGenerator(t, model)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Generate(ctx, "I led a platform team.", interview.NewHistory())
		done <- err
	}()

	<-model.Started()
	cancel()

	if err := <-done; err == nil {
		t.Fatal("Generate() error = nil after cancellation, want error")
	}
}

func TestGenerateEmitsEvents(t *testing.T) {
	model := newScriptedModel("no question mark at all here")
	var events []Event

	g, err := New(Config{
		Model:   model,
		Logger:  testutil.DiscardLogger(),
		Rand:    rand.New(rand.NewSource(1)),
		OnEvent: func(e Event) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := g.Generate(context.Background(), "tell me", interview.NewHistory()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var attempts, rejections, fallbacks int
	for _, e := range events {
		switch e.Kind {
		case EventAttempt:
			attempts++
		case EventRejected:
			rejections++
		case EventFallback:
			fallbacks++
		}
	}
	if attempts != 3 || rejections != 3 || fallbacks != 1 {
		t.Errorf("events = %d attempts, %d rejections, %d fallbacks, want 3/3/1",
			attempts, rejections, fallbacks)
	}
}
