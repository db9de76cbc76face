// Package generator produces interviewer follow-up questions. Each call
// builds a prompt from the candidate's latest answer and the recent
// conversation, invokes the text-generation model, and vets the candidate
// output against quality gates. Rejected outputs are retried with a higher
// sampling temperature; when every attempt fails, a deterministic fallback
// question bank answers instead, so generation never fails outward for
// quality reasons.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/hirevox/hirevox/internal/interview"
)

// ErrModelNotReady indicates generation was requested before the underlying
// model was available. This is the only error Generate surfaces for the
// model itself; transient invocation failures consume a retry attempt.
var ErrModelNotReady = errors.New("generation model not ready")

// Model is the external text-generation capability. Implementations may
// return an error on transient failure; the generator treats any error
// other than ErrModelNotReady as one consumed attempt.
type Model interface {
	Invoke(ctx context.Context, prompt string, params SamplingParams) (string, error)
}

// SamplingParams controls the randomness and shape of model output.
// Temperature is set per attempt by the retry policy; the remaining fields
// are fixed at construction.
type SamplingParams struct {
	Temperature       float64
	MaxNewTokens      int
	TopK              int
	TopP              float64
	RepetitionPenalty float64
	BeamCount         int
}

// RetryConfig controls the bounded retry loop. A zero field takes its
// default independently of the others.
type RetryConfig struct {
	MaxAttempts     int     // model attempts before falling back; default 3
	BaseTemperature float64 // temperature for the first attempt; default 0.8
	TemperatureStep float64 // raise per retry, trading determinism for diversity; default 0.15
}

// DefaultRetryConfig returns the default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		BaseTemperature: 0.8,
		TemperatureStep: 0.15,
	}
}

// GateConfig holds the validation-gate thresholds. The values are
// heuristic; they are configuration rather than constants so callers can
// tune them without a rebuild. A zero field takes its default
// independently of the others.
type GateConfig struct {
	MinLength        int     // reject shorter outputs; default 10
	MaxLength        int     // reject longer outputs; default 300
	OverlapThreshold float64 // reject outputs repeating more than this fraction of the input's qualifying words; default 0.7
}

// DefaultGateConfig returns the default validation thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MinLength:        10,
		MaxLength:        300,
		OverlapThreshold: 0.7,
	}
}

// EventKind identifies a progress event emitted during one Generate call.
type EventKind int

const (
	// EventAttempt is emitted before each model invocation.
	EventAttempt EventKind = iota

	// EventRejected is emitted when a candidate output fails a gate.
	EventRejected

	// EventModelError is emitted when a model invocation fails.
	EventModelError

	// EventFallback is emitted when attempts are exhausted and a fallback
	// question is selected.
	EventFallback
)

// Event describes one step of the generation pipeline. Events are
// delivered synchronously, zero or more times, before Generate returns;
// no cadence is guaranteed.
type Event struct {
	Kind        EventKind
	Attempt     int // 1-based
	Temperature float64
	Reason      string // rejection reason or error text
}

// Config contains all parameters for a Generator.
type Config struct {
	Model  Model
	Logger *slog.Logger

	Retry    RetryConfig    // zero-value uses DefaultRetryConfig
	Gates    GateConfig     // zero-value uses DefaultGateConfig
	Sampling SamplingParams // Temperature is ignored; set per attempt

	// Rand draws the generic fallback question. Injected for deterministic
	// tests; nil seeds from the current time.
	Rand *rand.Rand

	// RateLimiter, when set, is waited on before every model attempt.
	RateLimiter *rate.Limiter

	// OnEvent, when set, receives progress events synchronously.
	OnEvent func(Event)
}

// validate checks required dependencies.
func (cfg Config) validate() error {
	if cfg.Model == nil {
		return errors.New("model is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Generator produces one interviewer question per Generate call.
// Configuration is captured immutably at construction.
type Generator struct {
	model    Model
	logger   *slog.Logger
	retry    RetryConfig
	gates    GateConfig
	sampling SamplingParams
	rng      *rand.Rand
	limiter  *rate.Limiter
	onEvent  func(Event)
}

// New creates a Generator with the given configuration.
func New(cfg Config) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if retry.BaseTemperature <= 0 {
		retry.BaseTemperature = DefaultRetryConfig().BaseTemperature
	}
	if retry.TemperatureStep <= 0 {
		retry.TemperatureStep = DefaultRetryConfig().TemperatureStep
	}

	gates := cfg.Gates
	if gates.MinLength <= 0 {
		gates.MinLength = DefaultGateConfig().MinLength
	}
	if gates.MaxLength <= 0 {
		gates.MaxLength = DefaultGateConfig().MaxLength
	}
	if gates.OverlapThreshold <= 0 {
		gates.OverlapThreshold = DefaultGateConfig().OverlapThreshold
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{
		model:    cfg.Model,
		logger:   cfg.Logger,
		retry:    retry,
		gates:    gates,
		sampling: cfg.Sampling,
		rng:      rng,
		limiter:  cfg.RateLimiter,
		onEvent:  cfg.OnEvent,
	}, nil
}

// emit delivers a progress event when a listener is configured.
func (g *Generator) emit(e Event) {
	if g.onEvent != nil {
		g.onEvent(e)
	}
}

// Generate returns one follow-up question for the candidate's utterance.
//
// It always returns usable text unless the model is unready or ctx is
// canceled: outputs failing the quality gates are retried with a raised
// temperature, and exhausting all attempts selects from the fallback bank.
// hist is read for prompt context and never mutated; recording the
// exchange is the caller's decision, so a result that arrives after the
// caller has torn down can be dropped without touching the conversation.
func (g *Generator) Generate(ctx context.Context, utterance string, hist *interview.History) (string, error) {
	prompt := g.buildPrompt(utterance, hist)

	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		temperature := g.retry.BaseTemperature + g.retry.TemperatureStep*float64(attempt-1)

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}

		g.emit(Event{Kind: EventAttempt, Attempt: attempt, Temperature: temperature})

		params := g.sampling
		params.Temperature = temperature

		output, err := g.model.Invoke(ctx, prompt, params)
		if err != nil {
			if errors.Is(err, ErrModelNotReady) {
				return "", fmt.Errorf("invoking model: %w", err)
			}
			if ctx.Err() != nil {
				return "", fmt.Errorf("generation canceled: %w", ctx.Err())
			}
			// Transient failure: burn the attempt and move on.
			g.logger.Debug("model invocation failed",
				"attempt", attempt,
				"temperature", temperature,
				"error", err,
			)
			g.emit(Event{Kind: EventModelError, Attempt: attempt, Temperature: temperature, Reason: err.Error()})
			continue
		}

		if reason := g.vet(output, utterance); reason != "" {
			g.logger.Debug("candidate output rejected",
				"attempt", attempt,
				"temperature", temperature,
				"reason", reason,
			)
			g.emit(Event{Kind: EventRejected, Attempt: attempt, Temperature: temperature, Reason: reason})
			continue
		}

		response := cleanResponse(output)
		if ctx.Err() != nil {
			return "", fmt.Errorf("generation canceled: %w", ctx.Err())
		}

		g.logger.Debug("accepted model response", "attempt", attempt, "length", len(response))
		return response, nil
	}

	response := g.fallbackFor(utterance)
	g.emit(Event{Kind: EventFallback, Reason: response})
	g.logger.Debug("generation attempts exhausted, using fallback",
		"attempts", g.retry.MaxAttempts,
	)

	if ctx.Err() != nil {
		return "", fmt.Errorf("generation canceled: %w", ctx.Err())
	}

	return response, nil
}
