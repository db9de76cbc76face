package interview

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hirevox/hirevox/internal/cache"
)

// Sentinel errors for session operations.
var (
	// ErrBusy indicates an utterance arrived while a previous
	// utterance-to-response cycle was still in flight.
	ErrBusy = errors.New("session is processing a previous utterance")

	// ErrClosed indicates the session has been torn down.
	ErrClosed = errors.New("session is closed")
)

// Responder produces one interviewer question for an utterance. The
// history is read for prompt context only; the session records the
// exchange itself once the result is accepted. *generator.Generator is
// the production implementation.
type Responder interface {
	Generate(ctx context.Context, utterance string, hist *History) (string, error)
}

// SessionConfig contains all required parameters for a Session.
type SessionConfig struct {
	Generator Responder
	Cache     *cache.ResponseCache // nil disables response caching
	Logger    *slog.Logger
}

// validate checks required dependencies.
func (cfg SessionConfig) validate() error {
	if cfg.Generator == nil {
		return errors.New("generator is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Session drives one interview: it owns the conversation history, holds
// the exclusive processing flag for the utterance-to-response cycle, and
// routes each utterance through the cache before the generator.
//
// One cycle runs at a time. Respond rejects concurrent calls with ErrBusy
// rather than queueing them, matching the push-to-talk interaction model
// where input arriving mid-response is ignored.
type Session struct {
	id      uuid.UUID
	history *History
	gen     Responder
	cache   *cache.ResponseCache
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	processing bool
	closed     bool
}

// NewSession creates a session and restores the prior cache snapshot
// (best-effort) so repeated utterances from earlier runs hit immediately.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &Session{
		id:      uuid.New(),
		history: NewHistory(),
		gen:     cfg.Generator,
		cache:   cfg.Cache,
		logger:  cfg.Logger,
		ctx:     sessionCtx,
		cancel:  cancel,
	}

	if s.cache != nil {
		s.cache.Restore(ctx)
	}

	s.logger.Debug("session created", "session_id", s.id)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// History returns a copy of the conversation so far, in append order.
func (s *Session) History() []Turn {
	return s.history.Turns()
}

// CacheStats reports cache counters; zero-value stats when caching is off.
func (s *Session) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{HitRate: "0%"}
	}
	return s.cache.Stats()
}

// acquire takes the exclusive processing flag.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.processing {
		return ErrBusy
	}
	s.processing = true
	return nil
}

// release returns the processing flag.
func (s *Session) release() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

// commit records a completed exchange. It holds the session lock so the
// closed check and the history/cache mutation are atomic with Close: a
// result resolving after teardown is dropped whole, never half-recorded.
func (s *Session) commit(utterance, response string, cacheIt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.history.AppendExchange(utterance, response)
	if cacheIt && s.cache != nil {
		s.cache.Set(utterance, response)
	}
	return nil
}

// Respond produces the interviewer's reply to one candidate utterance.
//
// The cache is consulted first; a hit returns the cached question and still
// records the exchange in the history. On a miss the generator runs, the
// result is cached, and the snapshot is persisted best-effort. If the
// session is closed while generation is in flight, the eventual result is
// discarded without mutating history or cache and ErrClosed is returned.
func (s *Session) Respond(ctx context.Context, utterance string) (string, error) {
	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()

	if s.cache != nil {
		if cached, ok := s.cache.Get(utterance); ok {
			s.logger.Debug("cache hit", "session_id", s.id)
			if err := s.commit(utterance, cached, false); err != nil {
				return "", err
			}
			return cached, nil
		}
	}

	// Tie the generation to both the caller's context and the session
	// lifetime, so Close aborts an in-flight cycle promptly.
	callCtx, cancelCall := context.WithCancel(ctx)
	defer cancelCall()
	stop := context.AfterFunc(s.ctx, cancelCall)
	defer stop()

	response, err := s.gen.Generate(callCtx, utterance, s.history)
	if err != nil {
		if s.ctx.Err() != nil {
			s.logger.Debug("discarding generation result after teardown", "session_id", s.id)
			return "", ErrClosed
		}
		return "", err
	}

	if err := s.commit(utterance, response, true); err != nil {
		s.logger.Debug("discarding generation result after teardown", "session_id", s.id)
		return "", err
	}

	if s.cache != nil {
		s.cache.Snapshot(ctx)
	}

	return response, nil
}

// Reset clears the conversation history. The cache is left intact; cached
// questions stay useful across interviews.
func (s *Session) Reset() {
	s.history.Clear()
	s.logger.Debug("history cleared", "session_id", s.id)
}

// Close tears the session down. In-flight generation is not awaited; its
// result is discarded when it resolves. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.logger.Debug("session closed", "session_id", s.id)
}
