package interview_test

import (
	"context"
	"sync"

	"github.com/hirevox/hirevox/internal/generator"
)

// scriptedModel implements generator.Model, always returning the same
// output and counting calls. Thread-safe.
type scriptedModel struct {
	output string

	mu    sync.Mutex
	calls int
}

func newScriptedModel(output string) *scriptedModel {
	return &scriptedModel{output: output}
}

func (m *scriptedModel) Invoke(_ context.Context, _ string, _ generator.SamplingParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.output, nil
}

func (m *scriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// blockingModel implements generator.Model but never returns until
// released or the context is canceled. It holds a generation in flight
// so tests can race it against session teardown.
type blockingModel struct {
	output  string
	release chan struct{}
	once    sync.Once

	mu      sync.Mutex
	started chan struct{} // closed on first Invoke
}

func newBlockingModel(output string) *blockingModel {
	return &blockingModel{
		output:  output,
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
}

// Started returns a channel closed when the first Invoke begins.
func (m *blockingModel) Started() <-chan struct{} {
	return m.started
}

// Release unblocks all pending and future Invoke calls.
func (m *blockingModel) Release() {
	m.once.Do(func() { close(m.release) })
}

func (m *blockingModel) Invoke(ctx context.Context, _ string, _ generator.SamplingParams) (string, error) {
	m.mu.Lock()
	select {
	case <-m.started:
	default:
		close(m.started)
	}
	m.mu.Unlock()

	select {
	case <-m.release:
		return m.output, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
