package generator

import (
	"context"
	"sync"
)

// invokeCall records a single call to the scripted model.
type invokeCall struct {
	Prompt string
	Params SamplingParams
}

// scriptStep is one queued reply: either text or an error.
type scriptStep struct {
	output string
	err    error
}

// scriptedModel implements Model with queued responses. Each Invoke
// consumes the next queued step; when the queue is down to one step, that
// step repeats. Thread-safe.
type scriptedModel struct {
	mu    sync.Mutex
	steps []scriptStep
	calls []invokeCall
}

// newScriptedModel creates a model that always returns output.
func newScriptedModel(output string) *scriptedModel {
	m := &scriptedModel{}
	m.enqueue(output)
	return m
}

func (m *scriptedModel) enqueue(outputs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, out := range outputs {
		m.steps = append(m.steps, scriptStep{output: out})
	}
}

func (m *scriptedModel) enqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, scriptStep{err: err})
}

func (m *scriptedModel) Invoke(_ context.Context, prompt string, params SamplingParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, invokeCall{Prompt: prompt, Params: params})

	if len(m.steps) == 0 {
		return "", nil
	}
	step := m.steps[0]
	if len(m.steps) > 1 {
		m.steps = m.steps[1:]
	}
	return step.output, step.err
}

func (m *scriptedModel) callList() []invokeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]invokeCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// blockingModel implements Model but never returns until released or the
// context is canceled. It simulates a slow generation in flight.
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

func (m *blockingModel) Invoke(ctx context.Context, _ string, _ SamplingParams) (string, error) {
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
