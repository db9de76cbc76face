// Package interview provides the conversation state for one mock-interview
// session: the append-only conversation history and the Session orchestrator
// that routes each candidate utterance through the response cache and the
// response generator.
package interview

import "sync"

// Role identifies the speaker of a conversation turn.
type Role string

const (
	// RoleUser is the interview candidate.
	RoleUser Role = "user"

	// RoleAgent is the interviewer agent.
	RoleAgent Role = "agent"
)

// Turn is a single utterance in the conversation. Turns are immutable
// once appended.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// History is the ordered, append-only conversation record for one session.
// Individual turns are never mutated or removed; the only destructive
// operation is a full reset via Clear.
//
// History is safe for concurrent use, though the session model is
// single-writer: one utterance-to-response cycle at a time.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewHistory creates an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append adds one turn to the end of the history.
func (h *History) Append(t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, t)
}

// AppendExchange records one full user/agent exchange: the user utterance
// first, then the agent response.
func (h *History) AppendExchange(utterance, response string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Text: utterance},
		Turn{Role: RoleAgent, Text: response},
	)
}

// Turns returns a copy of all turns in append order.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cp := make([]Turn, len(h.turns))
	copy(cp, h.turns)
	return cp
}

// Last returns a copy of the most recent n turns (fewer if the history
// is shorter).
func (h *History) Last(n int) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.turns) {
		n = len(h.turns)
	}
	cp := make([]Turn, n)
	copy(cp, h.turns[len(h.turns)-n:])
	return cp
}

// Len returns the number of turns recorded so far.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Clear resets the history to empty.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
