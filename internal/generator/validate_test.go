package generator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/hirevox/hirevox/internal/testutil"
)

func newGatesOnlyGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(Config{
		Model:  newScriptedModel("unused?"),
		Logger: testutil.DiscardLogger(),
		Rand:   rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestVet(t *testing.T) {
	g := newGatesOnlyGenerator(t)
	utterance := "I have five years of experience in backend systems"

	tests := []struct {
		name       string
		output     string
		wantReject bool
	}{
		{
			name:       "valid question",
			output:     "Which database did the team standardize on, and why?",
			wantReject: false,
		},
		{
			name:       "missing question mark always rejected",
			output:     "That is a very interesting background in backend development.",
			wantReject: true,
		},
		{
			name:       "denylisted opener i am a",
			output:     "I am a technical interviewer, what would you like to discuss?",
			wantReject: true,
		},
		{
			name:       "denylisted opener my name is",
			output:     "My name is Alex, shall we begin the interview?",
			wantReject: true,
		},
		{
			name:       "too short",
			output:     "Why?",
			wantReject: true,
		},
		{
			name:       "too long",
			output:     strings.Repeat("Could you elaborate on that further please? ", 10),
			wantReject: true,
		},
		{
			name: "restates the input",
			// Repeats every qualifying word of the utterance: five/years/
			// experience/backend/systems all longer than 4 chars.
			output:     "So you have five years of experience in backend systems, is that right?",
			wantReject: true,
		},
		{
			name:       "partial overlap under threshold accepted",
			output:     "What production incident taught you the most about those systems?",
			wantReject: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := g.vet(tt.output, utterance)
			if rejected := reason != ""; rejected != tt.wantReject {
				t.Errorf("vet(%q) reason = %q, want rejected = %v", tt.output, reason, tt.wantReject)
			}
		})
	}
}

func TestLexicalOverlap(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		utterance string
		want      float64
	}{
		{
			name:      "no qualifying input words",
			output:    "anything at all?",
			utterance: "so it is",
			want:      0,
		},
		{
			name:      "full restatement",
			output:    "experience backend systems",
			utterance: "experience backend systems",
			want:      1,
		},
		{
			name:      "half shared",
			output:    "tell me about kubernetes clusters",
			utterance: "kubernetes deployment",
			want:      0.5,
		},
		{
			name:      "punctuation stripped before comparison",
			output:    "was it 'kubernetes'?",
			utterance: "kubernetes!",
			want:      1,
		},
		{
			name:      "short words ignored",
			output:    "so you had five jobs in tech",
			utterance: "five jobs in tech",
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lexicalOverlap(tt.output, tt.utterance); got != tt.want {
				t.Errorf("lexicalOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVetThresholdsAreConfigurable(t *testing.T) {
	g, err := New(Config{
		Model:  newScriptedModel("unused?"),
		Logger: testutil.DiscardLogger(),
		Gates: GateConfig{
			MinLength:        1,
			MaxLength:        20,
			OverlapThreshold: 0.9,
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if reason := g.vet("Why though?", "something"); reason != "" {
		t.Errorf("vet() reason = %q, want accept under relaxed min length", reason)
	}
	if reason := g.vet("Could you explain that decision in more detail?", "something"); reason == "" {
		t.Error("vet() accepted output beyond the tightened max length")
	}
}
