package generator

import (
	"fmt"
	"strings"

	"github.com/hirevox/hirevox/internal/interview"
)

// contextTurns is how many trailing turns (two full exchanges) are quoted
// in follow-up prompts.
const contextTurns = 4

const openingPrompt = `You are a technical interviewer conducting a job interview.
The candidate has just introduced themselves:

"%s"

React briefly to the introduction, then ask exactly one specific technical
question about something the candidate mentioned. Reply with the question only.`

const followUpPrompt = `You are a technical interviewer conducting a job interview.
Recent conversation:

%s
The candidate's latest answer:

"%s"

Ask exactly one technical follow-up question about the candidate's latest
answer. Focus on how or why, not a generic question. Reply with the question only.`

// buildPrompt frames the model call. The first turn has no grounded context
// to follow up on, so it reacts to the self-introduction instead; later
// turns quote the last two exchanges and steer toward a how/why follow-up.
func (g *Generator) buildPrompt(utterance string, hist *interview.History) string {
	if hist.Len() == 0 {
		return fmt.Sprintf(openingPrompt, utterance)
	}

	var b strings.Builder
	for _, turn := range hist.Last(contextTurns) {
		label := "Candidate"
		if turn.Role == interview.RoleAgent {
			label = "Interviewer"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, turn.Text)
	}

	return fmt.Sprintf(followUpPrompt, b.String(), utterance)
}
