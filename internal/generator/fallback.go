package generator

import "strings"

// fallbackRule routes an utterance to a fixed probing question when any of
// its keywords appear. Rules are checked in order; first match wins.
type fallbackRule struct {
	keywords []string
	question string
}

// fallbackRules are the keyword-routed fallback questions, used when every
// generation attempt fails. Deterministic per utterance.
var fallbackRules = []fallbackRule{
	{
		keywords: []string{"experience", "worked"},
		question: "What was the most challenging part of that experience, and how did you handle it?",
	},
	{
		keywords: []string{"project", "built"},
		question: "What technologies did you choose for that project, and why those in particular?",
	},
	{
		keywords: []string{"team"},
		question: "How do you usually handle disagreements within a team?",
	},
	{
		keywords: []string{"difficult", "challenge"},
		question: "How did you go about resolving that, and what did you take away from it?",
	},
	{
		keywords: []string{"learn", "skill"},
		question: "How do you approach picking up a new technology or skill?",
	},
}

// genericFallbacks is the pool drawn from when no keyword rule matches.
var genericFallbacks = []string{
	"Can you tell me more about that?",
	"What would you do differently if you faced that situation again?",
	"Can you walk me through your thought process there?",
	"How has that shaped the way you work today?",
	"Why do you think that approach worked well for you?",
}

// fallbackFor selects a fallback question for the utterance: keyword
// routing first, otherwise a uniform draw from the generic pool using the
// injected random source. Never fails, and the result needs no
// post-processing.
func (g *Generator) fallbackFor(utterance string) string {
	lower := strings.ToLower(utterance)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.question
			}
		}
	}
	return genericFallbacks[g.rng.Intn(len(genericFallbacks))]
}
