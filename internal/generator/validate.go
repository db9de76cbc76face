package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// openerDenylist contains self-referential openers that indicate the model
// echoed its interviewer framing instead of asking a question. Matched
// case-insensitively anywhere in the output.
var openerDenylist = []string{
	"i am a",
	"i'm a",
	"my name is",
	"as an ai",
	"i am an ai",
}

// minOverlapWordLen: only words longer than this count toward the lexical
// overlap gate; short function words would drown the signal.
const minOverlapWordLen = 4

// vet applies the four acceptance gates to a raw model output. It returns
// an empty string when the output passes, otherwise the reason for
// rejection. Any single failure triggers a retry.
func (g *Generator) vet(output, utterance string) string {
	trimmed := strings.TrimSpace(output)
	lower := strings.ToLower(trimmed)

	for _, phrase := range openerDenylist {
		if strings.Contains(lower, phrase) {
			return fmt.Sprintf("denylisted opener %q", phrase)
		}
	}

	if !strings.Contains(trimmed, "?") {
		return "no question mark"
	}

	if n := utf8.RuneCountInString(trimmed); n < g.gates.MinLength || n > g.gates.MaxLength {
		return fmt.Sprintf("length %d outside [%d, %d]", n, g.gates.MinLength, g.gates.MaxLength)
	}

	if overlap := lexicalOverlap(trimmed, utterance); overlap > g.gates.OverlapThreshold {
		return fmt.Sprintf("lexical overlap %.2f exceeds %.2f", overlap, g.gates.OverlapThreshold)
	}

	return ""
}

// lexicalOverlap measures how much of the utterance the output merely
// restates: the fraction of the utterance's qualifying words (longer than
// minOverlapWordLen runes) that also appear in the output.
func lexicalOverlap(output, utterance string) float64 {
	inputWords := qualifyingWords(utterance)
	if len(inputWords) == 0 {
		return 0
	}

	outputWords := qualifyingWords(output)
	shared := 0
	for word := range inputWords {
		if _, ok := outputWords[word]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(inputWords))
}

// qualifyingWords returns the set of lowercased words longer than
// minOverlapWordLen runes, with surrounding punctuation stripped.
func qualifyingWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, `.,;:!?"'()[]{}`)
		if utf8.RuneCountInString(word) > minOverlapWordLen {
			words[word] = struct{}{}
		}
	}
	return words
}
