package generator

import "strings"

// roleLabels are leading artifacts the model sometimes emits when it
// copies the prompt's transcript framing.
var roleLabels = []string{
	"Interviewer:",
	"INTERVIEWER:",
	"Candidate:",
	"Assistant:",
	"AI:",
}

// cleanResponse normalizes an accepted model output:
//
//  1. strip a leading role label and surrounding quote characters;
//  2. if the text does not end in sentence-terminal punctuation, truncate
//     back to the last full stop, but only when that stop is past the
//     midpoint (so a trailing fragment is dropped without gutting the text);
//  3. if the text contains a question mark, drop everything after the last
//     one, removing trailing continuation the model sometimes appends.
//
// Fallback questions are already clean and skip this entirely.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	for _, label := range roleLabels {
		if rest, ok := strings.CutPrefix(s, label); ok {
			s = strings.TrimSpace(rest)
			break
		}
	}
	s = strings.Trim(s, "\"'“”")

	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		if idx := strings.LastIndex(s, "."); idx > len(s)/2 {
			s = s[:idx+1]
		}
	}

	if idx := strings.LastIndex(s, "?"); idx >= 0 {
		s = s[:idx+1]
	}

	return strings.TrimSpace(s)
}
