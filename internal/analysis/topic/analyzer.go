package topic

import "strings"

// Verdict classifies a message against the recent conversation window.
type Verdict string

const (
	// Fork opens ground the recent window has not covered.
	Fork Verdict = "fork"
	// Perturbation stays on covered ground, or carries no topic at all.
	Perturbation Verdict = "perturbation"
)

const (
	// ClassifyTokenLen is the shortest token the world classifier treats
	// as topical. Agent memory recall uses the stricter RecallTokenLen;
	// the two thresholds are separate knobs, not one.
	ClassifyTokenLen = 4
	RecallTokenLen   = 5
)

// First returns the first whitespace-delimited token of the lowercased
// content longer than minLen characters, or "" when none qualifies.
func First(content string, minLen int) string {
	for _, token := range strings.Fields(strings.ToLower(content)) {
		if len(token) > minLen {
			return token
		}
	}
	return ""
}

// Classify judges content against the raw contents of recent messages.
// A message whose topic token appears in none of them is a fork; anything
// else, including a message with no qualifying token, is a perturbation.
// The verdict is deterministic for a fixed window.
func Classify(content string, recent []string) Verdict {
	current := First(content, ClassifyTokenLen)
	if current == "" {
		return Perturbation
	}
	for _, prior := range recent {
		if First(prior, ClassifyTokenLen) == current {
			return Perturbation
		}
	}
	return Fork
}
