// Package exercise defines the psychometric exercise kinds served by the
// practice platform and the response constraints attached to each kind.
package exercise

import (
	"fmt"
	"strings"
)

// Kind identifies one exercise type. The kind doubles as the progress
// store key suffix so in-flight sessions of different kinds never collide.
type Kind string

const (
	// WordAssociation shows a single word per item under a short time budget.
	WordAssociation Kind = "word-association"

	// SituationReaction shows a situation description with no time budget
	// but with minimum response-length constraints.
	SituationReaction Kind = "situation-reaction"
)

// ParseKind converts a CLI/user string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wat", "word", "word-association":
		return WordAssociation, nil
	case "srt", "situation", "situation-reaction":
		return SituationReaction, nil
	}
	return "", fmt.Errorf("unknown exercise kind %q", s)
}

// Title returns the display name for the kind.
func (k Kind) Title() string {
	switch k {
	case WordAssociation:
		return "Word Association"
	case SituationReaction:
		return "Situation Reaction"
	}
	return string(k)
}

// Settings holds the per-kind session parameters: whether items are
// timed, the per-item budget, and the minimum-response constraints.
type Settings struct {
	Kind Kind

	// Timed selects the countdown variant. Untimed kinds fall back to
	// wall-clock deltas for the per-item elapsed time.
	Timed bool

	// BudgetSec is the per-item time allowance in seconds. Ignored
	// when Timed is false.
	BudgetSec int

	// MinWords and MinChars are the minimum constraints an explicit
	// submit must satisfy. Expiry-driven advances bypass them.
	MinWords int
	MinChars int
}

// DefaultSettings returns the standard parameters for a kind.
func DefaultSettings(kind Kind) Settings {
	switch kind {
	case SituationReaction:
		return Settings{
			Kind:     SituationReaction,
			Timed:    false,
			MinWords: 3,
			MinChars: 10,
		}
	default:
		return Settings{
			Kind:      WordAssociation,
			Timed:     true,
			BudgetSec: 15,
			MinChars:  1,
		}
	}
}

// AcceptsResponse reports whether text satisfies the kind's minimum
// constraints for an explicit submit. Timed kinds only require a
// non-empty response; untimed kinds also enforce word and character
// minimums.
func (s Settings) AcceptsResponse(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < s.MinChars || trimmed == "" {
		return false
	}
	if s.MinWords > 0 && len(strings.Fields(trimmed)) < s.MinWords {
		return false
	}
	return true
}
