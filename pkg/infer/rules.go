package infer

import (
	"regexp"
	"strings"
	"sync"
)

// Rules holds the per-source vocabularies the inferencers match against.
// Every list is independently configurable; each option affects only its
// owning rule, never cross-cutting behavior.
type Rules struct {
	// TerminalReactions on the parent submission message close a candidate
	// unconditionally. The single authoritative override.
	TerminalReactions []string `yaml:"terminal_reactions" mapstructure:"terminal_reactions"`

	// InProcessReactions mark a candidate explicitly in process.
	InProcessReactions []string `yaml:"in_process_reactions" mapstructure:"in_process_reactions"`

	// RejectionKeywords in thread replies close a candidate when no
	// terminal reaction is present.
	RejectionKeywords []string `yaml:"rejection_keywords" mapstructure:"rejection_keywords"`

	// ProgressKeywords in thread replies mark a candidate explicitly in
	// process.
	ProgressKeywords []string `yaml:"progress_keywords" mapstructure:"progress_keywords"`

	// RejectionTerms matched as case-insensitive substrings of an ATS
	// stage string close a candidate.
	RejectionTerms []string `yaml:"rejection_terms" mapstructure:"rejection_terms"`

	// SoftPassPhrases flag a candidate for manual review and exclude it
	// from automatic summary generation.
	SoftPassPhrases []string `yaml:"soft_pass_phrases" mapstructure:"soft_pass_phrases"`

	// EmailAdvancement, EmailScheduling, and EmailRejection classify email
	// subject+snippet text. Rejection is checked first, then scheduling,
	// then advancement.
	EmailAdvancement []string `yaml:"email_advancement" mapstructure:"email_advancement"`
	EmailScheduling  []string `yaml:"email_scheduling" mapstructure:"email_scheduling"`
	EmailRejection   []string `yaml:"email_rejection" mapstructure:"email_rejection"`

	// EventStages are interview stage words recognized in calendar event
	// titles, checked in order.
	EventStages []string `yaml:"event_stages" mapstructure:"event_stages"`
}

// IsZero reports whether no vocabulary is set at all, i.e. the config left
// the rules section empty.
func (r Rules) IsZero() bool {
	return len(r.TerminalReactions) == 0 &&
		len(r.InProcessReactions) == 0 &&
		len(r.RejectionKeywords) == 0 &&
		len(r.ProgressKeywords) == 0 &&
		len(r.RejectionTerms) == 0 &&
		len(r.SoftPassPhrases) == 0 &&
		len(r.EmailAdvancement) == 0 &&
		len(r.EmailScheduling) == 0 &&
		len(r.EmailRejection) == 0 &&
		len(r.EventStages) == 0
}

// DefaultRules returns the built-in vocabularies.
func DefaultRules() Rules {
	return Rules{
		TerminalReactions: []string{"no_entry", "no_entry_sign"},
		InProcessReactions: []string{
			"white_check_mark",
			"eyes",
			"hourglass_flowing_sand",
			"thumbsup",
			"arrows_counterclockwise",
		},
		RejectionKeywords: []string{
			"reject", "rejected",
			"decline", "declined",
			"not moving forward",
			"won't proceed", "wont proceed",
			"not a fit",
			"we'll pass", "well pass",
			"closing the loop", "closed the loop",
		},
		ProgressKeywords: []string{
			"tech screen", "screening",
			"onsite", "loop", "interview",
			"next round", "moving forward",
			"advancing", "advanced",
			"hm screen", "panel",
			"coding challenge", "take-home",
		},
		RejectionTerms: []string{
			"reject", "declined", "archived", "withdraw",
			"no hire", "no-hire",
		},
		SoftPassPhrases: []string{
			"comp mismatch", "compensation mismatch", "salary mismatch",
			"over budget", "overqualified", "underqualified",
			"not the right time", "not a priority", "keeping warm",
			"table this", "hold off", "put a pin",
			"on the fence",
		},
		EmailAdvancement: []string{
			"move forward", "moving forward", "advance", "advancing",
			"next round", "next step", "next stage", "proceed",
			"interview", "onsite", "loop",
			"technical screen", "coding challenge", "take-home",
		},
		EmailScheduling: []string{
			"calendar invite", "calendar link", "schedule", "scheduling",
			"book a time", "availability", "calendly", "zoom link",
			"google meet", "teams link",
		},
		EmailRejection: []string{
			"not moving forward", "not a fit", "not the right fit",
			"decline", "declined", "rejected", "rejection",
			"unfortunately", "decided not to", "going a different direction",
		},
		EventStages: []string{
			"onsite", "technical", "tech screen", "coding",
			"loop", "final", "intro", "phone",
		},
	}
}

var (
	boundaryMu    sync.Mutex
	boundaryCache = make(map[string]*regexp.Regexp)
)

// containsAny reports whether text contains any of the needle phrases,
// together with the first phrase that matched. Single words match on word
// boundaries so "pass" does not fire on "compass"; multi-word phrases match
// as substrings.
func containsAny(text string, needles []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lowered := strings.ToLower(text)

	for _, needle := range needles {
		if strings.Contains(needle, " ") {
			if strings.Contains(lowered, needle) {
				return needle, true
			}
			continue
		}
		if boundaryPattern(needle).MatchString(lowered) {
			return needle, true
		}
	}
	return "", false
}

func boundaryPattern(word string) *regexp.Regexp {
	boundaryMu.Lock()
	defer boundaryMu.Unlock()
	if re, ok := boundaryCache[word]; ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	boundaryCache[word] = re
	return re
}

// containsSubstring reports whether text contains any needle as a plain
// case-insensitive substring. Used for ATS stage terms, which are short
// labels rather than prose.
func containsSubstring(text string, needles []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lowered := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lowered, needle) {
			return needle, true
		}
	}
	return "", false
}
