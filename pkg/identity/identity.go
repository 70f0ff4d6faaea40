// Package identity establishes candidate identity across data sources.
// A candidate observed in chat, in the ATS, in email, and on the calendar
// carries different raw identifiers with different reliability; this package
// normalizes them into one stable Key so the same person is merged, never
// duplicated.
//
// Resolution is a pure function of its inputs: the same raw identifier
// always yields the same Key, and matching is symmetric and transitive
// within a single client context.
package identity

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/candidatelabs/talentsync/pkg/errors"
)

// Key is the normalized identity used to recognize the same candidate
// across independent sources. Two records with the same Key are the same
// person and must be merged.
type Key string

// String returns the string representation of a key.
func (k Key) String() string {
	return string(k)
}

// IsZero reports whether the key is empty.
func (k Key) IsZero() bool {
	return k == ""
}

// Confidence grades how reliable a match between two identities is.
type Confidence int

const (
	// MatchNone means the identities do not refer to the same person.
	MatchNone Confidence = iota
	// MatchLow means the names agree but the contexts do not; the match is
	// surfaced for review, never merged automatically.
	MatchLow
	// MatchHigh means canonical URLs agree, or names agree within the same
	// client context.
	MatchHigh
)

// String returns a human-readable confidence label.
func (c Confidence) String() string {
	switch c {
	case MatchHigh:
		return "high"
	case MatchLow:
		return "low"
	default:
		return "none"
	}
}

// Identity is a raw identifier as a source observed it.
type Identity struct {
	// ProfileURL is the candidate's profile URL when the source had one.
	ProfileURL string
	// Name is the candidate's full name as observed.
	Name string
	// Context is the client or channel the observation belongs to.
	// Name-only matches are scoped to it.
	Context string
}

// Resolver normalizes and matches raw identities. It is safe for concurrent
// use; all methods are side-effect free.
type Resolver struct {
	nicknames map[string]string // normalized nickname -> canonical representative
}

// NewResolver creates a resolver with the given nickname-equivalence groups.
// Each group lists names that refer to the same person (e.g. "Andrew",
// "Andy", "Drew"); the first entry is the canonical representative.
func NewResolver(groups [][]string) *Resolver {
	nicknames := make(map[string]string)
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		canonical := NormalizeName(group[0])
		for _, name := range group {
			nicknames[NormalizeName(name)] = canonical
		}
	}
	return &Resolver{nicknames: nicknames}
}

// DefaultNicknames is the built-in nickname-equivalence table. Configuration
// may extend or replace it.
func DefaultNicknames() [][]string {
	return [][]string{
		{"andrew", "andy", "drew"},
		{"william", "will", "bill", "billy"},
		{"robert", "rob", "bob", "bobby"},
		{"elizabeth", "liz", "beth", "lizzie"},
		{"katherine", "kate", "katie", "kathy"},
		{"michael", "mike"},
		{"matthew", "matt"},
		{"christopher", "chris"},
		{"jennifer", "jen", "jenny"},
		{"joseph", "joe", "joey"},
		{"daniel", "dan", "danny"},
		{"james", "jim", "jimmy"},
		{"alexander", "alex"},
		{"nicholas", "nick"},
		{"samantha", "sam"},
		{"samuel", "sam"},
		{"benjamin", "ben"},
		{"jonathan", "jon"},
		{"anthony", "tony"},
		{"steven", "steve"},
		{"thomas", "tom", "tommy"},
		{"richard", "rich", "rick"},
		{"edward", "ed", "eddie"},
		{"margaret", "maggie", "meg"},
		{"patricia", "pat", "trish"},
	}
}

// Resolve normalizes a raw identity into a Key. A canonical profile URL is
// preferred; absent one, the key is the normalized name scoped to the
// identity's context so cross-context name collisions never collapse into
// one candidate.
func (r *Resolver) Resolve(id Identity) (Key, error) {
	if canonical := CanonicalProfileURL(id.ProfileURL); canonical != "" {
		return Key(canonical), nil
	}

	name := r.canonicalName(id.Name)
	if name == "" {
		return "", errors.NewValidationError("identity", id, "neither profile URL nor name present")
	}
	if id.Context == "" {
		return Key("name:" + name), nil
	}
	return Key("name:" + normalizeContext(id.Context) + "/" + name), nil
}

// Match reports whether two identities refer to the same person.
// Canonical URL equality is authoritative. When at least one side has no
// URL, normalized names must be equal or nickname-equivalent; if the
// contexts differ the match is reported as MatchLow and must not be merged.
func (r *Resolver) Match(a, b Identity) Confidence {
	urlA := CanonicalProfileURL(a.ProfileURL)
	urlB := CanonicalProfileURL(b.ProfileURL)
	if urlA != "" && urlB != "" {
		if urlA == urlB {
			return MatchHigh
		}
		return MatchNone
	}

	nameA := r.canonicalName(a.Name)
	nameB := r.canonicalName(b.Name)
	if nameA == "" || nameB == "" || nameA != nameB {
		return MatchNone
	}

	if normalizeContext(a.Context) == normalizeContext(b.Context) {
		return MatchHigh
	}
	return MatchLow
}

// canonicalName normalizes a name and folds nickname-equivalent first names
// onto their canonical representative.
func (r *Resolver) canonicalName(name string) string {
	normalized := NormalizeName(name)
	if normalized == "" {
		return ""
	}
	parts := strings.Fields(normalized)
	if canonical, ok := r.nicknames[parts[0]]; ok {
		parts[0] = canonical
	}
	return strings.Join(parts, " ")
}

// CanonicalProfileURL normalizes a profile URL: lower-cases host and path,
// strips query parameters, fragments, and the tracking cruft sources append,
// and resolves the trailing slash. Returns "" when the input is not a URL.
func CanonicalProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.ToLower(u.Path)
	path = strings.TrimSuffix(path, "/")

	return "https://" + host + path
}

// NormalizeName canonicalizes a full name for matching: case-folded,
// whitespace-collapsed, diacritics stripped.
func NormalizeName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}

	name = stripDiacritics(name)

	return strings.Join(strings.Fields(name), " ")
}

// stripDiacritics removes combining marks so "José" matches "Jose".
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeContext canonicalizes a channel or client context label.
func normalizeContext(context string) string {
	return strings.Join(strings.Fields(strings.ToLower(context)), " ")
}
