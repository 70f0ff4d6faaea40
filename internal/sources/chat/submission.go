package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Messages carry links either as plain URLs or in the workspace's
	// <url|label> markup. The label, when present, is the candidate name.
	labeledLinkPattern = regexp.MustCompile(`<(https?://[^|>]*linkedin\.com/in/[^|>]+)\|([^>]+)>`)
	bareLinkPattern    = regexp.MustCompile(`<?(https?://(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%.]+)/?>?`)

	titleCaser = cases.Title(language.English)
)

// extractSubmission pulls the candidate profile URL and, when available, the
// candidate name out of a submission message. Returns "" when the message
// holds no profile link.
func extractSubmission(text string) (profileURL, name string) {
	if m := labeledLinkPattern.FindStringSubmatch(text); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	if m := bareLinkPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSuffix(m[1], "/"), nameNearLink(text, m[0])
	}
	return "", ""
}

// nameNearLink guesses the candidate name from the line holding the link:
// submissions conventionally read "Jane Doe - https://..." or put the name
// on the preceding line.
func nameNearLink(text, link string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, link) {
			continue
		}
		if name := nameFromLine(strings.Replace(line, link, "", 1)); name != "" {
			return name
		}
		if i > 0 {
			return nameFromLine(lines[i-1])
		}
		return ""
	}
	return ""
}

func nameFromLine(line string) string {
	line = strings.Trim(line, " \t-–:*_<>|")
	words := strings.Fields(line)
	// A plausible name is two to four capitalized-ish words.
	if len(words) < 2 || len(words) > 4 {
		return ""
	}
	for _, w := range words {
		if strings.ContainsAny(w, "@/:") {
			return ""
		}
	}
	return strings.Join(words, " ")
}

// ClientName derives the client name from a channel name by stripping the
// configured prefix and title-casing the remainder: "recruit-acme-corp"
// becomes "Acme Corp".
func ClientName(channelName, prefix string) string {
	name := strings.TrimPrefix(channelName, prefix)
	name = strings.Trim(name, "-_")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if name == "" {
		return channelName
	}
	return titleCaser.String(name)
}

// tsToTime converts an API timestamp ("1718400000.000100") to time.Time.
func tsToTime(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	sec, frac, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}
	}
	var ns int64
	if frac != "" {
		// Fractional part is microseconds.
		if us, err := strconv.ParseInt(frac, 10, 64); err == nil {
			ns = us * int64(time.Microsecond)
		}
	}
	return time.Unix(s, ns).UTC()
}

// timeToTS converts a time.Time to the API timestamp format.
func timeToTS(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}
