package candidates

import "slices"

// Source identifies which system an observation came from.
type Source string

// String returns the string representation of a source.
func (s Source) String() string {
	return string(s)
}

// The data sources a candidate can be observed in.
const (
	// SourceChat is the chat platform where submissions are posted.
	SourceChat Source = "chat"
	// SourceATS is the applicant-tracking system.
	SourceATS Source = "ats"
	// SourceEmail is the operator's email.
	SourceEmail Source = "email"
	// SourceCalendar is the operator's calendar.
	SourceCalendar Source = "calendar"
)

// Sources returns all defined sources.
// This provides a convenient way to iterate over all Source values.
func Sources() []Source {
	return []Source{
		SourceChat,
		SourceATS,
		SourceEmail,
		SourceCalendar,
	}
}

// IsValid returns true if the source is one of the defined constants.
// Uses Sources() to ensure consistency with the authoritative list.
func (s Source) IsValid() bool {
	return slices.Contains(Sources(), s)
}

// Authoritative reports whether this source can set the canonical status.
// Email and calendar contribute evidence to the summary only.
func (s Source) Authoritative() bool {
	return s == SourceChat || s == SourceATS
}
