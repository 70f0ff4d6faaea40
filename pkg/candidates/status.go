package candidates

// Status is a pipeline status derived from a source's signals, or the
// canonical status synthesized across sources.
type Status string

const (
	// StatusClosed means the candidate is out of process. Terminal; it
	// overrides everything.
	StatusClosed Status = "CLOSED"
	// StatusExplicit means the candidate is in process with an explicit
	// positive signal backing it.
	StatusExplicit Status = "IN_PROCESS_EXPLICIT"
	// StatusUnclear means the candidate is presumed in process absent
	// contrary evidence. The default.
	StatusUnclear Status = "IN_PROCESS_UNCLEAR"
	// StatusNoData marks a source that was checked and yielded nothing, or
	// could not be reached. Distinct from StatusUnclear: "checked, found
	// nothing" is not "found ambiguous signals". Never canonical.
	StatusNoData Status = "NO_DATA"
)

// String returns the string representation of a status.
func (s Status) String() string {
	return string(s)
}

// Severity orders statuses for override purposes:
// CLOSED > EXPLICIT > UNCLEAR > NO_DATA.
func (s Status) Severity() int {
	switch s {
	case StatusClosed:
		return 3
	case StatusExplicit:
		return 2
	case StatusUnclear:
		return 1
	default:
		return 0
	}
}

// Overrides reports whether s takes precedence over other.
func (s Status) Overrides(other Status) bool {
	return s.Severity() > other.Severity()
}

// Canonical reports whether the status is valid as a candidate's canonical
// status. NO_DATA is a per-source sentinel only.
func (s Status) Canonical() bool {
	switch s {
	case StatusClosed, StatusExplicit, StatusUnclear:
		return true
	default:
		return false
	}
}
