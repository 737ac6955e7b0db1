package valueobject

// DSTStatus is the human-readable daylight saving classification of a zone at an instant.
type DSTStatus string

const (
	DSTObserving     DSTStatus = "Observing DST"
	DSTNotObserving  DSTStatus = "Not Observing DST"
	DSTNeverObserved DSTStatus = "Does not observe DST"
	DSTOffsetVaries  DSTStatus = "Offset varies"
	DSTUnknown       DSTStatus = "Unknown"
	DSTUnavailable   DSTStatus = "DST Status N/A"
)

// IsConclusive reports whether the status answers the observing question.
// "Offset varies" and "Unknown" leave room for another strategy to decide.
func (s DSTStatus) IsConclusive() bool {
	switch s {
	case DSTObserving, DSTNotObserving, DSTNeverObserved:
		return true
	default:
		return false
	}
}

func (s DSTStatus) String() string {
	return string(s)
}
