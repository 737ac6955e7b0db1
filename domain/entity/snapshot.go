package entity

import "github.com/ca-srg/tzexplorer/domain/valueobject"

const (
	// PlaceholderUnavailable fills date/time fields when no formatting attempt succeeded.
	PlaceholderUnavailable = "N/A"

	// PlaceholderError fills every field when rendering failed outright.
	PlaceholderError = "Error"
)

// Snapshot is the formatted view of one timezone at one instant.
// Every field is always populated, with a placeholder if necessary.
type Snapshot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Offset    string `json:"offset"`
	DSTStatus string `json:"dstStatus"`
}

// NewErrorSnapshot returns the snapshot used when rendering failed entirely.
func NewErrorSnapshot() Snapshot {
	return Snapshot{
		Date:      PlaceholderError,
		Time:      PlaceholderError,
		Offset:    PlaceholderError,
		DSTStatus: PlaceholderError,
	}
}

// NewUnavailableSnapshot returns the terminal fallback snapshot.
func NewUnavailableSnapshot() Snapshot {
	return Snapshot{
		Date:      PlaceholderUnavailable,
		Time:      PlaceholderUnavailable,
		Offset:    valueobject.OffsetUnavailable,
		DSTStatus: string(valueobject.DSTUnavailable),
	}
}

// IsComplete reports whether all four fields are non-empty.
func (s Snapshot) IsComplete() bool {
	return s.Date != "" && s.Time != "" && s.Offset != "" && s.DSTStatus != ""
}

// FillMissing replaces empty fields with placeholders.
func (s Snapshot) FillMissing() Snapshot {
	if s.Date == "" {
		s.Date = PlaceholderUnavailable
	}
	if s.Time == "" {
		s.Time = PlaceholderUnavailable
	}
	if s.Offset == "" {
		s.Offset = valueobject.OffsetUnavailable
	}
	if s.DSTStatus == "" {
		s.DSTStatus = string(valueobject.DSTUnavailable)
	}
	return s
}
