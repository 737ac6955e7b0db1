package usecase

import (
	"time"

	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// OffsetExtractor derives the "UTC±HH:MM" offset of a zone at an instant
type OffsetExtractor interface {
	// UTCOffset never fails; unresolvable zones yield valueobject.OffsetUnavailable
	UTCOffset(timezoneID string, instant time.Time) string
}

// DSTClassifier labels the daylight saving state of a zone at an instant
type DSTClassifier interface {
	Classify(timezoneID string, instant time.Time) valueobject.DSTStatus
}

// FormatterStats counts which formatting attempt produced each snapshot
type FormatterStats struct {
	Primary        uint64 `json:"primary"`
	LocaleFallback uint64 `json:"localeFallback"`
	ZoneFallback   uint64 `json:"zoneFallback"`
	Sentinel       uint64 `json:"sentinel"`
}

// Total returns the number of snapshots formatted
func (s FormatterStats) Total() uint64 {
	return s.Primary + s.LocaleFallback + s.ZoneFallback + s.Sentinel
}

// Fallbacks returns the number of snapshots that needed any fallback
func (s FormatterStats) Fallbacks() uint64 {
	return s.LocaleFallback + s.ZoneFallback + s.Sentinel
}

// SnapshotService renders the date, time, offset and DST status of a zone.
// It never returns errors; failures become fallbacks or placeholders.
type SnapshotService interface {
	FormatSnapshot(instant time.Time, timezoneID string, prefs valueobject.DisplayPreferences) entity.Snapshot

	// Stats returns a copy of the attempt counters
	Stats() FormatterStats
}
