package impl

import (
	"time"

	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// offsetAttempt derives an offset string for a resolved zone, or reports false
type offsetAttempt func(loc *time.Location, instant time.Time) (string, bool)

// OffsetExtractorImpl implements usecase.OffsetExtractor
type OffsetExtractorImpl struct {
	resolver repository.LocationResolver
	attempts []offsetAttempt
}

// NewOffsetExtractor creates an extractor that prefers the zone's own offset
// token and falls back to wall-clock arithmetic
func NewOffsetExtractor(resolver repository.LocationResolver) *OffsetExtractorImpl {
	return &OffsetExtractorImpl{
		resolver: resolver,
		attempts: []offsetAttempt{offsetFromToken, offsetFromWallClock},
	}
}

// UTCOffset returns e.g. "UTC-05:00" or valueobject.OffsetUnavailable
func (e *OffsetExtractorImpl) UTCOffset(timezoneID string, instant time.Time) string {
	loc, err := e.resolver.Load(timezoneID)
	if err != nil {
		return valueobject.OffsetUnavailable
	}

	for _, attempt := range e.attempts {
		if offset, ok := attempt(loc, instant); ok {
			return offset
		}
	}
	return valueobject.OffsetUnavailable
}

// offsetFromToken reads the zone-name token ("GMT+5:30", "+0545", "-03").
// Alphabetic abbreviations such as "EST" yield nothing.
func offsetFromToken(loc *time.Location, instant time.Time) (string, bool) {
	return valueobject.NormalizeOffsetToken(instant.In(loc).Format("MST"))
}

// offsetFromWallClock subtracts the UTC wall clock from the zone wall clock
func offsetFromWallClock(loc *time.Location, instant time.Time) (string, bool) {
	utc := instant.UTC()
	local := instant.In(loc)

	pinnedUTC := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, time.UTC)
	pinnedLocal := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)

	return valueobject.FormatOffsetSeconds(int(pinnedLocal.Sub(pinnedUTC) / time.Second)), true
}
