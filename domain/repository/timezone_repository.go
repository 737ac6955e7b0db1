package repository

import (
	"time"
)

// LocationResolver loads IANA zones and detects the user's own zone.
type LocationResolver interface {
	// Load returns the location for an IANA identifier
	Load(timezoneID string) (*time.Location, error)

	// Local returns the user's timezone. On detection failure it returns UTC
	// together with a TIMEZONE_ERROR describing the fallback.
	Local() (*time.Location, error)

	// LocalInfo returns the user's timezone details at the given instant
	LocalInfo(at time.Time) TimezoneInfo
}

// TimezoneCatalogRepository enumerates the identifiers known to the platform.
type TimezoneCatalogRepository interface {
	// List returns every identifier, sorted and de-duplicated
	List() ([]string, error)

	// Contains reports whether the identifier is part of the catalog
	Contains(timezoneID string) (bool, error)
}

// TimezoneInfo contains timezone information for display and metrics
type TimezoneInfo struct {
	// Name is the timezone name (e.g., "America/New_York", "Asia/Tokyo")
	Name string

	// Offset is the UTC offset in the format "UTC+09:00" or "UTC-05:00"
	Offset string

	// OffsetSeconds is the offset from UTC in seconds
	OffsetSeconds int

	// IsDST indicates whether daylight saving time is currently active
	IsDST bool

	// DetectionMethod indicates how the timezone was determined
	// Values: "config", "system", "env", "localtime", "fallback"
	DetectionMethod string
}
