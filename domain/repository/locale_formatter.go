package repository

import "time"

// ResolvedLocale is the outcome of matching a requested tag against the
// locales that have formatting data.
type ResolvedLocale struct {
	// Requested is the tag as given by the caller
	Requested string

	// Tag is the supported locale that will be used, e.g. "de-DE"
	Tag string

	// Exact is true when the requested tag names the supported locale directly
	Exact bool
}

// LocaleFormatter renders dates, times and zone names for a locale.
// All methods fail with a LOCALE_ERROR for malformed or unsupported tags.
type LocaleFormatter interface {
	Resolve(tag string) (ResolvedLocale, error)

	// FormatDate renders the long weekday, long month, numeric day and year
	FormatDate(t time.Time, tag string) (string, error)

	// FormatTime renders two-digit hour, minute and second
	FormatTime(t time.Time, tag string, hour12 bool) (string, error)

	// ZoneLongName returns the long generic name of t's zone, e.g. "Eastern Daylight Time"
	ZoneLongName(t time.Time, tag string) (string, error)

	SupportedLocales() []string
}
