package impl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

var (
	winterInstant = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	summerInstant = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
)

func TestOffsetExtractor_UTCOffset(t *testing.T) {
	extractor := NewOffsetExtractor(&stubResolver{})

	tests := []struct {
		name     string
		zone     string
		instant  time.Time
		expected string
	}{
		{"new york winter", "America/New_York", winterInstant, "UTC-05:00"},
		{"new york summer", "America/New_York", summerInstant, "UTC-04:00"},
		{"tokyo", "Asia/Tokyo", winterInstant, "UTC+09:00"},
		{"half hour", "Asia/Kolkata", winterInstant, "UTC+05:30"},
		{"forty five minutes", "Asia/Kathmandu", winterInstant, "UTC+05:45"},
		{"chatham summer", "Pacific/Chatham", winterInstant, "UTC+13:45"},
		{"numeric abbreviation", "America/Sao_Paulo", winterInstant, "UTC-03:00"},
		{"posix style", "Etc/GMT+5", winterInstant, "UTC-05:00"},
		{"utc", "UTC", winterInstant, "UTC+00:00"},
		{"london winter", "Europe/London", winterInstant, "UTC+00:00"},
		{"london summer", "Europe/London", summerInstant, "UTC+01:00"},
		{"unknown zone", "Mars/Olympus_Mons", winterInstant, valueobject.OffsetUnavailable},
		{"empty zone", "", winterInstant, valueobject.OffsetUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.UTCOffset(tt.zone, tt.instant))
		})
	}
}

func TestOffsetExtractor_Idempotent(t *testing.T) {
	extractor := NewOffsetExtractor(&stubResolver{})
	first := extractor.UTCOffset("Australia/Adelaide", winterInstant)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extractor.UTCOffset("Australia/Adelaide", winterInstant))
	}
	assert.Equal(t, "UTC+10:30", first)
}

func TestOffsetAttempts(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	kathmandu, err := time.LoadLocation("Asia/Kathmandu")
	require.NoError(t, err)

	t.Run("token path skips alphabetic abbreviations", func(t *testing.T) {
		_, ok := offsetFromToken(newYork, winterInstant)
		assert.False(t, ok)
	})

	t.Run("token path reads numeric abbreviations", func(t *testing.T) {
		offset, ok := offsetFromToken(kathmandu, winterInstant)
		assert.True(t, ok)
		assert.Equal(t, "UTC+05:45", offset)
	})

	t.Run("wall clock path agrees with token path", func(t *testing.T) {
		offset, ok := offsetFromWallClock(kathmandu, winterInstant)
		assert.True(t, ok)
		assert.Equal(t, "UTC+05:45", offset)
	})

	t.Run("wall clock path across the date line", func(t *testing.T) {
		kiritimati, err := time.LoadLocation("Pacific/Kiritimati")
		require.NoError(t, err)
		offset, ok := offsetFromWallClock(kiritimati, time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC))
		assert.True(t, ok)
		assert.Equal(t, "UTC+14:00", offset)
	})
}
