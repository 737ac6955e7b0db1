package impl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	"github.com/ca-srg/tzexplorer/infrastructure/service"
)

// fixedClassifier always answers the same status
type fixedClassifier struct {
	status valueobject.DSTStatus
	calls  int
}

func (f *fixedClassifier) Classify(timezoneID string, instant time.Time) valueobject.DSTStatus {
	f.calls++
	return f.status
}

// scriptedOffsets returns offsets by month
type scriptedOffsets map[time.Month]string

func (s scriptedOffsets) UTCOffset(timezoneID string, instant time.Time) string {
	return s[instant.Month()]
}

func TestSeasonalSampleClassifier(t *testing.T) {
	resolver := &stubResolver{}
	classifier := NewSeasonalSampleClassifier(resolver, NewOffsetExtractor(resolver))

	tests := []struct {
		name     string
		zone     string
		instant  time.Time
		expected valueobject.DSTStatus
	}{
		{"new york winter", "America/New_York", winterInstant, valueobject.DSTNotObserving},
		{"new york summer", "America/New_York", summerInstant, valueobject.DSTObserving},
		{"tokyo never", "Asia/Tokyo", summerInstant, valueobject.DSTNeverObserved},
		{"utc never", "UTC", winterInstant, valueobject.DSTNeverObserved},
		{"kolkata never", "Asia/Kolkata", winterInstant, valueobject.DSTNeverObserved},
		// southern hemisphere is reported inverted by this heuristic
		{"sydney january", "Australia/Sydney", winterInstant, valueobject.DSTNotObserving},
		{"unknown zone", "Mars/Olympus_Mons", winterInstant, valueobject.DSTUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.zone, tt.instant))
		})
	}
}

func TestSeasonalSampleClassifier_Scripted(t *testing.T) {
	resolver := &stubResolver{}
	march := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("offset varies", func(t *testing.T) {
		offsets := scriptedOffsets{time.January: "UTC+01:00", time.July: "UTC+02:00", time.March: "UTC+03:00"}
		classifier := NewSeasonalSampleClassifier(resolver, offsets)
		assert.Equal(t, valueobject.DSTOffsetVaries, classifier.Classify("UTC", march))
	})

	t.Run("sentinel sample", func(t *testing.T) {
		offsets := scriptedOffsets{time.January: valueobject.OffsetUnavailable, time.July: "UTC+02:00", time.March: "UTC+02:00"}
		classifier := NewSeasonalSampleClassifier(resolver, offsets)
		assert.Equal(t, valueobject.DSTUnavailable, classifier.Classify("UTC", march))
	})
}

func TestZoneNameClassifier(t *testing.T) {
	classifier := NewZoneNameClassifier(&stubResolver{}, service.NewLocaleFormatter())

	tests := []struct {
		name     string
		zone     string
		instant  time.Time
		expected valueobject.DSTStatus
	}{
		{"eastern standard", "America/New_York", winterInstant, valueobject.DSTNotObserving},
		{"eastern daylight", "America/New_York", summerInstant, valueobject.DSTObserving},
		{"greenwich mean time", "Europe/London", winterInstant, valueobject.DSTUnknown},
		{"numeric abbreviation", "Asia/Kathmandu", winterInstant, valueobject.DSTUnknown},
		{"unknown zone", "Mars/Olympus_Mons", winterInstant, valueobject.DSTUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.zone, tt.instant))
		})
	}
}

func TestRuleClassifier(t *testing.T) {
	classifier := NewRuleClassifier(&stubResolver{})

	tests := []struct {
		name     string
		zone     string
		instant  time.Time
		expected valueobject.DSTStatus
	}{
		{"new york winter", "America/New_York", winterInstant, valueobject.DSTNotObserving},
		{"new york summer", "America/New_York", summerInstant, valueobject.DSTObserving},
		{"sydney january", "Australia/Sydney", winterInstant, valueobject.DSTObserving},
		{"sydney july", "Australia/Sydney", summerInstant, valueobject.DSTNotObserving},
		{"tokyo never", "Asia/Tokyo", winterInstant, valueobject.DSTNeverObserved},
		{"unknown zone", "Mars/Olympus_Mons", winterInstant, valueobject.DSTUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.zone, tt.instant))
		})
	}
}

func TestChainClassifier(t *testing.T) {
	t.Run("first conclusive wins", func(t *testing.T) {
		first := &fixedClassifier{status: valueobject.DSTOffsetVaries}
		second := &fixedClassifier{status: valueobject.DSTObserving}
		third := &fixedClassifier{status: valueobject.DSTNotObserving}

		chain := NewChainClassifier(first, second, third)
		assert.Equal(t, valueobject.DSTObserving, chain.Classify("UTC", winterInstant))
		assert.Equal(t, 0, third.calls)
	})

	t.Run("inconclusive chain returns first answer", func(t *testing.T) {
		chain := NewChainClassifier(
			&fixedClassifier{status: valueobject.DSTOffsetVaries},
			&fixedClassifier{status: valueobject.DSTUnknown},
		)
		assert.Equal(t, valueobject.DSTOffsetVaries, chain.Classify("UTC", winterInstant))
	})

	t.Run("empty chain", func(t *testing.T) {
		assert.Equal(t, valueobject.DSTUnknown, NewChainClassifier().Classify("UTC", winterInstant))
	})
}

func TestNewDSTClassifier(t *testing.T) {
	resolver := &stubResolver{}
	offsets := NewOffsetExtractor(resolver)
	formatter := service.NewLocaleFormatter()

	assert.IsType(t, &ChainClassifier{}, NewDSTClassifier(config.DSTStrategySampled, resolver, offsets, formatter))
	assert.IsType(t, &ZoneNameClassifier{}, NewDSTClassifier(config.DSTStrategyZoneName, resolver, offsets, formatter))
	assert.IsType(t, &RuleClassifier{}, NewDSTClassifier(config.DSTStrategyRules, resolver, offsets, formatter))
	assert.IsType(t, &ChainClassifier{}, NewDSTClassifier("", resolver, offsets, formatter))
}

func TestDSTClassifiers_NoDSTZoneNeverReportsObserving(t *testing.T) {
	resolver := &stubResolver{}
	classifier := NewDSTClassifier(config.DSTStrategySampled, resolver, NewOffsetExtractor(resolver), service.NewLocaleFormatter())

	for month := time.January; month <= time.December; month++ {
		instant := time.Date(2024, month, 10, 6, 0, 0, 0, time.UTC)
		assert.Equal(t, valueobject.DSTNeverObserved, classifier.Classify("Asia/Tokyo", instant))
		assert.NotEqual(t, valueobject.DSTNeverObserved, classifier.Classify("America/Chicago", instant))
	}
}
