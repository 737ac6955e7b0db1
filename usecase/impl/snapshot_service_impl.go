package impl

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// UTCFallbackLabel marks times rendered in UTC because the zone could not be used
const UTCFallbackLabel = " (UTC)"

type attemptOutcome int

const (
	outcomePrimary attemptOutcome = iota
	outcomeLocaleFallback
	outcomeZoneFallback
	outcomeSentinel
)

func (o attemptOutcome) String() string {
	switch o {
	case outcomePrimary:
		return "primary"
	case outcomeLocaleFallback:
		return "locale_fallback"
	case outcomeZoneFallback:
		return "zone_fallback"
	default:
		return "sentinel"
	}
}

// formatAttempt renders date and time, or fails
type formatAttempt struct {
	outcome attemptOutcome
	run     func() (date string, clock string, err error)
}

// SnapshotServiceImpl implements usecase.SnapshotService
type SnapshotServiceImpl struct {
	resolver      repository.LocationResolver
	formatter     repository.LocaleFormatter
	offsets       usecase.OffsetExtractor
	classifier    usecase.DSTClassifier
	defaultLocale string
	logger        domain.Logger

	counters [outcomeSentinel + 1]atomic.Uint64
}

// NewSnapshotService creates a snapshot service. An empty defaultLocale means en-US.
func NewSnapshotService(
	resolver repository.LocationResolver,
	formatter repository.LocaleFormatter,
	offsets usecase.OffsetExtractor,
	classifier usecase.DSTClassifier,
	defaultLocale string,
	logger domain.Logger,
) *SnapshotServiceImpl {
	if defaultLocale == "" {
		defaultLocale = valueobject.DefaultDateLocale
	}
	return &SnapshotServiceImpl{
		resolver:      resolver,
		formatter:     formatter,
		offsets:       offsets,
		classifier:    classifier,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// FormatSnapshot implements usecase.SnapshotService
func (s *SnapshotServiceImpl) FormatSnapshot(instant time.Time, timezoneID string, prefs valueobject.DisplayPreferences) (snapshot entity.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(context.Background(), "Snapshot formatting panicked",
				domain.NewField("timezone", timezoneID),
				domain.NewField("panic", fmt.Sprint(r)))
			s.counters[outcomeSentinel].Add(1)
			snapshot = entity.NewErrorSnapshot()
		}
	}()

	prefs = prefs.Normalize()
	date, clock := s.formatDateTime(instant, timezoneID, prefs)

	snapshot = entity.Snapshot{
		Date:      date,
		Time:      clock,
		Offset:    s.offsets.UTCOffset(timezoneID, instant),
		DSTStatus: s.classifier.Classify(timezoneID, instant).String(),
	}
	return snapshot.FillMissing()
}

// formatDateTime walks the attempt list until one succeeds
func (s *SnapshotServiceImpl) formatDateTime(instant time.Time, timezoneID string, prefs valueobject.DisplayPreferences) (string, string) {
	hour12 := prefs.Hour12()
	attempts := []formatAttempt{
		{outcomePrimary, func() (string, string, error) {
			return s.formatIn(instant, timezoneID, prefs.DateLocale, hour12)
		}},
		{outcomeLocaleFallback, func() (string, string, error) {
			return s.formatIn(instant, timezoneID, s.defaultLocale, hour12)
		}},
		{outcomeZoneFallback, func() (string, string, error) {
			date, clock, err := s.render(instant.UTC(), s.defaultLocale, hour12)
			if err != nil {
				return "", "", err
			}
			return date, clock + UTCFallbackLabel, nil
		}},
	}

	var lastErr error
	for _, attempt := range attempts {
		date, clock, err := attempt.run()
		if err != nil {
			lastErr = err
			continue
		}
		s.record(attempt.outcome, timezoneID, prefs.DateLocale, lastErr)
		return date, clock
	}

	s.record(outcomeSentinel, timezoneID, prefs.DateLocale, lastErr)
	return entity.PlaceholderUnavailable, entity.PlaceholderUnavailable
}

func (s *SnapshotServiceImpl) formatIn(instant time.Time, timezoneID, locale string, hour12 bool) (string, string, error) {
	loc, err := s.resolver.Load(timezoneID)
	if err != nil {
		return "", "", err
	}
	return s.render(instant.In(loc), locale, hour12)
}

func (s *SnapshotServiceImpl) render(t time.Time, locale string, hour12 bool) (string, string, error) {
	date, err := s.formatter.FormatDate(t, locale)
	if err != nil {
		return "", "", err
	}
	clock, err := s.formatter.FormatTime(t, locale, hour12)
	if err != nil {
		return "", "", err
	}
	return date, clock, nil
}

func (s *SnapshotServiceImpl) record(outcome attemptOutcome, timezoneID, locale string, cause error) {
	s.counters[outcome].Add(1)
	if outcome == outcomePrimary {
		return
	}

	fields := []domain.Field{
		domain.NewField("timezone", timezoneID),
		domain.NewField("locale", locale),
		domain.NewField("attempt", outcome.String()),
	}
	if cause != nil {
		fields = append(fields, domain.NewField("error", cause.Error()))
	}
	s.logger.Warn(context.Background(), "Snapshot formatting fell back", fields...)
}

// Stats implements usecase.SnapshotService
func (s *SnapshotServiceImpl) Stats() usecase.FormatterStats {
	return usecase.FormatterStats{
		Primary:        s.counters[outcomePrimary].Load(),
		LocaleFallback: s.counters[outcomeLocaleFallback].Load(),
		ZoneFallback:   s.counters[outcomeZoneFallback].Load(),
		Sentinel:       s.counters[outcomeSentinel].Load(),
	}
}
