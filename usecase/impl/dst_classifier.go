package impl

import (
	"strings"
	"time"

	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

const zoneNameLocale = "en-US"

// seasonalSamples returns Jan 1 and Jul 1 at local midnight in the instant's year
func seasonalSamples(loc *time.Location, instant time.Time) (time.Time, time.Time) {
	year := instant.In(loc).Year()
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.July, 1, 0, 0, 0, 0, loc)
}

// SeasonalSampleClassifier compares the offset at the instant with the
// offsets on Jan 1 and Jul 1. Zones in the southern hemisphere are reported
// inverted, since their July sample is standard time.
type SeasonalSampleClassifier struct {
	resolver repository.LocationResolver
	offsets  usecase.OffsetExtractor
}

// NewSeasonalSampleClassifier creates the sampling heuristic classifier
func NewSeasonalSampleClassifier(resolver repository.LocationResolver, offsets usecase.OffsetExtractor) *SeasonalSampleClassifier {
	return &SeasonalSampleClassifier{resolver: resolver, offsets: offsets}
}

// Classify implements usecase.DSTClassifier
func (c *SeasonalSampleClassifier) Classify(timezoneID string, instant time.Time) valueobject.DSTStatus {
	loc, err := c.resolver.Load(timezoneID)
	if err != nil {
		return valueobject.DSTUnavailable
	}
	jan, jul := seasonalSamples(loc, instant)

	janOffset := c.offsets.UTCOffset(timezoneID, jan)
	julOffset := c.offsets.UTCOffset(timezoneID, jul)
	nowOffset := c.offsets.UTCOffset(timezoneID, instant)
	for _, o := range []string{janOffset, julOffset, nowOffset} {
		if o == valueobject.OffsetUnavailable {
			return valueobject.DSTUnavailable
		}
	}

	switch {
	case janOffset == julOffset:
		return valueobject.DSTNeverObserved
	case nowOffset == janOffset:
		return valueobject.DSTNotObserving
	case nowOffset == julOffset:
		return valueobject.DSTObserving
	default:
		return valueobject.DSTOffsetVaries
	}
}

// ZoneNameClassifier inspects the English long zone name
type ZoneNameClassifier struct {
	resolver  repository.LocationResolver
	formatter repository.LocaleFormatter
}

// NewZoneNameClassifier creates a classifier driven by names such as "Eastern Daylight Time"
func NewZoneNameClassifier(resolver repository.LocationResolver, formatter repository.LocaleFormatter) *ZoneNameClassifier {
	return &ZoneNameClassifier{resolver: resolver, formatter: formatter}
}

// Classify implements usecase.DSTClassifier
func (c *ZoneNameClassifier) Classify(timezoneID string, instant time.Time) valueobject.DSTStatus {
	loc, err := c.resolver.Load(timezoneID)
	if err != nil {
		return valueobject.DSTUnavailable
	}

	name, err := c.formatter.ZoneLongName(instant.In(loc), zoneNameLocale)
	if err != nil {
		return valueobject.DSTUnknown
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "summer"), strings.Contains(lower, "daylight"):
		return valueobject.DSTObserving
	case strings.Contains(lower, "standard"):
		return valueobject.DSTNotObserving
	default:
		return valueobject.DSTUnknown
	}
}

// RuleClassifier trusts the tz database's own daylight flag
type RuleClassifier struct {
	resolver repository.LocationResolver
}

// NewRuleClassifier creates a classifier backed by time.Time.IsDST
func NewRuleClassifier(resolver repository.LocationResolver) *RuleClassifier {
	return &RuleClassifier{resolver: resolver}
}

// Classify implements usecase.DSTClassifier
func (c *RuleClassifier) Classify(timezoneID string, instant time.Time) valueobject.DSTStatus {
	loc, err := c.resolver.Load(timezoneID)
	if err != nil {
		return valueobject.DSTUnavailable
	}

	local := instant.In(loc)
	if local.IsDST() {
		return valueobject.DSTObserving
	}

	jan, jul := seasonalSamples(loc, instant)
	_, janOffset := jan.Zone()
	_, julOffset := jul.Zone()
	if janOffset == julOffset && !jan.IsDST() && !jul.IsDST() {
		return valueobject.DSTNeverObserved
	}
	return valueobject.DSTNotObserving
}

// ChainClassifier returns the first conclusive answer of its members
type ChainClassifier struct {
	classifiers []usecase.DSTClassifier
}

// NewChainClassifier creates a classifier that consults classifiers in order
func NewChainClassifier(classifiers ...usecase.DSTClassifier) *ChainClassifier {
	return &ChainClassifier{classifiers: classifiers}
}

// Classify implements usecase.DSTClassifier. When no member is conclusive
// the first member's answer is returned.
func (c *ChainClassifier) Classify(timezoneID string, instant time.Time) valueobject.DSTStatus {
	if len(c.classifiers) == 0 {
		return valueobject.DSTUnknown
	}

	var first valueobject.DSTStatus
	for i, classifier := range c.classifiers {
		status := classifier.Classify(timezoneID, instant)
		if i == 0 {
			first = status
		}
		if status.IsConclusive() {
			return status
		}
	}
	return first
}

// NewDSTClassifier builds the classifier for a configured strategy.
// Unknown strategies use the sampled chain.
func NewDSTClassifier(
	strategy string,
	resolver repository.LocationResolver,
	offsets usecase.OffsetExtractor,
	formatter repository.LocaleFormatter,
) usecase.DSTClassifier {
	switch strategy {
	case config.DSTStrategyZoneName:
		return NewZoneNameClassifier(resolver, formatter)
	case config.DSTStrategyRules:
		return NewRuleClassifier(resolver)
	default:
		return NewChainClassifier(
			NewSeasonalSampleClassifier(resolver, offsets),
			NewZoneNameClassifier(resolver, formatter),
		)
	}
}
