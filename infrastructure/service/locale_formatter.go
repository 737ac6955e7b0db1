package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de_DE"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es_ES"
	"github.com/go-playground/locales/fr_FR"
	"github.com/go-playground/locales/it_IT"
	"github.com/go-playground/locales/ja_JP"
	"github.com/go-playground/locales/ko_KR"
	"github.com/go-playground/locales/nl_NL"
	"github.com/go-playground/locales/pt_BR"
	"github.com/go-playground/locales/ru_RU"
	"golang.org/x/text/language"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
)

const (
	layout12Hour = "03:04:05 PM"
	layout24Hour = "15:04:05"

	zoneMarker = "\x1fzone\x1f"
)

type localeEntry struct {
	name       string
	translator locales.Translator
}

// LocaleFormatterImpl implements repository.LocaleFormatter on top of the
// CLDR tables shipped with go-playground/locales. The first entry is the
// matcher's default and must stay en-US.
type LocaleFormatterImpl struct {
	entries []localeEntry
	matcher language.Matcher
}

// NewLocaleFormatter creates a formatter covering the bundled locales
func NewLocaleFormatter() *LocaleFormatterImpl {
	translators := []locales.Translator{
		en_US.New(),
		en_GB.New(),
		de_DE.New(),
		fr_FR.New(),
		es_ES.New(),
		it_IT.New(),
		ja_JP.New(),
		pt_BR.New(),
		nl_NL.New(),
		ru_RU.New(),
		ko_KR.New(),
	}

	entries := make([]localeEntry, 0, len(translators))
	tags := make([]language.Tag, 0, len(translators))
	for _, tr := range translators {
		name := strings.ReplaceAll(tr.Locale(), "_", "-")
		entries = append(entries, localeEntry{name: name, translator: tr})
		tags = append(tags, language.MustParse(name))
	}

	return &LocaleFormatterImpl{
		entries: entries,
		matcher: language.NewMatcher(tags),
	}
}

// Resolve matches a BCP 47 tag against the bundled locales
func (f *LocaleFormatterImpl) Resolve(tag string) (repository.ResolvedLocale, error) {
	_, resolved, err := f.lookup(tag)
	return resolved, err
}

func (f *LocaleFormatterImpl) lookup(tag string) (locales.Translator, repository.ResolvedLocale, error) {
	requested := strings.TrimSpace(tag)
	if requested == "" {
		return nil, repository.ResolvedLocale{}, domain.ErrLocaleParse(tag, errors.New("empty locale tag"))
	}

	parsed, err := language.Parse(strings.ReplaceAll(requested, "_", "-"))
	if err != nil {
		return nil, repository.ResolvedLocale{}, domain.ErrLocaleParse(tag, err)
	}

	// Low means the matcher fell back to a language the user may merely
	// understand, e.g. sw -> en-US. Only same-language matches count.
	_, index, confidence := f.matcher.Match(parsed)
	if confidence < language.High || index < 0 || index >= len(f.entries) {
		return nil, repository.ResolvedLocale{}, domain.ErrLocaleUnsupported(tag)
	}

	entry := f.entries[index]
	return entry.translator, repository.ResolvedLocale{
		Requested: tag,
		Tag:       entry.name,
		Exact:     strings.EqualFold(parsed.String(), entry.name),
	}, nil
}

// FormatDate renders e.g. "Monday, January 15, 2024"
func (f *LocaleFormatterImpl) FormatDate(t time.Time, tag string) (string, error) {
	tr, _, err := f.lookup(tag)
	if err != nil {
		return "", err
	}
	return tr.FmtDateFull(t), nil
}

// FormatTime renders two-digit hour, minute and second. The day period
// uses the fixed AM/PM markers of the Go layout.
func (f *LocaleFormatterImpl) FormatTime(t time.Time, tag string, hour12 bool) (string, error) {
	if _, _, err := f.lookup(tag); err != nil {
		return "", err
	}
	if hour12 {
		return t.Format(layout12Hour), nil
	}
	return t.Format(layout24Hour), nil
}

// ZoneLongName returns the localized long zone name, or the zone
// abbreviation when the locale has no name for it.
func (f *LocaleFormatterImpl) ZoneLongName(t time.Time, tag string) (string, error) {
	tr, _, err := f.lookup(tag)
	if err != nil {
		return "", err
	}

	abbr, offset := t.Zone()
	if abbr == "" {
		return abbr, nil
	}

	// Same wall clock under an abbreviation no locale knows: the full time
	// pattern then shows where the zone name sits.
	marked := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(zoneMarker, offset))
	prefix, suffix, found := strings.Cut(tr.FmtTimeFull(marked), zoneMarker)
	if !found {
		return abbr, nil
	}

	full := tr.FmtTimeFull(t)
	if !strings.HasPrefix(full, prefix) || !strings.HasSuffix(full, suffix) || len(full) < len(prefix)+len(suffix) {
		return abbr, nil
	}
	name := strings.TrimSpace(full[len(prefix) : len(full)-len(suffix)])
	if name == "" {
		return abbr, nil
	}
	return name, nil
}

// SupportedLocales returns the bundled locale tags, en-US first
func (f *LocaleFormatterImpl) SupportedLocales() []string {
	names := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		names = append(names, e.name)
	}
	return names
}
