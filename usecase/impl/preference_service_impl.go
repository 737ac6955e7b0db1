package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// Storage keys shared with earlier preference records
const (
	PreferencesKey = "timezoneExplorerPreferences"
	FavoritesKey   = "timezoneExplorerFavorites"
)

// PreferenceServiceImpl implements usecase.PreferenceService
type PreferenceServiceImpl struct {
	repo     repository.PreferenceRepository
	resolver repository.LocationResolver
	logger   domain.Logger

	// saveMu orders whole read-modify-write cycles so the stored record
	// always matches the in-memory state. Acquire before mu.
	saveMu sync.Mutex

	mu        sync.RWMutex
	prefs     valueobject.DisplayPreferences
	favorites []string

	subsMu sync.Mutex
	subs   map[int]chan valueobject.DisplayPreferences
	nextID int
}

// NewPreferenceService loads the stored preferences and favorites
func NewPreferenceService(
	repo repository.PreferenceRepository,
	resolver repository.LocationResolver,
	logger domain.Logger,
) *PreferenceServiceImpl {
	s := &PreferenceServiceImpl{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
		subs:     make(map[int]chan valueobject.DisplayPreferences),
	}
	s.prefs, s.favorites = s.load()
	return s
}

// load reads both records. Unreadable records are removed so the next
// write starts clean.
func (s *PreferenceServiceImpl) load() (valueobject.DisplayPreferences, []string) {
	ctx := context.Background()
	prefs := valueobject.DefaultDisplayPreferences()

	if raw, ok, err := s.repo.Get(PreferencesKey); err != nil {
		s.logger.Warn(ctx, "Failed to read preferences, using defaults", domain.NewField("error", err.Error()))
	} else if ok {
		decoded, err := valueobject.DecodeDisplayPreferences(raw)
		if err != nil {
			s.logger.Warn(ctx, "Stored preferences are corrupt, resetting", domain.NewField("error", err.Error()))
			s.discard(PreferencesKey)
		}
		prefs = decoded
	}

	favorites := []string{}
	if raw, ok, err := s.repo.Get(FavoritesKey); err != nil {
		s.logger.Warn(ctx, "Failed to read favorites", domain.NewField("error", err.Error()))
	} else if ok {
		var stored []string
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			s.logger.Warn(ctx, "Stored favorites are corrupt, resetting", domain.NewField("error", err.Error()))
			s.discard(FavoritesKey)
		} else {
			favorites = s.sanitizeFavorites(stored)
		}
	}

	return prefs, favorites
}

func (s *PreferenceServiceImpl) discard(key string) {
	if err := s.repo.Delete(key); err != nil {
		s.logger.Warn(context.Background(), "Failed to remove corrupt record",
			domain.NewField("key", key),
			domain.NewField("error", err.Error()))
	}
}

// sanitizeFavorites drops duplicates and identifiers that no longer resolve
func (s *PreferenceServiceImpl) sanitizeFavorites(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, err := s.resolver.Load(id); err != nil {
			s.logger.Debug(context.Background(), "Dropping unresolvable favorite", domain.NewField("timezone", id))
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// Get returns the current preferences
func (s *PreferenceServiceImpl) Get() valueobject.DisplayPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update applies mutator, stores the result and notifies subscribers
func (s *PreferenceServiceImpl) Update(mutator func(*valueobject.DisplayPreferences)) (valueobject.DisplayPreferences, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	next := s.prefs
	mutator(&next)
	next = next.Normalize()
	s.prefs = next
	s.mu.Unlock()

	err := s.savePreferences(next)
	s.publish(next)
	return next, err
}

func (s *PreferenceServiceImpl) savePreferences(prefs valueobject.DisplayPreferences) error {
	data, err := prefs.Encode()
	if err == nil {
		err = s.repo.Set(PreferencesKey, data)
	}
	if err != nil {
		s.logger.Warn(context.Background(), "Failed to save preferences", domain.NewField("error", err.Error()))
		return domain.ErrPreference("SavePreferences", err)
	}
	return nil
}

// SetTimeFormat accepts "12", "24", "12h" or "24h"
func (s *PreferenceServiceImpl) SetTimeFormat(format string) error {
	tf, err := valueobject.ParseTimeFormat(format)
	if err != nil {
		return domain.ErrInvalidInput("time format", err.Error())
	}
	_, err = s.Update(func(p *valueobject.DisplayPreferences) { p.TimeFormat = tf })
	return err
}

// SetDateLocale stores a BCP 47 tag
func (s *PreferenceServiceImpl) SetDateLocale(locale string) error {
	locale = strings.TrimSpace(locale)
	if len(locale) < 2 {
		return domain.ErrInvalidInput("locale", fmt.Sprintf("%q is not a locale tag", locale))
	}
	_, err := s.Update(func(p *valueobject.DisplayPreferences) { p.DateLocale = locale })
	return err
}

func (s *PreferenceServiceImpl) SetDarkMode(enabled bool) error {
	_, err := s.Update(func(p *valueobject.DisplayPreferences) { p.DarkMode = enabled })
	return err
}

// Reset restores the default display preferences. Favorites are kept.
func (s *PreferenceServiceImpl) Reset() error {
	_, err := s.Update(func(p *valueobject.DisplayPreferences) {
		*p = valueobject.DefaultDisplayPreferences()
	})
	return err
}

// Subscribe returns a channel holding the latest preferences after each change
func (s *PreferenceServiceImpl) Subscribe() (<-chan valueobject.DisplayPreferences, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan valueobject.DisplayPreferences, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish replaces any undelivered value so slow readers only see the latest
func (s *PreferenceServiceImpl) publish(prefs valueobject.DisplayPreferences) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- prefs:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- prefs:
			default:
			}
		}
	}
}

// Watch blocks, reloading records written by other processes, until ctx is
// done or the store stops notifying
func (s *PreferenceServiceImpl) Watch(ctx context.Context) error {
	changes, err := s.repo.Watch(ctx)
	if err != nil {
		return domain.ErrPreference("Watch", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			s.reload()
		}
	}
}

// reload applies stored state and publishes when the preferences differ
func (s *PreferenceServiceImpl) reload() {
	prefs, favorites := s.load()

	s.mu.Lock()
	changed := prefs != s.prefs
	s.prefs = prefs
	s.favorites = favorites
	s.mu.Unlock()

	if changed {
		s.logger.Debug(context.Background(), "Preferences changed externally",
			domain.NewField("timeFormat", string(prefs.TimeFormat)),
			domain.NewField("dateLocale", prefs.DateLocale),
			domain.NewField("darkMode", prefs.DarkMode))
		s.publish(prefs)
	}
}

// AddFavorite appends a resolvable identifier; existing favorites are left alone
func (s *PreferenceServiceImpl) AddFavorite(timezoneID string) error {
	id := strings.TrimSpace(timezoneID)
	if _, err := s.resolver.Load(id); err != nil {
		return domain.ErrNotFound("timezone", id)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	for _, existing := range s.favorites {
		if existing == id {
			s.mu.Unlock()
			return nil
		}
	}
	s.favorites = append(s.favorites, id)
	snapshot := append([]string(nil), s.favorites...)
	s.mu.Unlock()

	return s.saveFavorites(snapshot)
}

// RemoveFavorite deletes an identifier from the favorites
func (s *PreferenceServiceImpl) RemoveFavorite(timezoneID string) error {
	id := strings.TrimSpace(timezoneID)

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	index := -1
	for i, existing := range s.favorites {
		if existing == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return domain.ErrNotFound("favorite", id)
	}
	s.favorites = append(s.favorites[:index:index], s.favorites[index+1:]...)
	snapshot := append([]string(nil), s.favorites...)
	s.mu.Unlock()

	return s.saveFavorites(snapshot)
}

func (s *PreferenceServiceImpl) saveFavorites(favorites []string) error {
	data, err := json.Marshal(favorites)
	if err == nil {
		err = s.repo.Set(FavoritesKey, string(data))
	}
	if err != nil {
		s.logger.Warn(context.Background(), "Failed to save favorites", domain.NewField("error", err.Error()))
		return domain.ErrPreference("SaveFavorites", err)
	}
	return nil
}

// Favorites returns the favorites in stored order
func (s *PreferenceServiceImpl) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.favorites...)
}

func (s *PreferenceServiceImpl) IsFavorite(timezoneID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.favorites {
		if id == timezoneID {
			return true
		}
	}
	return false
}
