package usecase

import (
	"context"

	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// PreferenceService owns the display preferences and favorites.
// Setters return a PREFERENCE_ERROR when persisting fails; the new value
// is still applied in memory and published to subscribers.
type PreferenceService interface {
	Get() valueobject.DisplayPreferences

	// Update applies mutator to a copy of the current preferences and saves the result
	Update(mutator func(*valueobject.DisplayPreferences)) (valueobject.DisplayPreferences, error)

	SetTimeFormat(format string) error
	SetDateLocale(locale string) error
	SetDarkMode(enabled bool) error

	// Reset restores and persists the defaults
	Reset() error

	// Subscribe returns a channel that always holds the latest preferences
	// after a change, and a function that cancels the subscription
	Subscribe() (<-chan valueobject.DisplayPreferences, func())

	// Watch reloads preferences written by other processes until ctx is done
	Watch(ctx context.Context) error

	AddFavorite(timezoneID string) error
	RemoveFavorite(timezoneID string) error
	Favorites() []string
	IsFavorite(timezoneID string) bool
}
