package usecase

import (
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// ExplorerService backs the grid, detail, local and favorites views
type ExplorerService interface {
	// Search returns identifiers matching query, case-insensitively. A space matches "_".
	Search(query string) ([]string, error)

	// Page returns the cards of one page of search results
	Page(query string, pageIndex int, prefs valueobject.DisplayPreferences) (*entity.TimezonePage, error)

	// Detail returns the single-zone view; unknown identifiers are NOT_FOUND
	Detail(timezoneID string, prefs valueobject.DisplayPreferences) (*entity.TimezoneDetail, error)

	// Local returns the detail view of the user's own zone
	Local(prefs valueobject.DisplayPreferences) (*entity.TimezoneDetail, error)

	// Favorites returns cards for the stored favorites in stored order
	Favorites(prefs valueobject.DisplayPreferences) ([]entity.TimezoneCard, error)
}
