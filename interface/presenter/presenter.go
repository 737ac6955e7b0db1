package presenter

import (
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// Presenter renders explorer results for the terminal
type Presenter interface {
	PrintVersion(version string)
	PrintError(err error)
	PrintMessage(msg string)
	PrintStringList(title string, items []string) error

	// Explorer views. prefs selects the theme.
	PrintPage(page *entity.TimezonePage, prefs valueobject.DisplayPreferences) error
	PrintDetail(detail *entity.TimezoneDetail, prefs valueobject.DisplayPreferences) error
	PrintFavorites(cards []entity.TimezoneCard, prefs valueobject.DisplayPreferences) error

	PrintPreferences(prefs valueobject.DisplayPreferences) error

	// BeginFrame is called before each live refresh
	BeginFrame()
}
