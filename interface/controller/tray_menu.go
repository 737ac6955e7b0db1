package controller

import (
	"fmt"

	"github.com/ca-srg/tzexplorer/domain/entity"
)

// DefaultTrayFavoritesLimit is used when the configured limit is not positive
const DefaultTrayFavoritesLimit = 10

// TrayMenuItem is one favorite row in the tray menu
type TrayMenuItem struct {
	TimezoneID string
	Text       string
}

// TrayMenu is the platform-independent content of the menu-bar clock
type TrayMenu struct {
	Title   string
	Tooltip string
	Items   []TrayMenuItem

	// Overflow is the "+N more" line, empty when every favorite fits
	Overflow string
}

// BuildTrayMenu renders the menu for the local zone and the favorites.
// local may be nil when the local zone could not be resolved.
func BuildTrayMenu(local *entity.TimezoneDetail, favorites []entity.TimezoneCard, limit int) TrayMenu {
	if limit <= 0 {
		limit = DefaultTrayFavoritesLimit
	}

	menu := TrayMenu{
		Title:   entity.PlaceholderUnavailable,
		Tooltip: "tzexplorer",
	}
	if local != nil {
		menu.Title = local.Snapshot.Time
		menu.Tooltip = fmt.Sprintf("tzexplorer\n%s\n%s (%s)\n%s",
			local.DisplayName, local.Snapshot.Date, local.Snapshot.Offset, local.Snapshot.DSTStatus)
	}

	shown := favorites
	if len(shown) > limit {
		shown = shown[:limit]
		menu.Overflow = fmt.Sprintf("+%d more", len(favorites)-limit)
	}

	menu.Items = make([]TrayMenuItem, 0, len(shown))
	for _, card := range shown {
		menu.Items = append(menu.Items, TrayMenuItem{
			TimezoneID: card.ID,
			Text:       trayItemText(card),
		})
	}
	return menu
}

func trayItemText(card entity.TimezoneCard) string {
	return fmt.Sprintf("%s — %s (%s)", card.DisplayName, card.Snapshot.Time, card.Snapshot.Offset)
}
