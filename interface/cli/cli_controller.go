package cli

import (
	"context"
	"fmt"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/interface/controller"
	"github.com/ca-srg/tzexplorer/interface/presenter"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// CLIController carries out the explorer commands
type CLIController struct {
	explorer    usecase.ExplorerService
	preferences usecase.PreferenceService
	locales     repository.LocaleFormatter
	presenter   presenter.Presenter
	clock       *controller.ClockController
	daemon      *controller.DaemonController
	tray        *controller.TrayController
	logger      domain.Logger
}

// NewCLIController creates a new CLI controller. clock, daemon and tray are
// only needed by the live commands and may be nil otherwise.
func NewCLIController(
	explorer usecase.ExplorerService,
	preferences usecase.PreferenceService,
	locales repository.LocaleFormatter,
	p presenter.Presenter,
	clock *controller.ClockController,
	daemon *controller.DaemonController,
	tray *controller.TrayController,
	logger domain.Logger,
) *CLIController {
	return &CLIController{
		explorer:    explorer,
		preferences: preferences,
		locales:     locales,
		presenter:   p,
		clock:       clock,
		daemon:      daemon,
		tray:        tray,
		logger:      logger,
	}
}

// Presenter returns the presenter used for output and errors
func (c *CLIController) Presenter() presenter.Presenter {
	return c.presenter
}

// List prints one grid page
func (c *CLIController) List(query string, pageIndex int) error {
	return controller.PageView(c.explorer, c.presenter, query, pageIndex)(c.preferences.Get())
}

// Show prints the detail view of one zone
func (c *CLIController) Show(timezoneID string) error {
	return controller.DetailView(c.explorer, c.presenter, timezoneID)(c.preferences.Get())
}

// Local prints the detail view of the user's zone
func (c *CLIController) Local() error {
	return controller.LocalView(c.explorer, c.presenter)(c.preferences.Get())
}

// WatchOptions selects the view refreshed by Watch
type WatchOptions struct {
	Query     string
	Page      int
	Zone      string
	Local     bool
	Favorites bool
}

// Watch keeps a view live until ctx is done
func (c *CLIController) Watch(ctx context.Context, opts WatchOptions) error {
	if c.clock == nil {
		return domain.NewDomainError(domain.ErrCodeInvalidInput, "live clock is not configured")
	}

	var view controller.ClockView
	switch {
	case opts.Zone != "":
		view = controller.DetailView(c.explorer, c.presenter, opts.Zone)
	case opts.Local:
		view = controller.LocalView(c.explorer, c.presenter)
	case opts.Favorites:
		view = controller.FavoritesView(c.explorer, c.presenter)
	default:
		view = controller.PageView(c.explorer, c.presenter, opts.Query, opts.Page)
	}

	if c.daemon == nil {
		return c.clock.Run(ctx, view)
	}
	return c.daemon.Run(ctx, func(ctx context.Context) error {
		return c.clock.Run(ctx, view)
	})
}

// SettingsShow prints the current display preferences
func (c *CLIController) SettingsShow() error {
	return c.presenter.PrintPreferences(c.preferences.Get())
}

// SettingsChange holds the fields given to "settings set"
type SettingsChange struct {
	TimeFormat string
	Locale     string
	DarkMode   *bool
}

// SettingsSet applies the given changes and prints the result
func (c *CLIController) SettingsSet(change SettingsChange) error {
	if change.TimeFormat == "" && change.Locale == "" && change.DarkMode == nil {
		return domain.ErrInvalidInput("settings", "nothing to change")
	}

	if change.TimeFormat != "" {
		if err := c.preferences.SetTimeFormat(change.TimeFormat); err != nil {
			return err
		}
	}
	if change.Locale != "" {
		if _, err := c.locales.Resolve(change.Locale); err != nil {
			c.presenter.PrintMessage(fmt.Sprintf("Note: %s has no formatting data; dates fall back to the default locale", change.Locale))
		}
		if err := c.preferences.SetDateLocale(change.Locale); err != nil {
			return err
		}
	}
	if change.DarkMode != nil {
		if err := c.preferences.SetDarkMode(*change.DarkMode); err != nil {
			return err
		}
	}
	return c.SettingsShow()
}

// SettingsReset restores the default display preferences
func (c *CLIController) SettingsReset() error {
	if err := c.preferences.Reset(); err != nil {
		return err
	}
	return c.SettingsShow()
}

// FavoritesList prints the favorites grid
func (c *CLIController) FavoritesList() error {
	return controller.FavoritesView(c.explorer, c.presenter)(c.preferences.Get())
}

// FavoritesAdd stores a favorite after checking it is a listed zone
func (c *CLIController) FavoritesAdd(timezoneID string) error {
	if _, err := c.explorer.Detail(timezoneID, c.preferences.Get()); err != nil {
		return err
	}
	if err := c.preferences.AddFavorite(timezoneID); err != nil {
		return err
	}
	c.presenter.PrintMessage(fmt.Sprintf("Added %s to favorites", timezoneID))
	return nil
}

// FavoritesRemove deletes a favorite
func (c *CLIController) FavoritesRemove(timezoneID string) error {
	if err := c.preferences.RemoveFavorite(timezoneID); err != nil {
		return err
	}
	c.presenter.PrintMessage(fmt.Sprintf("Removed %s from favorites", timezoneID))
	return nil
}

// Tray runs the menu-bar clock
func (c *CLIController) Tray(ctx context.Context) error {
	if c.tray == nil {
		return domain.NewDomainError(domain.ErrCodeInvalidInput, "tray is not configured")
	}
	if c.daemon == nil {
		return c.tray.Run(ctx)
	}
	return c.daemon.Run(ctx, c.tray.Run)
}

// Locales prints the locale tags with formatting data
func (c *CLIController) Locales() error {
	return c.presenter.PrintStringList("Supported locales", c.locales.SupportedLocales())
}
