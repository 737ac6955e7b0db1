package controller

import (
	"context"
	"sync"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/interface/presenter"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// ClockView renders one frame of a live view with the given preferences
type ClockView func(prefs valueobject.DisplayPreferences) error

// PageView renders one grid page
func PageView(explorer usecase.ExplorerService, p presenter.Presenter, query string, pageIndex int) ClockView {
	return func(prefs valueobject.DisplayPreferences) error {
		page, err := explorer.Page(query, pageIndex, prefs)
		if err != nil {
			return err
		}
		return p.PrintPage(page, prefs)
	}
}

// DetailView renders the single-zone view
func DetailView(explorer usecase.ExplorerService, p presenter.Presenter, timezoneID string) ClockView {
	return func(prefs valueobject.DisplayPreferences) error {
		detail, err := explorer.Detail(timezoneID, prefs)
		if err != nil {
			return err
		}
		return p.PrintDetail(detail, prefs)
	}
}

// LocalView renders the user's own zone
func LocalView(explorer usecase.ExplorerService, p presenter.Presenter) ClockView {
	return func(prefs valueobject.DisplayPreferences) error {
		detail, err := explorer.Local(prefs)
		if err != nil {
			return err
		}
		return p.PrintDetail(detail, prefs)
	}
}

// FavoritesView renders the favorites grid
func FavoritesView(explorer usecase.ExplorerService, p presenter.Presenter) ClockView {
	return func(prefs valueobject.DisplayPreferences) error {
		cards, err := explorer.Favorites(prefs)
		if err != nil {
			return err
		}
		return p.PrintFavorites(cards, prefs)
	}
}

// ClockController re-renders a view on every tick and on preference changes
type ClockController struct {
	prefs     usecase.PreferenceService
	presenter presenter.Presenter
	interval  time.Duration
	logger    domain.Logger
}

// NewClockController creates a clock controller. A non-positive interval means one second.
func NewClockController(
	prefs usecase.PreferenceService,
	p presenter.Presenter,
	interval time.Duration,
	logger domain.Logger,
) *ClockController {
	if interval <= 0 {
		interval = time.Second
	}
	return &ClockController{
		prefs:     prefs,
		presenter: p,
		interval:  interval,
		logger:    logger,
	}
}

// Run renders view immediately and then keeps it live until ctx is done.
// Only the first render's error is returned; later failures are logged.
func (c *ClockController) Run(ctx context.Context, view ClockView) error {
	updates, unsubscribe := c.prefs.Subscribe()
	defer unsubscribe()

	prefs := c.prefs.Get()
	if err := c.render(view, prefs); err != nil {
		return err
	}

	// Pick up changes made by other tzexplorer processes
	watchCtx, stopWatch := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.prefs.Watch(watchCtx); err != nil {
			c.logger.Debug(ctx, "Preference watch unavailable", domain.NewField("error", err.Error()))
		}
	}()
	defer func() {
		stopWatch()
		wg.Wait()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if err := c.render(view, prefs); err != nil {
				c.logger.Warn(ctx, "Failed to refresh view", domain.NewField("error", err.Error()))
			}

		case next, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			prefs = next
			c.logger.Debug(ctx, "Preferences changed, re-rendering",
				domain.NewField("time_format", string(prefs.TimeFormat)),
				domain.NewField("locale", prefs.DateLocale))
			if err := c.render(view, prefs); err != nil {
				c.logger.Warn(ctx, "Failed to refresh view", domain.NewField("error", err.Error()))
			}
		}
	}
}

func (c *ClockController) render(view ClockView, prefs valueobject.DisplayPreferences) error {
	c.presenter.BeginFrame()
	return view(prefs)
}
