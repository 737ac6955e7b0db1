//go:build darwin
// +build darwin

package controller

import (
	"context"
	"runtime"
	"time"

	"github.com/getlantern/systray"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

func init() {
	// Cocoa only runs on the main thread
	runtime.LockOSThread()
}

// TrayController shows the local clock and the favorites in the macOS menu bar
type TrayController struct {
	explorer       usecase.ExplorerService
	prefs          usecase.PreferenceService
	metricsService usecase.MetricsService
	limit          int
	interval       time.Duration
	logger         domain.Logger

	// Menu items. Favorite slots are created once and hidden when unused.
	slots        []*systray.MenuItem
	overflowItem *systray.MenuItem
	hour24Item   *systray.MenuItem
	sendNowItem  *systray.MenuItem
	quitItem     *systray.MenuItem
}

// NewTrayController creates a tray controller. metricsService may be nil.
func NewTrayController(
	explorer usecase.ExplorerService,
	prefs usecase.PreferenceService,
	metricsService usecase.MetricsService,
	limit int,
	interval time.Duration,
	logger domain.Logger,
) *TrayController {
	if limit <= 0 {
		limit = DefaultTrayFavoritesLimit
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TrayController{
		explorer:       explorer,
		prefs:          prefs,
		metricsService: metricsService,
		limit:          limit,
		interval:       interval,
		logger:         logger,
	}
}

// Run blocks on the main thread until Quit is clicked or ctx is done.
// macOS requires systray.Run to own the main thread.
func (t *TrayController) Run(ctx context.Context) error {
	runAsMenuBarApp()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	systray.Run(func() {
		t.onReady()
		go func() {
			defer close(done)
			t.loop(ctx)
		}()
	}, func() {
		cancel()
		<-done
		t.logger.Info(ctx, "Tray exited")
	})
	return nil
}

func (t *TrayController) onReady() {
	systray.SetTitle(entity.PlaceholderUnavailable)
	systray.SetTooltip("tzexplorer")

	t.slots = make([]*systray.MenuItem, t.limit)
	for i := range t.slots {
		t.slots[i] = systray.AddMenuItem("", "")
		t.slots[i].Disable()
		t.slots[i].Hide()
	}
	t.overflowItem = systray.AddMenuItem("", "")
	t.overflowItem.Disable()
	t.overflowItem.Hide()

	systray.AddSeparator()
	t.hour24Item = systray.AddMenuItemCheckbox("24-Hour Clock", "Toggle 12/24-hour time", !t.prefs.Get().Hour12())
	if t.metricsService != nil && t.metricsService.Running() {
		t.sendNowItem = systray.AddMenuItem("Send Metrics Now", "Push formatter metrics immediately")
	}
	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit tzexplorer")
}

func (t *TrayController) loop(ctx context.Context) {
	updates, unsubscribe := t.prefs.Subscribe()
	defer unsubscribe()

	go func() {
		if err := t.prefs.Watch(ctx); err != nil {
			t.logger.Debug(ctx, "Preference watch unavailable", domain.NewField("error", err.Error()))
		}
	}()

	prefs := t.prefs.Get()
	t.refresh(ctx, prefs)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var sendNow <-chan struct{}
	if t.sendNowItem != nil {
		sendNow = t.sendNowItem.ClickedCh
	}

	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return

		case <-ticker.C:
			t.refresh(ctx, prefs)

		case next, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			prefs = next
			if prefs.Hour12() {
				t.hour24Item.Uncheck()
			} else {
				t.hour24Item.Check()
			}
			t.refresh(ctx, prefs)

		case <-t.hour24Item.ClickedCh:
			format := string(valueobject.TimeFormat24Hour)
			if t.hour24Item.Checked() {
				format = string(valueobject.TimeFormat12Hour)
			}
			if err := t.prefs.SetTimeFormat(format); err != nil {
				t.logger.Warn(ctx, "Failed to save time format", domain.NewField("error", err.Error()))
			}

		case <-sendNow:
			t.logger.Info(ctx, "Manual metrics send requested")
			if err := t.metricsService.SendCurrentMetrics(); err != nil {
				t.logger.Error(ctx, "Failed to send metrics", domain.NewField("error", err.Error()))
			}

		case <-t.quitItem.ClickedCh:
			t.logger.Info(ctx, "Quit clicked")
			systray.Quit()
			return
		}
	}
}

// refresh re-renders the title, tooltip and favorite rows
func (t *TrayController) refresh(ctx context.Context, prefs valueobject.DisplayPreferences) {
	local, err := t.explorer.Local(prefs)
	if err != nil {
		t.logger.Warn(ctx, "Failed to render local timezone", domain.NewField("error", err.Error()))
		local = nil
	}
	favorites, err := t.explorer.Favorites(prefs)
	if err != nil {
		t.logger.Warn(ctx, "Failed to render favorites", domain.NewField("error", err.Error()))
	}

	menu := BuildTrayMenu(local, favorites, t.limit)
	systray.SetTitle(menu.Title)
	systray.SetTooltip(menu.Tooltip)

	for i, slot := range t.slots {
		if i < len(menu.Items) {
			slot.SetTitle(menu.Items[i].Text)
			slot.SetTooltip(menu.Items[i].TimezoneID)
			slot.Show()
		} else {
			slot.Hide()
		}
	}
	if menu.Overflow != "" {
		t.overflowItem.SetTitle(menu.Overflow)
		t.overflowItem.Show()
	} else {
		t.overflowItem.Hide()
	}
}
