package cli

import (
	"context"

	"github.com/alecthomas/kong"
)

// Runtime is bound into every command's Run method
type Runtime struct {
	Ctx        context.Context
	Controller *CLIController
}

// Globals are the flags accepted by every command. They are read before the
// container is built.
type Globals struct {
	Config  string           `help:"Path to config.json." type:"path" env:"TZEXPLORER_CONFIG" placeholder:"PATH"`
	EnvFile string           `name:"env-file" help:"Load environment variables from a .env file." type:"path" placeholder:".env"`
	Debug   bool             `help:"Echo debug logs to stdout."`
	JSON    bool             `name:"json" help:"Print JSON instead of tables."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

// CLI is the tzexplorer command tree
type CLI struct {
	Globals

	List      ListCmd      `cmd:"" help:"Show one page of the timezone grid."`
	Show      ShowCmd      `cmd:"" help:"Show the detail view of a timezone."`
	Local     LocalCmd     `cmd:"" help:"Show your local timezone."`
	Watch     WatchCmd     `cmd:"" help:"Refresh a view every second until interrupted."`
	Settings  SettingsCmd  `cmd:"" help:"Show or change display preferences."`
	Favorites FavoritesCmd `cmd:"" help:"Manage favorite timezones."`
	Tray      TrayCmd      `cmd:"" help:"Run the menu-bar clock (macOS)."`
	Locales   LocalesCmd   `cmd:"" help:"List locale tags with formatting data."`
}

type ListCmd struct {
	Query string `arg:"" optional:"" help:"Filter identifiers, e.g. \"new york\"."`
	Page  int    `short:"p" default:"0" help:"Zero-based page index."`
}

func (c *ListCmd) Run(rt *Runtime) error {
	return rt.Controller.List(c.Query, c.Page)
}

type ShowCmd struct {
	Timezone string `arg:"" help:"IANA identifier, e.g. Asia/Tokyo."`
}

func (c *ShowCmd) Run(rt *Runtime) error {
	return rt.Controller.Show(c.Timezone)
}

type LocalCmd struct{}

func (c *LocalCmd) Run(rt *Runtime) error {
	return rt.Controller.Local()
}

type WatchCmd struct {
	Query     string `arg:"" optional:"" help:"Filter identifiers for the grid view."`
	Page      int    `short:"p" default:"0" help:"Zero-based page index."`
	Zone      string `short:"z" xor:"view" help:"Watch the detail view of one timezone."`
	Local     bool   `xor:"view" help:"Watch your local timezone."`
	Favorites bool   `xor:"view" help:"Watch your favorites."`
}

func (c *WatchCmd) Run(rt *Runtime) error {
	return rt.Controller.Watch(rt.Ctx, WatchOptions{
		Query:     c.Query,
		Page:      c.Page,
		Zone:      c.Zone,
		Local:     c.Local,
		Favorites: c.Favorites,
	})
}

type SettingsCmd struct {
	Show  SettingsShowCmd  `cmd:"" default:"1" help:"Print the current preferences."`
	Set   SettingsSetCmd   `cmd:"" help:"Change one or more preferences."`
	Reset SettingsResetCmd `cmd:"" help:"Restore the defaults."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(rt *Runtime) error {
	return rt.Controller.SettingsShow()
}

type SettingsSetCmd struct {
	TimeFormat string `name:"time-format" help:"12 or 24." placeholder:"12|24"`
	Locale     string `help:"BCP 47 tag for dates, e.g. de-DE." placeholder:"TAG"`
	DarkMode   *bool  `name:"dark-mode" help:"Use the dark color theme."`
}

func (c *SettingsSetCmd) Run(rt *Runtime) error {
	return rt.Controller.SettingsSet(SettingsChange{
		TimeFormat: c.TimeFormat,
		Locale:     c.Locale,
		DarkMode:   c.DarkMode,
	})
}

type SettingsResetCmd struct{}

func (c *SettingsResetCmd) Run(rt *Runtime) error {
	return rt.Controller.SettingsReset()
}

type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"Show your favorites."`
	Add    FavoritesAddCmd    `cmd:"" help:"Add a favorite."`
	Remove FavoritesRemoveCmd `cmd:"" aliases:"rm" help:"Remove a favorite."`
}

type FavoritesListCmd struct{}

func (c *FavoritesListCmd) Run(rt *Runtime) error {
	return rt.Controller.FavoritesList()
}

type FavoritesAddCmd struct {
	Timezone string `arg:"" help:"IANA identifier."`
}

func (c *FavoritesAddCmd) Run(rt *Runtime) error {
	return rt.Controller.FavoritesAdd(c.Timezone)
}

type FavoritesRemoveCmd struct {
	Timezone string `arg:"" help:"IANA identifier."`
}

func (c *FavoritesRemoveCmd) Run(rt *Runtime) error {
	return rt.Controller.FavoritesRemove(c.Timezone)
}

type TrayCmd struct{}

func (c *TrayCmd) Run(rt *Runtime) error {
	return rt.Controller.Tray(rt.Ctx)
}

type LocalesCmd struct{}

func (c *LocalesCmd) Run(rt *Runtime) error {
	return rt.Controller.Locales()
}

// NewParser builds the kong parser for the command tree
func NewParser(cli *CLI, version string, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("tzexplorer"),
		kong.Description("Explore the world's timezones from the terminal."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	}, options...)
	return kong.New(cli, options...)
}
