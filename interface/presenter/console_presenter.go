package presenter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

const (
	ansiReset = "\033[0m"
	ansiClear = "\033[H\033[2J"
)

// theme holds the escape sequences for one color scheme
type theme struct {
	title  string
	accent string
	muted  string
}

var (
	lightTheme = theme{title: "\033[1;34m", accent: "\033[33m", muted: "\033[90m"}
	darkTheme  = theme{title: "\033[1;96m", accent: "\033[93m", muted: "\033[37m"}
)

// ConsolePresenterImpl implements Presenter for terminal output
type ConsolePresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
	color     bool
}

// NewConsolePresenter creates a console presenter on stdout, colored when stdout is a terminal
func NewConsolePresenter() *ConsolePresenterImpl {
	return NewConsolePresenterWithWriter(os.Stdout, os.Stderr, isTerminal(os.Stdout))
}

// NewConsolePresenterWithWriter creates a console presenter on the given writers
func NewConsolePresenterWithWriter(w, errW io.Writer, color bool) *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer:    w,
		errWriter: errW,
		color:     color,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion(version string) {
	_, _ = fmt.Fprintf(p.writer, "tzexplorer version %s\n", version)
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		_, _ = fmt.Fprintf(p.errWriter, "Error: %s\n", domainErr.Message)
		if domainErr.Err != nil {
			_, _ = fmt.Fprintf(p.errWriter, "  cause: %v\n", domainErr.Err)
		}
		return
	}
	_, _ = fmt.Fprintf(p.errWriter, "Error: %v\n", err)
}

// PrintMessage prints a single line
func (p *ConsolePresenterImpl) PrintMessage(msg string) {
	_, _ = fmt.Fprintln(p.writer, msg)
}

// PrintStringList prints a list of strings with a title
func (p *ConsolePresenterImpl) PrintStringList(title string, items []string) error {
	_, _ = fmt.Fprintf(p.writer, "%s:\n", title)
	for _, item := range items {
		_, _ = fmt.Fprintf(p.writer, "  - %s\n", item)
	}
	return nil
}

// PrintPage prints one grid page as a table
func (p *ConsolePresenterImpl) PrintPage(page *entity.TimezonePage, prefs valueobject.DisplayPreferences) error {
	th := p.theme(prefs)

	header := fmt.Sprintf("Timezones (page %d of %d, %d total)", page.PageIndex+1, max(page.TotalPages(), 1), page.Total)
	if page.Query != "" {
		header += fmt.Sprintf(" matching %q", page.Query)
	}
	p.printTitle(th, header, 100)

	if len(page.Items) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No timezones found.")
		return nil
	}

	p.printCardTable(th, page.Items)

	_, _ = fmt.Fprintln(p.writer)
	if page.HasMore {
		_, _ = fmt.Fprintln(p.writer, p.paint(th.muted, fmt.Sprintf("More results: --page=%d", page.PageIndex+1)))
	} else {
		_, _ = fmt.Fprintln(p.writer, p.paint(th.muted, "End of list"))
	}
	return nil
}

// PrintDetail prints the single-zone view
func (p *ConsolePresenterImpl) PrintDetail(detail *entity.TimezoneDetail, prefs valueobject.DisplayPreferences) error {
	th := p.theme(prefs)

	title := detail.DisplayName
	if detail.Favorite {
		title += " ★"
	}
	if detail.IsLocal {
		title += " (local)"
	}
	p.printTitle(th, title, 60)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Timezone:\t%s\n", detail.ID)
	_, _ = fmt.Fprintf(w, "Date:\t%s\n", detail.Snapshot.Date)
	_, _ = fmt.Fprintf(w, "Time:\t%s\n", p.paint(th.accent, detail.Snapshot.Time))
	_, _ = fmt.Fprintf(w, "UTC Offset:\t%s\n", detail.Snapshot.Offset)
	_, _ = fmt.Fprintf(w, "DST Status:\t%s\n", detail.Snapshot.DSTStatus)
	_, _ = fmt.Fprintf(w, "Local Timezone:\t%s\n", detail.LocalTimezone)
	_, _ = fmt.Fprintf(w, "Difference:\t%s\n", detail.LocalDifference)
	return w.Flush()
}

// PrintFavorites prints the favorites grid
func (p *ConsolePresenterImpl) PrintFavorites(cards []entity.TimezoneCard, prefs valueobject.DisplayPreferences) error {
	th := p.theme(prefs)
	p.printTitle(th, fmt.Sprintf("Favorites (%d)", len(cards)), 100)

	if len(cards) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No favorites yet. Add one with: tzexplorer favorites add TIMEZONE")
		return nil
	}
	p.printCardTable(th, cards)
	return nil
}

// PrintPreferences prints the display preferences
func (p *ConsolePresenterImpl) PrintPreferences(prefs valueobject.DisplayPreferences) error {
	th := p.theme(prefs)
	p.printTitle(th, "Display Preferences", 40)

	mode := "light"
	if prefs.DarkMode {
		mode = "dark"
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Time Format:\t%s-hour\n", prefs.TimeFormat)
	_, _ = fmt.Fprintf(w, "Date Locale:\t%s\n", prefs.DateLocale)
	_, _ = fmt.Fprintf(w, "Theme:\t%s\n", mode)
	return w.Flush()
}

// BeginFrame clears the screen when writing to a terminal
func (p *ConsolePresenterImpl) BeginFrame() {
	if p.color {
		_, _ = fmt.Fprint(p.writer, ansiClear)
	}
}

// Helper methods

func (p *ConsolePresenterImpl) printCardTable(th theme, cards []entity.TimezoneCard) {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, " \tTimezone\tTime\tDate\tOffset\tDST\n")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		"-",
		strings.Repeat("-", 30),
		strings.Repeat("-", 14),
		strings.Repeat("-", 28),
		strings.Repeat("-", 14),
		strings.Repeat("-", 20))

	for _, card := range cards {
		star := " "
		if card.Favorite {
			star = "★"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			star,
			p.truncateString(card.DisplayName, 30),
			card.Snapshot.Time,
			card.Snapshot.Date,
			card.Snapshot.Offset,
			card.Snapshot.DSTStatus)
	}
	_ = w.Flush()
}

func (p *ConsolePresenterImpl) printTitle(th theme, title string, width int) {
	_, _ = fmt.Fprintln(p.writer, p.paint(th.title, title))
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", width))
}

func (p *ConsolePresenterImpl) theme(prefs valueobject.DisplayPreferences) theme {
	if prefs.DarkMode {
		return darkTheme
	}
	return lightTheme
}

// paint wraps s in an escape sequence when color is enabled
func (p *ConsolePresenterImpl) paint(code, s string) string {
	if !p.color || code == "" {
		return s
	}
	return code + s + ansiReset
}

func (p *ConsolePresenterImpl) truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
