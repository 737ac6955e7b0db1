package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// SameAsLocal is the difference shown for zones matching the local offset
const SameAsLocal = "Same as local time"

// favoriteStore is the read side of the preference service
type favoriteStore interface {
	Favorites() []string
	IsFavorite(timezoneID string) bool
}

// ExplorerServiceImpl implements usecase.ExplorerService
type ExplorerServiceImpl struct {
	catalog   repository.TimezoneCatalogRepository
	resolver  repository.LocationResolver
	snapshots usecase.SnapshotService
	favorites favoriteStore
	pageSize  int
	now       func() time.Time
	logger    domain.Logger
}

// NewExplorerService creates an explorer. A nil clock means time.Now.
func NewExplorerService(
	catalog repository.TimezoneCatalogRepository,
	resolver repository.LocationResolver,
	snapshots usecase.SnapshotService,
	favorites favoriteStore,
	pageSize int,
	now func() time.Time,
	logger domain.Logger,
) *ExplorerServiceImpl {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	if now == nil {
		now = time.Now
	}
	return &ExplorerServiceImpl{
		catalog:   catalog,
		resolver:  resolver,
		snapshots: snapshots,
		favorites: favorites,
		pageSize:  pageSize,
		now:       now,
		logger:    logger,
	}
}

// Search implements usecase.ExplorerService
func (s *ExplorerServiceImpl) Search(query string) ([]string, error) {
	ids, err := s.catalog.List()
	if err != nil {
		return nil, domain.ErrRepository("ListTimezones", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return ids, nil
	}
	needle = strings.ReplaceAll(needle, " ", "_")

	matches := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), needle) {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

// Page implements usecase.ExplorerService
func (s *ExplorerServiceImpl) Page(query string, pageIndex int, prefs valueobject.DisplayPreferences) (*entity.TimezonePage, error) {
	if pageIndex < 0 {
		return nil, domain.ErrInvalidInput("page", "must not be negative").WithDetails("value", pageIndex)
	}

	matches, err := s.Search(query)
	if err != nil {
		return nil, err
	}

	page := &entity.TimezonePage{
		Query:     query,
		PageIndex: pageIndex,
		PageSize:  s.pageSize,
		Total:     len(matches),
		Items:     []entity.TimezoneCard{},
	}

	// Compare page counts before multiplying so huge indexes cannot overflow
	if len(matches) == 0 || pageIndex > (len(matches)-1)/s.pageSize {
		return page, nil
	}
	start := pageIndex * s.pageSize
	end := start + s.pageSize
	if end > len(matches) {
		end = len(matches)
	}

	instant := s.now()
	for _, id := range matches[start:end] {
		page.Items = append(page.Items, s.card(id, instant, prefs))
	}
	page.HasMore = end < len(matches)
	return page, nil
}

// Detail implements usecase.ExplorerService
func (s *ExplorerServiceImpl) Detail(timezoneID string, prefs valueobject.DisplayPreferences) (*entity.TimezoneDetail, error) {
	id := strings.TrimSpace(timezoneID)
	known, err := s.catalog.Contains(id)
	if err != nil {
		return nil, domain.ErrRepository("ContainsTimezone", err)
	}
	if !known {
		return nil, domain.ErrNotFound("timezone", id)
	}

	instant := s.now()
	local := s.localLocation()
	return &entity.TimezoneDetail{
		TimezoneCard:    s.card(id, instant, prefs),
		IsLocal:         id == local.String(),
		LocalTimezone:   local.String(),
		LocalDifference: s.localDifference(id, local, instant),
	}, nil
}

// Local implements usecase.ExplorerService
func (s *ExplorerServiceImpl) Local(prefs valueobject.DisplayPreferences) (*entity.TimezoneDetail, error) {
	local := s.localLocation()
	instant := s.now()
	return &entity.TimezoneDetail{
		TimezoneCard:    s.card(local.String(), instant, prefs),
		IsLocal:         true,
		LocalTimezone:   local.String(),
		LocalDifference: SameAsLocal,
	}, nil
}

// Favorites implements usecase.ExplorerService
func (s *ExplorerServiceImpl) Favorites(prefs valueobject.DisplayPreferences) ([]entity.TimezoneCard, error) {
	cards := []entity.TimezoneCard{}
	if s.favorites == nil {
		return cards, nil
	}

	instant := s.now()
	for _, id := range s.favorites.Favorites() {
		cards = append(cards, s.card(id, instant, prefs))
	}
	return cards, nil
}

func (s *ExplorerServiceImpl) card(id string, instant time.Time, prefs valueobject.DisplayPreferences) entity.TimezoneCard {
	return entity.TimezoneCard{
		ID:          id,
		DisplayName: entity.DisplayNameFor(id),
		Favorite:    s.favorites != nil && s.favorites.IsFavorite(id),
		Snapshot:    s.snapshots.FormatSnapshot(instant, id, prefs),
	}
}

func (s *ExplorerServiceImpl) localLocation() *time.Location {
	loc, err := s.resolver.Local()
	if err != nil {
		s.logger.Debug(context.Background(), "Local timezone detection fell back",
			domain.NewField("error", err.Error()))
	}
	if loc == nil {
		return time.UTC
	}
	return loc
}

// localDifference describes the zone's offset relative to the local zone
func (s *ExplorerServiceImpl) localDifference(id string, local *time.Location, instant time.Time) string {
	loc, err := s.resolver.Load(id)
	if err != nil {
		return valueobject.OffsetUnavailable
	}
	_, zoneOffset := instant.In(loc).Zone()
	_, localOffset := instant.In(local).Zone()
	return FormatLocalDifference(zoneOffset - localOffset)
}

// FormatLocalDifference renders e.g. "5h 30m ahead of local time"
func FormatLocalDifference(seconds int) string {
	if seconds == 0 {
		return SameAsLocal
	}

	direction := "ahead of"
	if seconds < 0 {
		direction = "behind"
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	var amount string
	switch {
	case hours > 0 && minutes > 0:
		amount = fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		amount = fmt.Sprintf("%dh", hours)
	default:
		amount = fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%s %s local time", amount, direction)
}
