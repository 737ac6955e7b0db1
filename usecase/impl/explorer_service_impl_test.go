package impl

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
	"github.com/ca-srg/tzexplorer/infrastructure/service"
)

var catalogFixture = []string{
	"Africa/Abidjan",
	"America/Argentina/Buenos_Aires",
	"America/New_York",
	"America/Los_Angeles",
	"Asia/Kolkata",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/London",
	"Europe/Paris",
	"UTC",
}

type explorerFixture struct {
	svc   *ExplorerServiceImpl
	prefs *PreferenceServiceImpl
}

func newExplorerFixture(t *testing.T, ids []string, pageSize int, local *time.Location) explorerFixture {
	t.Helper()
	resolver := &stubResolver{local: local}
	snapshots := newTestSnapshotServiceWith(resolver)
	prefs := NewPreferenceService(newMockPreferenceRepository(), resolver, &mockLogger{})
	clock := func() time.Time { return winterInstant }

	return explorerFixture{
		svc:   NewExplorerService(&stubCatalog{ids: ids}, resolver, snapshots, prefs, pageSize, clock, &mockLogger{}),
		prefs: prefs,
	}
}

func newTestSnapshotServiceWith(resolver *stubResolver) *SnapshotServiceImpl {
	formatter := service.NewLocaleFormatter()
	offsets := NewOffsetExtractor(resolver)
	return NewSnapshotService(resolver, formatter, offsets, NewRuleClassifier(resolver), "", &mockLogger{})
}

func TestExplorerService_Search(t *testing.T) {
	f := newExplorerFixture(t, catalogFixture, 60, nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", catalogFixture},
		{"case insensitive", "TOKYO", []string{"Asia/Tokyo"}},
		{"space matches underscore", "new york", []string{"America/New_York"}},
		{"region prefix", "europe/", []string{"Europe/London", "Europe/Paris"}},
		{"nested region", "buenos", []string{"America/Argentina/Buenos_Aires"}},
		{"no match", "atlantis", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Search(tt.query)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestExplorerService_SearchCatalogError(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewExplorerService(&stubCatalog{err: errors.New("zoneinfo unreadable")}, resolver,
		newTestSnapshotServiceWith(resolver), nil, 10, nil, &mockLogger{})

	_, err := svc.Search("x")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeRepository))
}

func TestExplorerService_Page(t *testing.T) {
	f := newExplorerFixture(t, catalogFixture, 4, nil)
	prefs := valueobject.DefaultDisplayPreferences()

	tests := []struct {
		name      string
		pageIndex int
		wantLen   int
		wantFirst string
		hasMore   bool
	}{
		{"first page", 0, 4, "Africa/Abidjan", true},
		{"middle page", 1, 4, "Asia/Kolkata", true},
		{"last partial page", 2, 2, "Europe/Paris", false},
		{"beyond the end", 3, 0, "", false},
		{"max int", math.MaxInt, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.Page("", tt.pageIndex, prefs)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, tt.hasMore, page.HasMore)
			assert.Equal(t, !tt.hasMore, page.EndOfList())
			assert.Equal(t, len(catalogFixture), page.Total)
			assert.Equal(t, 3, page.TotalPages())
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, page.Items[0].ID)
			}
			for _, card := range page.Items {
				assert.True(t, card.Snapshot.IsComplete(), card.ID)
			}
		})
	}

	t.Run("negative page", func(t *testing.T) {
		_, err := f.svc.Page("", -1, prefs)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("exact multiple has no further page", func(t *testing.T) {
		g := newExplorerFixture(t, catalogFixture[:8], 4, nil)
		page, err := g.svc.Page("", 1, prefs)
		require.NoError(t, err)
		assert.Len(t, page.Items, 4)
		assert.False(t, page.HasMore)
	})
}

func TestExplorerService_PageCards(t *testing.T) {
	f := newExplorerFixture(t, catalogFixture, 60, nil)
	require.NoError(t, f.prefs.AddFavorite("America/New_York"))

	page, err := f.svc.Page("new york", 0, valueobject.DefaultDisplayPreferences())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	card := page.Items[0]
	assert.Equal(t, "America/New York", card.DisplayName)
	assert.True(t, card.Favorite)
	assert.Equal(t, "07:00:00 AM", card.Snapshot.Time)
	assert.Equal(t, "UTC-05:00", card.Snapshot.Offset)
	assert.Equal(t, "Not Observing DST", card.Snapshot.DSTStatus)
}

func TestExplorerService_Detail(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	f := newExplorerFixture(t, catalogFixture, 60, tokyo)
	prefs := valueobject.DefaultDisplayPreferences()

	tests := []struct {
		name     string
		id       string
		wantDiff string
		isLocal  bool
	}{
		{"same zone", "Asia/Tokyo", SameAsLocal, true},
		{"behind by whole hours", "Europe/Paris", "8h behind local time", false},
		{"behind with minutes", "Asia/Kolkata", "3h 30m behind local time", false},
		{"ahead in southern summer", "Australia/Sydney", "2h ahead of local time", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := f.svc.Detail(tt.id, prefs)
			require.NoError(t, err)
			assert.Equal(t, tt.id, detail.ID)
			assert.Equal(t, tt.wantDiff, detail.LocalDifference)
			assert.Equal(t, tt.isLocal, detail.IsLocal)
			assert.Equal(t, "Asia/Tokyo", detail.LocalTimezone)
			assert.True(t, detail.Snapshot.IsComplete())
		})
	}

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := f.svc.Detail("Mars/Olympus_Mons", prefs)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNotFound))
	})
}

func TestExplorerService_Local(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	f := newExplorerFixture(t, catalogFixture, 60, kolkata)

	detail, err := f.svc.Local(valueobject.DefaultDisplayPreferences())
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", detail.ID)
	assert.True(t, detail.IsLocal)
	assert.Equal(t, SameAsLocal, detail.LocalDifference)
	assert.Equal(t, "UTC+05:30", detail.Snapshot.Offset)
	assert.Equal(t, "Does not observe DST", detail.Snapshot.DSTStatus)

	t.Run("display name uses spaces", func(t *testing.T) {
		newYork, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		g := newExplorerFixture(t, catalogFixture, 60, newYork)
		detail, err := g.svc.Local(valueobject.DefaultDisplayPreferences())
		require.NoError(t, err)
		assert.Equal(t, "America/New York", detail.DisplayName)
	})
}

func TestExplorerService_Favorites(t *testing.T) {
	f := newExplorerFixture(t, catalogFixture, 60, nil)

	cards, err := f.svc.Favorites(valueobject.DefaultDisplayPreferences())
	require.NoError(t, err)
	assert.Empty(t, cards)

	require.NoError(t, f.prefs.AddFavorite("Europe/Paris"))
	require.NoError(t, f.prefs.AddFavorite("Asia/Tokyo"))

	cards, err = f.svc.Favorites(valueobject.DefaultDisplayPreferences())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Europe/Paris", cards[0].ID)
	assert.Equal(t, "Asia/Tokyo", cards[1].ID)
	for _, c := range cards {
		assert.True(t, c.Favorite)
	}
}

func TestFormatLocalDifference(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, SameAsLocal},
		{5*3600 + 30*60, "5h 30m ahead of local time"},
		{-3 * 3600, "3h behind local time"},
		{45 * 60, "45m ahead of local time"},
		{-(13*3600 + 45*60), "13h 45m behind local time"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seconds), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLocalDifference(tt.seconds))
		})
	}
}
