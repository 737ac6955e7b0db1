package entity

import "strings"

// TimezoneCard is one cell in the explorer grid.
type TimezoneCard struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Favorite    bool     `json:"favorite"`
	Snapshot    Snapshot `json:"snapshot"`
}

// DisplayNameFor renders an IANA identifier for humans: "America/New_York" -> "America/New York".
func DisplayNameFor(timezoneID string) string {
	return strings.ReplaceAll(timezoneID, "_", " ")
}

// TimezonePage is one page of search results.
type TimezonePage struct {
	Query     string         `json:"query"`
	PageIndex int            `json:"pageIndex"`
	PageSize  int            `json:"pageSize"`
	Total     int            `json:"total"`
	Items     []TimezoneCard `json:"items"`
	HasMore   bool           `json:"hasMore"`
}

// EndOfList reports whether no further pages follow this one.
func (p TimezonePage) EndOfList() bool {
	return !p.HasMore
}

// TotalPages returns the number of pages for the query.
func (p TimezonePage) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// TimezoneDetail is the single-zone view.
type TimezoneDetail struct {
	TimezoneCard
	IsLocal         bool   `json:"isLocal"`
	LocalTimezone   string `json:"localTimezone"`
	LocalDifference string `json:"localDifference"`
}
