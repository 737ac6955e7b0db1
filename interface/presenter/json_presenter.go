package presenter

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/entity"
	"github.com/ca-srg/tzexplorer/domain/valueobject"
)

// JSONPresenterImpl implements Presenter for JSON output. Live refreshes
// produce one document per frame.
type JSONPresenterImpl struct {
	writer     io.Writer
	encoder    *json.Encoder
	errEncoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	return NewJSONPresenterWithWriter(os.Stdout, os.Stderr)
}

// NewJSONPresenterWithWriter creates a JSON presenter on the given writers
func NewJSONPresenterWithWriter(w, errW io.Writer) *JSONPresenterImpl {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		writer:     w,
		encoder:    encoder,
		errEncoder: json.NewEncoder(errW),
	}
}

// PrintVersion prints version information as JSON
func (p *JSONPresenterImpl) PrintVersion(version string) {
	_ = p.encoder.Encode(map[string]string{"version": version})
}

// PrintError prints the error as a JSON object on the error stream
func (p *JSONPresenterImpl) PrintError(err error) {
	data := map[string]interface{}{
		"message": err.Error(),
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		data["code"] = string(domainErr.Code)
		data["message"] = domainErr.Message
		if len(domainErr.Details) > 0 {
			data["details"] = domainErr.Details
		}
	}

	_ = p.errEncoder.Encode(map[string]interface{}{"error": data})
}

// PrintMessage prints a status message as JSON
func (p *JSONPresenterImpl) PrintMessage(msg string) {
	_ = p.encoder.Encode(map[string]string{"message": msg})
}

// PrintStringList prints the items as a JSON array
func (p *JSONPresenterImpl) PrintStringList(title string, items []string) error {
	if items == nil {
		items = []string{}
	}
	return p.encoder.Encode(items)
}

// PrintPage prints a grid page as JSON
func (p *JSONPresenterImpl) PrintPage(page *entity.TimezonePage, prefs valueobject.DisplayPreferences) error {
	data := map[string]interface{}{
		"query":      page.Query,
		"page":       page.PageIndex,
		"pageSize":   page.PageSize,
		"total":      page.Total,
		"totalPages": page.TotalPages(),
		"hasMore":    page.HasMore,
		"endOfList":  page.EndOfList(),
		"items":      page.Items,
	}
	return p.encoder.Encode(data)
}

// PrintDetail prints the single-zone view as JSON
func (p *JSONPresenterImpl) PrintDetail(detail *entity.TimezoneDetail, prefs valueobject.DisplayPreferences) error {
	return p.encoder.Encode(detail)
}

// PrintFavorites prints favorite cards as JSON
func (p *JSONPresenterImpl) PrintFavorites(cards []entity.TimezoneCard, prefs valueobject.DisplayPreferences) error {
	if cards == nil {
		cards = []entity.TimezoneCard{}
	}
	return p.encoder.Encode(map[string]interface{}{"favorites": cards})
}

// PrintPreferences prints the display preferences as JSON
func (p *JSONPresenterImpl) PrintPreferences(prefs valueobject.DisplayPreferences) error {
	return p.encoder.Encode(prefs)
}

// BeginFrame does nothing; frames are separate documents
func (p *JSONPresenterImpl) BeginFrame() {}
