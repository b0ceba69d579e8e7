package catalog

import (
	"context"
	"fmt"

	"github.com/hyperjump/cinematch/internal/models"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the catalog from a spreadsheet. The first row of the sheet is the header.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates a spreadsheet source. An empty sheet means the first sheet.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Describe returns a human-readable description of the source.
func (s *XLSXSource) Describe() string {
	if s.sheet == "" {
		return "xlsx:" + s.path
	}
	return fmt.Sprintf("xlsx:%s[%s]", s.path, s.sheet)
}

// Load reads every row of the sheet.
func (s *XLSXSource) Load(ctx context.Context) (*Catalog, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &LoadError{Source: s.path, Err: fmt.Errorf("workbook has no sheets")}
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Source: s.path, Err: fmt.Errorf("%w: empty sheet", ErrMissingColumn)}
	}
	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	if ctx.Err() != nil {
		return nil, &LoadError{Source: s.path, Err: ctx.Err()}
	}

	movies := make([]*models.Movie, 0, len(rows)-1)
	for _, row := range rows[1:] {
		movies = append(movies, h.movie(len(movies), row))
	}
	if len(movies) == 0 {
		return nil, &LoadError{Source: s.path, Err: ErrEmptyCatalog}
	}
	return &Catalog{Movies: movies, Columns: h.columns}, nil
}
