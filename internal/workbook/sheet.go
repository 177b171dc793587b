package workbook

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"costbook/internal/costing"
)

// sheet is one worksheet's rows with its header indexed by normalised column name.
type sheet struct {
	name string
	// labels keeps each header cell as written, trimmed.
	labels  []string
	columns map[string]int
	rows    [][]string
	// rowNumbers holds the 1-based spreadsheet row of each entry in rows.
	rowNumbers []int
}

func newSheet(name string, raw [][]string) *sheet {
	s := &sheet{name: name, columns: map[string]int{}}
	if len(raw) == 0 {
		return s
	}
	for idx, cell := range raw[0] {
		s.labels = append(s.labels, strings.TrimSpace(cell))
		key := normaliseHeader(cell)
		if key == "" {
			continue
		}
		if _, ok := s.columns[key]; !ok {
			s.columns[key] = idx
		}
	}
	for idx, row := range raw[1:] {
		if blankRow(row) {
			continue
		}
		s.rows = append(s.rows, row)
		s.rowNumbers = append(s.rowNumbers, idx+2)
	}
	return s
}

func normaliseHeader(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *sheet) has(column string) bool {
	_, ok := s.columns[column]
	return ok
}

func (s *sheet) require(columns ...string) error {
	for _, column := range columns {
		if !s.has(column) {
			return &costing.SchemaError{Table: s.name, Column: column}
		}
	}
	return nil
}

func (s *sheet) cell(row int, column string) string {
	idx, ok := s.columns[column]
	if !ok || idx >= len(s.rows[row]) {
		return ""
	}
	return strings.TrimSpace(s.rows[row][idx])
}

// number reads a required numeric cell; blanks read as def.
func (s *sheet) number(row int, column string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := s.cell(row, column)
	value, err := ParseNumber(raw)
	if errors.Is(err, errBlank) {
		return def, nil
	}
	if err != nil {
		return decimal.Zero, &CellError{Sheet: s.name, Row: s.rowNumbers[row], Column: column, Value: raw, Err: err}
	}
	return value, nil
}

// optionalNumber reads a cell where blank means "not set".
func (s *sheet) optionalNumber(row int, column string) (decimal.NullDecimal, error) {
	raw := s.cell(row, column)
	value, err := ParseNumber(raw)
	if errors.Is(err, errBlank) {
		return decimal.NullDecimal{}, nil
	}
	if err != nil {
		return decimal.NullDecimal{}, &CellError{Sheet: s.name, Row: s.rowNumbers[row], Column: column, Value: raw, Err: err}
	}
	return decimal.NewNullDecimal(value), nil
}
