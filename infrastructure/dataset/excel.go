package dataset

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ExcelLoader reads customer datasets from .xlsx workbooks. The first sheet
// is used; its first row must be the header.
type ExcelLoader struct{}

func NewExcelLoader() *ExcelLoader {
	return &ExcelLoader{}
}

// Load reads a workbook from an uploaded stream.
func (l *ExcelLoader) Load(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	return l.records(f)
}

// LoadFile reads a workbook from disk. Used by the scheduled refresh.
func (l *ExcelLoader) LoadFile(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	defer f.Close()

	return l.records(f)
}

func (l *ExcelLoader) records(f *excelize.File) ([]Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheets[0])
	}
	if len(rows) == 0 {
		return nil, errors.New("workbook has no header row")
	}

	index := headerIndex(rows[0])
	if err := validateColumns(index); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		records = append(records, Record{
			Row:          i,
			Subscription: cell(row, index, ColSubscription),
			Category:     cell(row, index, ColCategory),
			Product:      cell(row, index, ColProduct),
			Start:        cell(row, index, ColStart),
			End:          cell(row, index, ColEnd),
			CustomerID:   cell(row, index, ColCustomerID),
			Salesperson:  cell(row, index, ColSalesperson),
		})
	}

	return records, nil
}

// headerIndex maps trimmed column names to their position in the sheet.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// validateColumns checks the required columns once, before any computation,
// and reports every missing name in a single error.
func validateColumns(index map[string]int) error {
	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
