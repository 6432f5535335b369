package calibration

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"phantomqa/internal/logger"
	"phantomqa/pkg/errkind"
)

// SheetLayout says where the data of one workbook sheet is.
type SheetLayout struct {
	// Sheet is the name of the sheet in the workbook
	Sheet string `yaml:"sheet"`
	// Name is the logical table name the sheet is stored under
	Name string `yaml:"name"`
	// Head is the 0-based row holding the column names
	Head int `yaml:"head"`
	// Tail is the number of footer rows dropped from the end
	Tail int `yaml:"tail"`
}

// DefaultLayouts describes the sheets of the vendor calibration workbook.
func DefaultLayouts() []SheetLayout {
	return []SheetLayout{
		{Sheet: "ADC Solutions @ 1.5T", Name: "ADC_15T", Head: 3, Tail: 2},
		{Sheet: "ADC Solutions @ 3.0T", Name: "ADC_3T", Head: 3, Tail: 2},
		{Sheet: "NiCl Solutions @ 1.5T", Name: "NiCl_15T", Head: 3, Tail: 2},
		{Sheet: "NiCl Solutions @ 3.0T", Name: "NiCl_3T", Head: 3, Tail: 2},
		{Sheet: "MnCl Solutions @ 1.5T", Name: "MnCl_15T", Head: 3, Tail: 2},
		{Sheet: "MnCl Solutions @ 3.0T", Name: "MnCl_3T", Head: 3, Tail: 2},
		{Sheet: "CuSO4 Solutions @ 3.0T", Name: "CuSO4_3T", Head: 3, Tail: 3},
		{Sheet: "CMRI LC Values", Name: "CMRI_LC", Head: 3, Tail: 0},
	}
}

// ReadWorkbook reads the sheets described by layouts from an xlsx file and
// returns them keyed by logical name.
func ReadWorkbook(path string, layouts []SheetLayout) (map[string]*Table, error) {
	return readWorkbook(path, layouts, nil)
}

func readWorkbook(path string, layouts []SheetLayout, log logger.ILogger) (map[string]*Table, error) {
	log = logger.OrNull(log)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening calibration workbook: %w", err)
	}
	defer f.Close()

	tables := make(map[string]*Table, len(layouts))
	for _, l := range layouts {
		t, err := readSheet(f, l)
		if err != nil {
			return nil, errors.WithMessagef(err, "reading %s", path)
		}
		tables[l.Name] = t
		log.Infof("loaded sheet %q as %s: %d rows", l.Sheet, l.Name, t.Len())
	}
	return tables, nil
}

func readSheet(f *excelize.File, l SheetLayout) (*Table, error) {
	if l.Head < 0 || l.Tail < 0 {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "sheet %q: head and tail must not be negative", l.Sheet)
	}
	if idx, err := f.GetSheetIndex(l.Sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(errkind.ErrLookup, "workbook has no sheet %q (sheets: %s)",
			l.Sheet, strings.Join(f.GetSheetList(), ", "))
	}
	// Cell number formats only change how a value is displayed
	rows, err := f.GetRows(l.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", l.Sheet, err)
	}
	if len(rows) <= l.Head {
		return nil, errors.Wrapf(errkind.ErrLookup, "sheet %q has %d rows, no header at row %d", l.Sheet, len(rows), l.Head)
	}

	header := make([]string, len(rows[l.Head]))
	for i, h := range rows[l.Head] {
		header[i] = strings.TrimSpace(h)
	}

	var data [][]string
	for _, r := range rows[l.Head+1:] {
		if blank(r) {
			continue
		}
		data = append(data, r)
	}
	if l.Tail >= len(data) {
		data = nil
	} else {
		data = data[:len(data)-l.Tail]
	}
	return NewTable(l.Name, header, data), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
