// Package importer reads report rows out of an uploaded Excel workbook so an
// operator can bulk-load historical reports into the sheet.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// Result is what a workbook import produced.
type Result struct {
	Sheet   string
	Rows    [][]string
	Skipped int
}

// ReadWorkbook extracts raw rows from the given worksheet of an xlsx stream.
// Row 1 is treated as headers and dropped. Rows wider than the schema are
// truncated, fully blank rows are skipped and counted.
func ReadWorkbook(r io.Reader, sheetName string, schema *model.Schema) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := pickSheet(f, sheetName)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no usable worksheet")
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %s: %w", sheet, err)
	}
	if len(raw) > 0 {
		raw = raw[1:] // header row
	}

	res := &Result{Sheet: sheet}
	for _, row := range raw {
		if isBlank(row) {
			res.Skipped++
			continue
		}
		if len(row) > schema.Width() {
			row = row[:schema.Width()]
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// pickSheet prefers the configured worksheet name and falls back to the first
// sheet, matching how operators actually hand workbooks around.
func pickSheet(f *excelize.File, preferred string) string {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, preferred) {
			return name
		}
	}
	list := f.GetSheetList()
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
