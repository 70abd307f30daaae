package importer

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

func workbookBytes(t *testing.T, sheet string, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename: %v", err)
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestReadWorkbook(t *testing.T) {
	t.Parallel()

	buf := workbookBytes(t, "Reports", [][]string{
		{"Date", "Site_Name", "District"},
		{"01.02.2024", "SiteA", "DistrictX"},
		{"", "", ""},
		{"02.02.2024", "SiteB"},
	})

	res, err := ReadWorkbook(buf, "Reports", model.SchemaCurrent)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Sheet != "Reports" {
		t.Fatalf("sheet = %q", res.Sheet)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	if res.Rows[0][1] != "SiteA" {
		t.Fatalf("first row = %v", res.Rows[0])
	}
}

func TestReadWorkbook_FallsBackToFirstSheet(t *testing.T) {
	t.Parallel()

	buf := workbookBytes(t, "SomethingElse", [][]string{
		{"Site_Name", "Date"},
		{"SiteA", "01.02.2024"},
	})

	res, err := ReadWorkbook(buf, "Reports", model.SchemaLegacy)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if res.Sheet != "SomethingElse" {
		t.Fatalf("sheet = %q", res.Sheet)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
}
