// Package exporter writes the current report rows into an xlsx workbook for
// download, headers taken from the active schema.
package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// WriteWorkbook renders records as one worksheet named after the source
// sheet, header row first, and streams the workbook to w.
func WriteWorkbook(w io.Writer, sheetName string, schema *model.Schema, records []*model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheetName == "" {
		sheetName = "Reports"
	}
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, name := range schema.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for i, rec := range records {
		for col, value := range rec.Values {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
