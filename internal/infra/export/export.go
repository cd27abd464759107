// Package export writes lead lists as CSV or XLSX. Both formats carry the same
// header row as the import, so an export can be imported again.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/lead-console/internal/entity"
)

const sheetName = "Leads"

var headers = []string{"id", "name", "company", "email", "source", "score", "status", "createdAt"}

func row(l entity.Lead) []string {
	return []string{l.ID, l.Name, l.Company, l.Email, l.Source, strconv.Itoa(l.Score), string(l.Status), l.CreatedAt}
}

func WriteCSV(w io.Writer, leads []entity.Lead) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range leads {
		if err := writer.Write(row(l)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteXLSX(w io.Writer, leads []entity.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for r, l := range leads {
		for c, v := range row(l) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if c == 5 {
				f.SetCellValue(sheetName, cell, l.Score)
				continue
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "H", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
