package synthdata

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes every dataset into one workbook, one sheet per
// document kind.
func WriteXLSX(path string, datasets []Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, ds := range datasets {
		sheet := string(ds.Kind)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		header := ds.Header()
		cells := make([]interface{}, len(header))
		for c, h := range header {
			cells[c] = h
		}
		if err := setRow(f, sheet, 1, cells); err != nil {
			return err
		}

		for r, rec := range ds.Records {
			row := make([]interface{}, 0, len(header))
			row = append(row, string(ds.Kind))
			for _, id := range rec.Identity {
				row = append(row, id)
			}
			for _, v := range rec.Features.Vector() {
				row = append(row, v)
			}
			row = append(row, string(rec.Status), round2(rec.Score))

			if err := setRow(f, sheet, r+2, row); err != nil {
				return err
			}
		}
	}

	if len(datasets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}
