package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/alchscan/internal/models"
)

// WriteWorkbook saves both rankings to an xlsx file, one sheet per side.
// Numeric columns are stored as numbers so they can be re-sorted in a spreadsheet.
func WriteWorkbook(path string, high, low []*models.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, table := range []struct {
		side  models.Side
		items []*models.Item
	}{
		{models.HighSide, high},
		{models.LowSide, low},
	} {
		if err := writeSheet(f, table.side, table.items); err != nil {
			return err
		}
	}

	// Indices shift once the default sheet is gone
	f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(sheetName(models.HighSide)); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func sheetName(side models.Side) string {
	if side == models.LowSide {
		return "Low"
	}
	return "High"
}

func writeSheet(f *excelize.File, side models.Side, items []*models.Item) error {
	name := sheetName(side)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	headers := Headers(side)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}

	for r, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			item.ID,
			item.Name,
			item.Price(side).InexactFloat64(),
			item.AvgPrice(side).InexactFloat64(),
			item.HighAlch.InexactFloat64(),
			item.ProfitPerItem(side).InexactFloat64(),
			item.MaxHourlyProfit(side).InexactFloat64(),
			item.Volume(side),
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", name, r+2, err)
		}
	}

	if err := f.SetColWidth(name, "B", "B", 30); err != nil {
		return err
	}
	return nil
}
