package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/alchscan/internal/models"
)

func sampleItems(n int) []*models.Item {
	items := make([]*models.Item, n)
	for i := range items {
		items[i] = &models.Item{
			ID:                  1000 + i,
			Name:                "Rune platebody",
			High:                decimal.NewFromInt(38500),
			Low:                 decimal.NewFromInt(38000),
			HighAlch:            decimal.NewFromInt(39000),
			Limit:               70,
			ProfitPerHighItem:   decimal.NewFromFloat(320.5),
			ProfitPerLowItem:    decimal.NewFromInt(820),
			MaxHighHourlyProfit: decimal.NewFromInt(22435),
			MaxLowHourlyProfit:  decimal.NewFromInt(57400),
			AvgHighPrice:        decimal.NewFromInt(38420),
			AvgLowPrice:         decimal.NewFromInt(37950),
			HighPriceVolume:     1250,
			LowPriceVolume:      14,
		}
	}
	return items
}

func TestRender_HighTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, models.HighSide, sampleItems(12), 10); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Top High Items: 30min") {
		t.Errorf("Missing title in %q", out)
	}
	for _, header := range []string{"ID", "Name", "High Value", "High Avg", "High Alch", "Profit/Item", "Profit/hr", "High Volume"} {
		if !strings.Contains(out, header) {
			t.Errorf("Missing header %q", header)
		}
	}
	if strings.Count(out, "Rune platebody") != 10 {
		t.Errorf("Expected 10 rows, got %d", strings.Count(out, "Rune platebody"))
	}
	if !strings.Contains(out, "38,500.00") || !strings.Contains(out, "320.50") || !strings.Contains(out, "1,250") {
		t.Errorf("Expected grouped two-decimal numbers, got %q", out)
	}
}

func TestRender_LowTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, models.LowSide, sampleItems(3), 20); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Top Low Items: 6h") {
		t.Errorf("Missing title in %q", out)
	}
	if !strings.Contains(out, "Low Volume") || strings.Contains(out, "High Volume") {
		t.Errorf("Expected low-side columns, got %q", out)
	}
	if !strings.Contains(out, "38,000.00") || !strings.Contains(out, "57,400.00") {
		t.Errorf("Expected low-side values, got %q", out)
	}
	if strings.Count(out, "Rune platebody") != 3 {
		t.Errorf("Expected 3 rows, got %d", strings.Count(out, "Rune platebody"))
	}
}

func TestRender_ColumnsAligned(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, models.HighSide, sampleItems(1), 10); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// title, rule, header, rule, row, rule
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines, got %d", len(lines))
	}
	header, row := lines[2], lines[4]
	if strings.Index(header, "| Name") != strings.Index(row, "| Rune platebody") {
		t.Errorf("Name column misaligned:\n%s\n%s", header, row)
	}
}

func TestRow_NegativeProfit(t *testing.T) {
	item := &models.Item{ID: 1, ProfitPerHighItem: decimal.NewFromInt(-1500)}
	row := Row(item, models.HighSide)
	if row[5] != "-1,500.00" {
		t.Errorf("Expected -1,500.00, got %q", row[5])
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteWorkbook(path, sampleItems(2), sampleItems(1)); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	high, err := f.GetRows("High")
	if err != nil {
		t.Fatalf("GetRows(High) failed: %v", err)
	}
	if len(high) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(high))
	}
	if high[0][2] != "High Value" || high[1][0] != "1000" {
		t.Errorf("Unexpected High sheet contents: %v", high)
	}

	low, err := f.GetRows("Low")
	if err != nil {
		t.Fatalf("GetRows(Low) failed: %v", err)
	}
	if len(low) != 2 || low[0][7] != "Low Volume" {
		t.Errorf("Unexpected Low sheet contents: %v", low)
	}

	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		t.Error("Expected default sheet to be removed")
	}
}
