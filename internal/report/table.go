// Package report renders ranked items as fixed-width text tables and xlsx workbooks.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

type column struct {
	header string
	width  int
}

// Title returns the table heading for side.
func Title(side models.Side) string {
	if side == models.LowSide {
		return "Top Low Items: 6h"
	}
	return "Top High Items: 30min"
}

func columns(side models.Side) []column {
	name := "High"
	if side == models.LowSide {
		name = "Low"
	}
	return []column{
		{"ID", 10},
		{"Name", 30},
		{name + " Value", 15},
		{name + " Avg", 15},
		{"High Alch", 15},
		{"Profit/Item", 15},
		{"Profit/hr", 20},
		{name + " Volume", 15},
	}
}

// Headers returns the column headers for side.
func Headers(side models.Side) []string {
	cols := columns(side)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	return headers
}

// Row returns the formatted cells of item for side.
func Row(item *models.Item, side models.Side) []string {
	return []string{
		strconv.Itoa(item.ID),
		item.Name,
		formatDecimal(item.Price(side)),
		formatDecimal(item.AvgPrice(side)),
		formatDecimal(item.HighAlch),
		formatDecimal(item.ProfitPerItem(side)),
		formatDecimal(item.MaxHourlyProfit(side)),
		humanize.Comma(int64(item.Volume(side))),
	}
}

// Render writes the titled table of the first rows items.
func Render(w io.Writer, side models.Side, items []*models.Item, rows int) error {
	cols := columns(side)
	width := 0
	for _, c := range cols {
		width += c.width
	}
	width += 3 * (len(cols) - 1)
	rule := strings.Repeat("-", width)

	if len(items) > rows {
		items = items[:rows]
	}

	lines := []string{"", Title(side), rule, formatLine(cols, Headers(side)), rule}
	for _, item := range items {
		lines = append(lines, formatLine(cols, Row(item, side)))
	}
	lines = append(lines, rule)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func formatLine(cols []column, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%-*s", c.width, cells[i])
	}
	return strings.TrimRight(strings.Join(parts, " | "), " ")
}

func formatDecimal(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}
