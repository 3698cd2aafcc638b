package telegram

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Rune platebody", "Rune platebody"},
		{"Amulet of glory(4)", "Amulet of glory\\(4\\)"},
		{"1.5", "1\\.5"},
		{"-120", "\\-120"},
		{"a_b", "a\\_b"},
	}

	for _, tt := range tests {
		result := escapeMarkdownV2(tt.input)
		if result != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	high := []*models.Item{{
		ID:                  1127,
		Name:                "Rune platebody",
		ProfitPerHighItem:   decimal.NewFromInt(320),
		MaxHighHourlyProfit: decimal.NewFromInt(22400),
		HighPriceVolume:     150,
	}}

	msg := formatMessage("run-1", high, nil)

	if !strings.Contains(msg, "1\\. Rune platebody") {
		t.Errorf("Expected numbered item line, got %q", msg)
	}
	if !strings.Contains(msg, "320 gp/item, 22400 gp/hr") {
		t.Errorf("Expected profit line, got %q", msg)
	}
	if !strings.Contains(msg, "Volume: 150") {
		t.Errorf("Expected volume line, got %q", msg)
	}
	if !strings.Contains(msg, "No items passed the volume filter\\.") {
		t.Errorf("Expected empty low section notice, got %q", msg)
	}
	if !strings.Contains(msg, "run\\-1") {
		t.Errorf("Expected escaped run ID, got %q", msg)
	}
}

func TestFormatMessage_CapsItemsPerSide(t *testing.T) {
	var low []*models.Item
	for i := 0; i < 8; i++ {
		low = append(low, &models.Item{ID: i + 1, Name: "Yew longbow"})
	}

	msg := formatMessage("r", nil, low)
	if strings.Count(msg, "Yew longbow") != maxItemsPerSide {
		t.Errorf("Expected %d items, got %d", maxItemsPerSide, strings.Count(msg, "Yew longbow"))
	}
}
