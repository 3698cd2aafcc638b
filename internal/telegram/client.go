// Package telegram delivers a scan summary through the Telegram Bot API.
// It formats the displayed rankings into a MarkdownV2 message and sends it
// with a bounded retry loop.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/rewired-gh/alchscan/internal/models"
)

// maxItemsPerSide bounds the message well under Telegram's 4096 character limit.
const maxItemsPerSide = 5

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send delivers the top of both rankings
func (c *Client) Send(runID string, high, low []*models.Item) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(runID, high, low))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage formats both rankings into a Telegram message
func formatMessage(runID string, high, low []*models.Item) string {
	var b strings.Builder

	b.WriteString("🔥 *High Alchemy Opportunities*\n\n")
	writeSection(&b, "📈 Instant buy, 30min volume", high, models.HighSide)
	writeSection(&b, "📉 Buy offers, 6h volume", low, models.LowSide)
	b.WriteString(fmt.Sprintf("_run %s_", escapeMarkdownV2(runID)))

	return b.String()
}

func writeSection(b *strings.Builder, title string, items []*models.Item, side models.Side) {
	b.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdownV2(title)))
	if len(items) == 0 {
		b.WriteString(escapeMarkdownV2("No items passed the volume filter.") + "\n\n")
		return
	}

	for i, item := range items {
		if i == maxItemsPerSide {
			break
		}
		b.WriteString(fmt.Sprintf("%d\\. %s\n", i+1, escapeMarkdownV2(item.Name)))
		b.WriteString(fmt.Sprintf("   💰 %s gp/item, %s gp/hr\n",
			escapeMarkdownV2(formatGP(item.ProfitPerItem(side))),
			escapeMarkdownV2(formatGP(item.MaxHourlyProfit(side)))))
		b.WriteString(fmt.Sprintf("   📊 Volume: %d\n", item.Volume(side)))
	}
	b.WriteString("\n")
}

func formatGP(d decimal.Decimal) string {
	return d.StringFixed(0)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
