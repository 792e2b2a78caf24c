// Package notify provides a client for sending settlement summaries via the
// Telegram Bot API. It formats settled submissions into human-readable
// messages and handles delivery with retry logic for reliability.
//
// The client supports Markdown formatting and includes error handling for
// common Telegram API issues like rate limiting and network failures.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/settlement"
)

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

// SendSettlement sends a settlement summary for a seller's submission,
// including invalid lines awaiting correction and any exposure warnings.
func (c *Client) SendSettlement(sellerName, date string, shift dates.Shift, res *settlement.Result, winning *int) error {
	return c.send(FormatSettlement(sellerName, date, shift, res, winning))
}

// send delivers a MarkdownV2 message with linear-backoff retry.
func (c *Client) send(message string) error {
	msg := tgbotapi.NewMessage(c.chatID, message)
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

// FormatSettlement renders a settled submission as a MarkdownV2 message.
// Exported so callers can preview the text without a live bot.
func FormatSettlement(sellerName, date string, shift dates.Shift, res *settlement.Result, winning *int) string {
	var b strings.Builder

	b.WriteString("🎰 *Resumen de venta*\n\n")
	b.WriteString(fmt.Sprintf("👤 Vendedor: %s\n", escapeMarkdownV2(sellerName)))
	b.WriteString(fmt.Sprintf("📅 Fecha: %s \\(%s\\)\n", escapeMarkdownV2(date), escapeMarkdownV2(string(shift))))
	if winning != nil {
		b.WriteString(fmt.Sprintf("🎯 Número ganador: *%s*\n", escapeMarkdownV2(winningLabel(*winning))))
	}

	saleStr := escapeMarkdownV2(fmt.Sprintf("%.2f", res.TotalSale))
	prizeStr := escapeMarkdownV2(fmt.Sprintf("%.2f", res.TotalPrize))
	b.WriteString(fmt.Sprintf("\n💵 Venta: *%s*\n🏆 Premio: *%s*\n", saleStr, prizeStr))

	if len(res.Overexposed) > 0 {
		b.WriteString("\n⚠️ *Números sobreexpuestos:*\n")
		for _, n := range res.Overexposed {
			amt := escapeMarkdownV2(fmt.Sprintf("%.2f", res.Exposure[n]))
			b.WriteString(fmt.Sprintf("   %s: %s\n", escapeMarkdownV2(winningLabel(n)), amt))
		}
	}

	if len(res.Invalid) > 0 {
		b.WriteString("\n❌ *Líneas no reconocidas:*\n")
		for _, inv := range res.Invalid {
			b.WriteString(fmt.Sprintf("   `%s`\n", escapeMarkdownV2(inv.Raw)))
		}
	}

	return b.String()
}

// winningLabel renders a number the way operators write it: two digits,
// with 0 and the 100 sentinel both shown as "00".
func winningLabel(n int) string {
	if n == 0 || n == 100 {
		return "00"
	}
	return fmt.Sprintf("%02d", n)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
