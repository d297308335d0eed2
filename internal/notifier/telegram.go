package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTelegramURL is the Telegram Bot API endpoint.
const DefaultTelegramURL = "https://api.telegram.org"

// Notifier delivers refresh reports.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NoopNotifier drops every report; used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string) error { return nil }

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	BaseURL    string
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles on every attempt.
	Backoff time.Duration
	Client  *http.Client
	Logger  *zerolog.Logger
}

// Ensure the TelegramNotifier implements the Notifier interface.
var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger *zerolog.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken:   botToken,
		ChatID:     chatID,
		BaseURL:    DefaultTelegramURL,
		MaxRetries: 3,
		Backoff:    time.Second,
		Client: &http.Client{
			Timeout:   35 * time.Second,
			Transport: transport,
		},
		Logger: logger,
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method)
}

// Send posts a single HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Notify sends text, retrying with exponential backoff.
func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	var lastErr error
	backoff := t.Backoff
	for i := 0; i <= t.MaxRetries; i++ {
		lastErr = t.Send(ctx, text)
		if lastErr == nil {
			return nil
		}
		if i == t.MaxRetries {
			break
		}

		t.Logger.Warn().Err(lastErr).Msgf("telegram send failed (attempt %d/%d), retrying in %v",
			i+1, t.MaxRetries+1, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("all %d attempts exhausted: %w", t.MaxRetries+1, lastErr)
}
