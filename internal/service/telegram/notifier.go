package telegram

import (
	"context"
	"fmt"

	drepo "PairSight/internal/domain/repository"
	xhttp "PairSight/pkg/http"
	"PairSight/pkg/logger"
)

// Notifier delivers alert messages through the Telegram Bot API.
type Notifier struct {
	botToken string
	chatID   string
	baseURL  string
	http     *xhttp.Client
	log      *logger.Logger
}

// Option configures Notifier.
type Option func(*Notifier)

// WithBaseURL overrides the Bot API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(n *Notifier) { n.baseURL = u }
}

// New creates a Telegram notifier. When either credential is missing the
// returned notifier logs and drops messages instead of calling out, so
// alerting degrades silently rather than failing evaluations.
func New(botToken, chatID string, httpClient *xhttp.Client, log *logger.Logger, opts ...Option) drepo.Notifier {
	n := &Notifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		http:     httpClient,
		log:      log,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.botToken == "" || n.chatID == "" {
		log.Warn("telegram credentials missing, alerts disabled")
		return &disabledNotifier{log: log}
	}
	return n
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify posts one message to the configured chat.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	var resp sendMessageResponse
	err := n.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken),
		Body: map[string]string{
			"chat_id": n.chatID,
			"text":    message,
		},
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram sendMessage: %s", resp.Description)
	}
	return nil
}

// disabledNotifier drops messages when no credentials are configured.
type disabledNotifier struct {
	log *logger.Logger
}

func (d *disabledNotifier) Notify(_ context.Context, message string) error {
	d.log.Debug("alert dropped, telegram disabled", logger.String("message", message))
	return nil
}
