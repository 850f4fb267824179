// Package notify delivers notifications about new leads.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/lib/retry"
)

const DefaultTimeout = 30 * time.Second

type EmailConfig struct {
	Endpoint string        `yaml:"endpoint" env:"NOTIFY_EMAIL_ENDPOINT"`
	APIKey   string        `yaml:"api_key" env:"NOTIFY_EMAIL_API_KEY"`
	Timeout  time.Duration `yaml:"timeout" env-default:"30s"`
}

// EmailNotifier posts new leads to the contact notification endpoint.
type EmailNotifier struct {
	log      *slog.Logger
	endpoint string
	apiKey   string
	client   *http.Client
	retry    *retry.Retrier
}

type leadPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEmailNotifier(log *slog.Logger, cfg EmailConfig, r *retry.Retrier) *EmailNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &EmailNotifier{
		log:      log,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		retry:    r,
	}
}

func (n *EmailNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	const op = "notify.EmailNotifier.NotifyLead"

	body, err := json.Marshal(leadPayload{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Subject:   lead.Subject,
		Message:   lead.Message,
		Source:    lead.Source,
		CreatedAt: lead.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = n.retry.Do(ctx, "notify.email", func(ctx context.Context) error {
		return n.post(ctx, body)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n.log.Debug("lead notification sent", slog.String("op", op), slog.String("lead_id", lead.ID))

	return nil
}

func (n *EmailNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &retry.StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
