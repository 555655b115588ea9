package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Forwarder delivers booking leads to the configured external webhook. It
// tries a JSON POST first and falls back to form encoding, since some form
// backends only accept the latter.
type Forwarder struct {
	webhookURL string
	httpClient *http.Client
}

// NewForwarder constructs a webhook forwarder. An empty webhookURL disables
// forwarding.
func NewForwarder(webhookURL string, timeout time.Duration) *Forwarder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Forwarder{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a webhook target is configured.
func (f *Forwarder) Enabled() bool {
	return f.webhookURL != ""
}

// Forward sends the booking to the webhook. It returns an error only when
// both encodings fail.
func (f *Forwarder) Forward(ctx context.Context, b Booking) error {
	if !f.Enabled() {
		return nil
	}

	jsonErr := f.forwardJSON(ctx, b)
	if jsonErr == nil {
		return nil
	}
	if formErr := f.forwardForm(ctx, b); formErr != nil {
		return fmt.Errorf("forward booking %s: json: %v, form: %w", b.ID, jsonErr, formErr)
	}
	return nil
}

func (f *Forwarder) forwardJSON(ctx context.Context, b Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return f.do(req)
}

func (f *Forwarder) forwardForm(ctx context.Context, b Booking) error {
	form := url.Values{}
	form.Set("id", b.ID.String())
	form.Set("name", b.Name)
	form.Set("phone", b.Phone)
	form.Set("email", b.Email)
	form.Set("rego_plate", b.RegoPlate)
	form.Set("message", b.Message)
	if b.PreferredDate != nil {
		form.Set("preferred_date", b.PreferredDate.Format("2006-01-02"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *Forwarder) do(req *http.Request) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
