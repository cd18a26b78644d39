// Package push delivers mobile push notifications through the Expo gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freshr_backend/platform/config"
)

// Sender posts notifications to the Expo push API.
type Sender struct {
	httpClient  *http.Client
	url         string
	accessToken string
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// NewSender creates an Expo push sender from configuration.
func NewSender(cfg config.PushConfig) *Sender {
	return &Sender{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		url:         cfg.GetExpoPushURL(),
		accessToken: cfg.GetExpoAccessToken(),
	}
}

// IsExpoToken reports whether token looks like an Expo push token.
// Tokens from other providers are skipped rather than rejected so stale
// registrations do not surface as delivery errors.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") && strings.HasSuffix(token, "]")
}

// Send delivers one notification to a device token.
func (s *Sender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if !IsExpoToken(token) {
		return fmt.Errorf("not an expo push token")
	}

	payload, err := json.Marshal(expoMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("expo push returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	for _, ticket := range parsed.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("expo push rejected: %s", ticket.Message)
		}
	}
	return nil
}
