package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sautiyetu/sauti/pkg/phonex"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

const (
	DefaultHostPinnacleURL = "https://api.hostpinnacle.com/sms"
	DefaultSenderID        = "SAUTI"
	defaultTimeout         = 10 * time.Second
)

// HostPinnacleSender posts messages to the HostPinnacle HTTP API.
type HostPinnacleSender struct {
	apiURL     string
	apiKey     string
	senderID   string
	httpClient *http.Client
}

func NewHostPinnacleSender(apiURL, apiKey, senderID string, httpClient *http.Client) *HostPinnacleSender {
	if apiURL == "" {
		apiURL = DefaultHostPinnacleURL
	}
	if senderID == "" {
		senderID = DefaultSenderID
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HostPinnacleSender{
		apiURL:     apiURL,
		apiKey:     apiKey,
		senderID:   senderID,
		httpClient: httpClient,
	}
}

type hostPinnacleRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

func (s *HostPinnacleSender) Name() string { return DriverHostPinnacle }

func (s *HostPinnacleSender) Send(ctx context.Context, to, message string) error {
	body, err := json.Marshal(hostPinnacleRequest{To: to, Message: message, SenderID: s.senderID})
	if err != nil {
		return fmt.Errorf("sms: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send to %s: %w", phonex.Mask(to), err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms: hostpinnacle returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	slogx.FromContext(ctx).DebugContext(ctx, "sms sent",
		"driver", DriverHostPinnacle,
		"to", phonex.Mask(to),
		"status", resp.StatusCode,
	)
	return nil
}
