// Package sms delivers one-time codes to phones.
package sms

//go:generate mockgen -source=sender.go -destination=mocks/mocks.go -package=mocks Sender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	DriverLog          = "log"
	DriverHostPinnacle = "hostpinnacle"
)

var ErrUnknownDriver = errors.New("sms: unknown driver")

// Sender delivers a text message to an MSISDN.
type Sender interface {
	Send(ctx context.Context, to, message string) error
	Name() string
}

type Config struct {
	Driver   string
	APIURL   string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

// New builds the sender selected by cfg.Driver.
func New(cfg Config) (Sender, error) {
	switch cfg.Driver {
	case "", DriverLog:
		return &LogSender{}, nil
	case DriverHostPinnacle:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("sms: %s requires an API key", DriverHostPinnacle)
		}
		var client *http.Client
		if cfg.Timeout > 0 {
			client = &http.Client{Timeout: cfg.Timeout}
		}
		return NewHostPinnacleSender(cfg.APIURL, cfg.APIKey, cfg.SenderID, client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
