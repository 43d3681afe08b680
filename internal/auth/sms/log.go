package sms

import (
	"context"

	"github.com/sautiyetu/sauti/pkg/slogx"
)

// LogSender writes messages to the request logger instead of sending them.
// For development only: the message, including any code, is logged in full.
type LogSender struct{}

func (LogSender) Name() string { return DriverLog }

func (LogSender) Send(ctx context.Context, to, message string) error {
	slogx.FromContext(ctx).InfoContext(ctx, "sms message",
		"driver", DriverLog,
		"to", to,
		"message", message,
	)
	return nil
}
