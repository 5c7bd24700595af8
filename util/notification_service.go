// api/util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
)

// Mailer delivers one-time codes out of band. Transport internals live
// behind this interface; the core only ever hands over recipient and body.
type Mailer interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

type NotificationService struct {
	// A real deployment plugs an SMTP client or provider API in here.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

var _ Mailer = &NotificationService{}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}
