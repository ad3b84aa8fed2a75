package notifications

import (
	"context"

	"rezzy/pkg/logger"
)

// logSender writes notifications to the structured log instead of an
// external provider. Stands in until a mail/SMS integration lands.
type logSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(_ context.Context, n *Notification) error {
	s.log.Info("Delivering notification",
		"recipient", n.Recipient,
		"subject", n.Subject,
		"body", n.Body,
	)
	return nil
}
