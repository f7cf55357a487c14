package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers one composed message through a mail transport.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, m *Message) error {
	s.logger.Info("mail transport disabled, message not sent",
		zap.String("to", m.To),
		zap.String("reply_to", m.ReplyTo),
		zap.String("subject", m.Subject),
		zap.String("body", m.Text),
	)
	return nil
}
