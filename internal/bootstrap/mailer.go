package bootstrap

import (
	"context"
	"fmt"

	"github.com/RinkiBai/portfolio-backend/config"
	"github.com/RinkiBai/portfolio-backend/internal/contact/notify"
	"go.uber.org/zap"
)

// NewSender selects the mail transport named by MAIL_TRANSPORT.
func NewSender(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (notify.Sender, error) {
	switch cfg.Transport {
	case config.MailTransportSMTP:
		return notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.User, cfg.Password), nil
	case config.MailTransportSES:
		return notify.NewSESSender(ctx, cfg.AWSRegion)
	case config.MailTransportLog:
		return notify.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
