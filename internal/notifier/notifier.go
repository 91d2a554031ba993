// Package notifier delivers product event notifications. Delivery is strictly
// best effort: a failed email or telegram message is logged and swallowed so
// it can never fail the persistence operation that triggered it.
package notifier

import (
	"context"

	"github.com/dropalert/dropalert/internal/domain"
	"github.com/dropalert/dropalert/internal/logger"
)

// Kind identifies the product event a notification is about.
type Kind string

const (
	KindTrackingStarted Kind = "tracking_started"
	KindPriceDrop       Kind = "price_drop"
	KindRestock         Kind = "restock"
)

// Sender delivers one formatted email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher formats and fans out notifications to the configured channels.
type Dispatcher struct {
	mail     Sender
	telegram *Telegram // nil when not configured
	logger   logger.Logger
}

// NewDispatcher creates a dispatcher. telegram may be nil.
func NewDispatcher(mail Sender, telegram *Telegram, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		mail:     mail,
		telegram: telegram,
		logger:   log,
	}
}

// Dispatch sends one notification about p to recipient. It never returns an
// error; failures are logged and dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, recipient string, p *domain.TrackedProduct) {
	subject, html, err := renderMail(kind, p)
	if err != nil {
		d.logger.Error("failed to render notification",
			logger.String("kind", string(kind)),
			logger.String("product_id", p.ID),
			logger.Error(err))
		return
	}

	if err := d.mail.Send(ctx, recipient, subject, html); err != nil {
		d.logger.Warn("failed to send notification email",
			logger.String("kind", string(kind)),
			logger.String("product_id", p.ID),
			logger.Error(err))
	} else {
		d.logger.Info("notification email sent",
			logger.String("kind", string(kind)),
			logger.String("product_id", p.ID))
	}

	if d.telegram != nil {
		if err := d.telegram.Send(renderText(kind, p)); err != nil {
			d.logger.Warn("failed to send telegram notification",
				logger.String("kind", string(kind)),
				logger.String("product_id", p.ID),
				logger.Error(err))
		}
	}
}
