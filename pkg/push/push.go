// Package push abstracts the mobile push gateways. Delivery is
// fire-and-forget: failures are logged by callers and never propagated.
package push

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/pkg/i18n"
)

// Tokens holds the per-platform delivery tokens stored on a user record.
type Tokens struct {
	APN string `json:"apn,omitempty"`
	GCM string `json:"gcm,omitempty"`
	WP8 string `json:"wp8,omitempty"`
}

// Gateway delivers push notifications to a user's device.
type Gateway interface {
	// SendLocalized sends a visible notification with the message looked
	// up from the i18n catalog by key, in the user's language.
	SendLocalized(ctx context.Context, tokens Tokens, lang, messageKey string) error
	// SendSilent sends a data-only notification that wakes the app
	// without alerting the user.
	SendSilent(ctx context.Context, tokens Tokens, event string) error
}

// LogGateway is a Gateway that only logs deliveries. It stands in for the
// real APN/GCM/WP8 transports in development and tests.
type LogGateway struct {
	Logger *logrus.Logger
}

func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{Logger: logger}
}

func (g *LogGateway) SendLocalized(ctx context.Context, tokens Tokens, lang, messageKey string) error {
	if g.Logger != nil {
		g.Logger.WithFields(logrus.Fields{
			"lang":    i18n.VerifyLangCode(lang),
			"message": i18n.Get(i18n.VerifyLangCode(lang), messageKey),
			"apn":     tokens.APN != "",
			"gcm":     tokens.GCM != "",
			"wp8":     tokens.WP8 != "",
		}).Info("visible push delivered")
	}
	return nil
}

func (g *LogGateway) SendSilent(ctx context.Context, tokens Tokens, event string) error {
	if g.Logger != nil {
		g.Logger.WithField("event", event).Debug("silent push delivered")
	}
	return nil
}

var _ Gateway = (*LogGateway)(nil)
