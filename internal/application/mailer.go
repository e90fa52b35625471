package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/pkg/helpers"
	"github.com/oksasatya/locshare-api/pkg/mailer"
)

// EmailSender enqueues outbound email. Delivery is fire-and-forget for
// every caller: a failed enqueue is logged and never fails the parent
// operation.
type EmailSender interface {
	SendSignup(ctx context.Context, to, lang string)
	SendInvite(ctx context.Context, to, inviter, lang string)
	SendReset(ctx context.Context, to, resetLink, lang string)
}

// QueueMailer publishes email jobs to RabbitMQ for the email worker.
type QueueMailer struct {
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	Enabled bool
}

func NewQueueMailer(pub *helpers.RabbitPublisher, logger *logrus.Logger, enabled bool) *QueueMailer {
	return &QueueMailer{Pub: pub, Logger: logger, Enabled: enabled}
}

func (m *QueueMailer) publish(ctx context.Context, job mailer.EmailJob) {
	if !m.Enabled || m.Pub == nil {
		return
	}
	if err := m.Pub.PublishJSON(ctx, job); err != nil && m.Logger != nil {
		m.Logger.WithError(err).WithFields(logrus.Fields{
			"to": job.To, "template": job.Template,
		}).Warn("failed to enqueue email")
	}
}

func (m *QueueMailer) SendSignup(ctx context.Context, to, lang string) {
	m.publish(ctx, mailer.EmailJob{To: to, Template: "signup", Language: lang})
}

func (m *QueueMailer) SendInvite(ctx context.Context, to, inviter, lang string) {
	m.publish(ctx, mailer.EmailJob{
		To: to, Template: "invite", Language: lang,
		Data: map[string]string{"target": to, "inviter": inviter},
	})
}

func (m *QueueMailer) SendReset(ctx context.Context, to, resetLink, lang string) {
	m.publish(ctx, mailer.EmailJob{
		To: to, Template: "reset", Language: lang,
		Data: map[string]string{"resetLink": resetLink},
	})
}

var _ EmailSender = (*QueueMailer)(nil)
