package mailer

import (
	"fmt"

	"github.com/oksasatya/locshare-api/pkg/i18n"
)

// Render resolves a templated job into a subject and plain-text body.
// Raw jobs (no template) pass through unchanged.
func Render(job EmailJob) (subject, text string, err error) {
	if job.Template == "" {
		if job.Subject == "" || job.Text == "" {
			return "", "", fmt.Errorf("raw email job requires subject and text")
		}
		return job.Subject, job.Text, nil
	}

	lang := i18n.VerifyLangCode(job.Language)
	var params []string
	for k, v := range job.Data {
		params = append(params, k, v)
	}

	switch job.Template {
	case "signup":
		return i18n.Get(lang, "signup.emailSubject"), i18n.Get(lang, "signup.emailText", params...), nil
	case "invite":
		return i18n.Get(lang, "invite.emailSubject"), i18n.Get(lang, "invite.emailText", params...), nil
	case "reset":
		return i18n.Get(lang, "reset.emailSubject"), i18n.Get(lang, "reset.emailText", params...), nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
