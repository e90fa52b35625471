package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects a localized message ("signup", "invite", "reset"); Data
// carries its placeholder values. Raw Subject/Text jobs are also accepted.
type EmailJob struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject,omitempty"`
	Text     string            `json:"text,omitempty"`
	Template string            `json:"template,omitempty"`
	Language string            `json:"language,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}
