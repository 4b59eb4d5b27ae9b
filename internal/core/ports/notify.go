package ports

import "context"

// Notification templates understood by the mailer.
const (
	TemplateVerifyEmail   = "verify_email"
	TemplatePasswordReset = "password_reset"
	TemplatePurchase      = "purchase_confirmation"
	TemplateGameApproved  = "game_approved"
	TemplateGameRejected  = "game_rejected"
)

// Notification is a templated message to a single recipient.
type Notification struct {
	To       string
	Name     string
	Template string
	Data     map[string]string
}

// Notifier enqueues a notification for asynchronous delivery. Delivery is
// best-effort: failures are logged and counted, never propagated back into
// the workflow that triggered them.
type Notifier interface {
	Notify(n Notification)
}

// Mailer performs the actual send. Implementations talk to the provider or
// log locally in development.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
