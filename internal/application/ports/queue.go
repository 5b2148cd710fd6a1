package ports

import "context"

// MailEnqueuer enqueues async email tasks. Enqueue errors surface to the
// caller synchronously but never roll back the state change that triggered
// the mail.
type MailEnqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, email, verifyURL string) error
	EnqueuePasswordReset(ctx context.Context, email, resetURL string) error
	EnqueueNotification(ctx context.Context, recipients []string, subject, body string) error
}
