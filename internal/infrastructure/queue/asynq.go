package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
)

const (
	TypeSendVerification  = "email:verification"
	TypeSendPasswordReset = "email:password_reset"
	TypeSendNotification  = "email:notification"
)

type MailEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *MailEnqueuer {
	return &MailEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *MailEnqueuer) Close() error {
	return q.client.Close()
}

func (q *MailEnqueuer) EnqueueVerificationEmail(ctx context.Context, email, verifyURL string) error {
	payload, _ := json.Marshal(map[string]string{
		"email":      email,
		"verify_url": verifyURL,
	})
	task := asynq.NewTask(TypeSendVerification, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue verification email failed")
		return err
	}
	return nil
}

func (q *MailEnqueuer) EnqueuePasswordReset(ctx context.Context, email, resetURL string) error {
	payload, _ := json.Marshal(map[string]string{
		"email":     email,
		"reset_url": resetURL,
	})
	task := asynq.NewTask(TypeSendPasswordReset, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue password reset email failed")
		return err
	}
	return nil
}

func (q *MailEnqueuer) EnqueueNotification(ctx context.Context, recipients []string, subject, body string) error {
	payload, _ := json.Marshal(notificationPayload{
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
	})
	task := asynq.NewTask(TypeSendNotification, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("subject", subject).Msg("enqueue notification failed")
		return err
	}
	return nil
}

var _ ports.MailEnqueuer = (*MailEnqueuer)(nil)
