package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// verificationPayload matches the JSON enqueued by MailEnqueuer.EnqueueVerificationEmail.
type verificationPayload struct {
	Email     string `json:"email"`
	VerifyURL string `json:"verify_url"`
}

// passwordResetPayload matches the JSON enqueued by MailEnqueuer.EnqueuePasswordReset.
type passwordResetPayload struct {
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
}

// notificationPayload matches the JSON enqueued by MailEnqueuer.EnqueueNotification.
type notificationPayload struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Worker runs Asynq task handlers for the outgoing email queue.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, log: log}
	mux.HandleFunc(TypeSendVerification, w.handleSendVerification)
	mux.HandleFunc(TypeSendPasswordReset, w.handleSendPasswordReset)
	mux.HandleFunc(TypeSendNotification, w.handleSendNotification)
	return w
}

func (w *Worker) handleSendVerification(ctx context.Context, t *asynq.Task) error {
	var p verificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("verification task payload invalid")
		return err
	}
	// Dev: log the link; production would send email via SMTP/sendgrid etc.
	w.log.Info().
		Str("email", p.Email).
		Str("verify_url", p.VerifyURL).
		Msg("verification email (log only; configure SMTP for real email)")
	return nil
}

func (w *Worker) handleSendPasswordReset(ctx context.Context, t *asynq.Task) error {
	var p passwordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("password reset task payload invalid")
		return err
	}
	w.log.Info().
		Str("email", p.Email).
		Str("reset_url", p.ResetURL).
		Msg("password reset email (log only; configure SMTP for real email)")
	return nil
}

func (w *Worker) handleSendNotification(ctx context.Context, t *asynq.Task) error {
	var p notificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("notification task payload invalid")
		return err
	}
	w.log.Info().
		Strs("recipients", p.Recipients).
		Str("subject", p.Subject).
		Msg("notification email (log only; configure SMTP for real email)")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
