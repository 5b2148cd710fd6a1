package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// Dispatcher records audit trail entries and forwards notification mail.
// Recording is mandatory: a persistence failure aborts with a dependency
// error. Notification is best-effort: the caller gets ErrNotifyFailed but
// the state change that produced the activity stands.
type Dispatcher struct {
	activities ports.ActivityRepository
	mail       ports.MailEnqueuer
	log        zerolog.Logger
}

func NewDispatcher(activities ports.ActivityRepository, mail ports.MailEnqueuer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{activities: activities, mail: mail, log: log}
}

// Record persists one audit trail entry for a ticket-scoped action.
func (d *Dispatcher) Record(ctx context.Context, typ domain.ActivityType, author domain.UserID, ticketID domain.TicketID, text string) (*domain.Activity, error) {
	act := &domain.Activity{
		ID:        uuid.New(),
		Type:      typ,
		Text:      text,
		AuthorID:  author,
		TicketID:  &ticketID,
		CreatedAt: time.Now(),
	}
	if err := d.activities.Create(ctx, act); err != nil {
		d.log.Error().Err(err).Str("type", string(typ)).Msg("record activity failed")
		return nil, domerrors.ErrDependency
	}
	return act, nil
}

// RecordProject persists one audit trail entry for a project-scoped action.
func (d *Dispatcher) RecordProject(ctx context.Context, typ domain.ActivityType, author domain.UserID, projectID domain.ProjectID, text string) (*domain.Activity, error) {
	act := &domain.Activity{
		ID:        uuid.New(),
		Type:      typ,
		Text:      text,
		AuthorID:  author,
		ProjectID: &projectID,
		CreatedAt: time.Now(),
	}
	if err := d.activities.Create(ctx, act); err != nil {
		d.log.Error().Err(err).Str("type", string(typ)).Msg("record activity failed")
		return nil, domerrors.ErrDependency
	}
	return act, nil
}

// Notify enqueues notification mail for an already recorded activity. An
// empty recipient list is a no-op.
func (d *Dispatcher) Notify(ctx context.Context, act *domain.Activity, subject string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	if err := d.mail.EnqueueNotification(ctx, recipients, subject, act.Text); err != nil {
		d.log.Warn().Err(err).Str("type", string(act.Type)).Int("recipients", len(recipients)).Msg("notification dispatch failed")
		return domerrors.ErrNotifyFailed
	}
	return nil
}
