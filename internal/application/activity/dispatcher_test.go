package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

func TestRecord(t *testing.T) {
	repo := apptest.NewActivityRepo()
	mail := apptest.NewMail()
	d := activity.NewDispatcher(repo, mail, zerolog.Nop())

	author := domain.NewUserID(uuid.New())
	ticketID := domain.NewTicketID(uuid.New())
	act, err := d.Record(context.Background(), domain.ActivityCommented, author, ticketID, "bob commented on the ticket")
	require.NoError(t, err)
	require.NotNil(t, act.TicketID)
	assert.Equal(t, ticketID, *act.TicketID)
	assert.Nil(t, act.ProjectID)

	entries, err := repo.ListByTicket(context.Background(), ticketID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordProject(t *testing.T) {
	repo := apptest.NewActivityRepo()
	d := activity.NewDispatcher(repo, apptest.NewMail(), zerolog.Nop())

	author := domain.NewUserID(uuid.New())
	projectID := domain.NewProjectID(uuid.New())
	act, err := d.RecordProject(context.Background(), domain.ActivityMemberAdded, author, projectID, "alice added bob")
	require.NoError(t, err)
	require.NotNil(t, act.ProjectID)
	assert.Equal(t, projectID, *act.ProjectID)
	assert.Nil(t, act.TicketID)
}

func TestNotify_EmptyRecipientsIsANoop(t *testing.T) {
	mail := apptest.NewMail()
	d := activity.NewDispatcher(apptest.NewActivityRepo(), mail, zerolog.Nop())

	err := d.Notify(context.Background(), &domain.Activity{Type: domain.ActivityAssigned}, "Ticket assigned", nil)
	require.NoError(t, err)
	assert.Empty(t, mail.Sent)
}

func TestNotify_EnqueueFailure(t *testing.T) {
	mail := apptest.NewMail()
	mail.Err = errors.New("broker down")
	d := activity.NewDispatcher(apptest.NewActivityRepo(), mail, zerolog.Nop())

	err := d.Notify(context.Background(), &domain.Activity{Type: domain.ActivityAssigned}, "Ticket assigned", []string{"bob@example.com"})
	assert.ErrorIs(t, err, domerrors.ErrNotifyFailed)
}
