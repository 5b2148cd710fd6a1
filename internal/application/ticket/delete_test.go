package ticket_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ticket"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/storage"
)

func TestDelete_OwnerOnly(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.member, "login broken")

	uc := ticket.NewDelete(env.tickets, env.projects, apptest.NewAttachmentRepo(), storage.NewMemoryStorage(), env.dispatcher, zerolog.Nop())

	// A plain member, even the reporter, may not delete.
	err := uc.Execute(context.Background(), ticket.DeleteInput{Acting: env.member, TicketID: tk.ID})
	assert.ErrorIs(t, err, domerrors.ErrNotOwner)

	require.NoError(t, uc.Execute(context.Background(), ticket.DeleteInput{Acting: env.owner, TicketID: tk.ID}))

	gone, err := env.tickets.GetByID(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// The audit trail entry outlives the ticket on the project.
	last := env.activities.Entries[len(env.activities.Entries)-1]
	assert.Equal(t, domain.ActivityTicketDeleted, last.Type)
	require.NotNil(t, last.ProjectID)
	assert.Equal(t, env.project.ID, *last.ProjectID)
}

func TestDelete_AdminWithoutMembership(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.member, "login broken")
	admin := apptest.NewUser("root", domain.RoleAdmin)

	uc := ticket.NewDelete(env.tickets, env.projects, apptest.NewAttachmentRepo(), storage.NewMemoryStorage(), env.dispatcher, zerolog.Nop())
	assert.NoError(t, uc.Execute(context.Background(), ticket.DeleteInput{Acting: admin, TicketID: tk.ID}))
}

func TestDelete_SweepsAttachmentObjects(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	attachments := apptest.NewAttachmentRepo()
	store := storage.NewMemoryStorage()
	uploaded := env.attach(t, attachments, store, env.member, tk.ID, "trace.log", "panic at line 42")

	uc := ticket.NewDelete(env.tickets, env.projects, attachments, store, env.dispatcher, zerolog.Nop())
	require.NoError(t, uc.Execute(context.Background(), ticket.DeleteInput{Acting: env.owner, TicketID: tk.ID}))

	_, err := store.Get(context.Background(), uploaded.StorageKey)
	assert.ErrorIs(t, err, domerrors.ErrFileNotFound)
}
