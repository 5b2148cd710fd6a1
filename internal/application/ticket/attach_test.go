package ticket_test

import (
	"context"
	"io"
	"strings"
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

func (e *ticketEnv) attach(t *testing.T, attachments *apptest.AttachmentRepo, store *storage.MemoryStorage, acting *domain.User, id domain.TicketID, filename, content string) *domain.Attachment {
	t.Helper()
	uc := ticket.NewAttachFile(e.tickets, attachments, store, e.authority, e.dispatcher)
	result, err := uc.Execute(context.Background(), ticket.AttachFileInput{
		Acting:      acting,
		TicketID:    id,
		Filename:    filename,
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	})
	require.NoError(t, err)
	return result.Attachment
}

func TestAttachAndGetFile(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	attachments := apptest.NewAttachmentRepo()
	store := storage.NewMemoryStorage()

	uploaded := env.attach(t, attachments, store, env.member, tk.ID, "trace.log", "panic at line 42")
	assert.Equal(t, env.member.ID, uploaded.UploadedBy)
	assert.Equal(t, int64(len("panic at line 42")), uploaded.Size)

	get := ticket.NewGetFile(env.tickets, attachments, store, env.authority)
	result, err := get.Execute(context.Background(), ticket.GetFileInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		Filename: "trace.log",
	})
	require.NoError(t, err)
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "panic at line 42", string(data))
	assert.Equal(t, "text/plain", result.Attachment.ContentType)
}

func TestGetFile_SameNameReturnsNewestUpload(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	attachments := apptest.NewAttachmentRepo()
	store := storage.NewMemoryStorage()

	env.attach(t, attachments, store, env.member, tk.ID, "trace.log", "first upload")
	env.attach(t, attachments, store, env.member, tk.ID, "trace.log", "second upload")

	get := ticket.NewGetFile(env.tickets, attachments, store, env.authority)
	result, err := get.Execute(context.Background(), ticket.GetFileInput{
		Acting:   env.member,
		TicketID: tk.ID,
		Filename: "trace.log",
	})
	require.NoError(t, err)
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "second upload", string(data))
}

func TestAttachFile_MembersOnly(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	uc := ticket.NewAttachFile(env.tickets, apptest.NewAttachmentRepo(), storage.NewMemoryStorage(), env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.AttachFileInput{
		Acting:      env.outsider,
		TicketID:    tk.ID,
		Filename:    "trace.log",
		ContentType: "text/plain",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	assert.ErrorIs(t, err, domerrors.ErrNotAMember)
}

func TestDeleteFile(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	attachments := apptest.NewAttachmentRepo()
	store := storage.NewMemoryStorage()
	uploaded := env.attach(t, attachments, store, env.member, tk.ID, "trace.log", "panic at line 42")

	del := ticket.NewDeleteFile(env.tickets, attachments, store, env.authority, env.dispatcher, zerolog.Nop())
	require.NoError(t, del.Execute(context.Background(), ticket.DeleteFileInput{
		Acting:       env.owner,
		TicketID:     tk.ID,
		AttachmentID: uploaded.ID,
	}))

	get := ticket.NewGetFile(env.tickets, attachments, store, env.authority)
	_, err := get.Execute(context.Background(), ticket.GetFileInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		Filename: "trace.log",
	})
	assert.ErrorIs(t, err, domerrors.ErrFileNotFound)
}

func TestDeleteFile_WrongTicket(t *testing.T) {
	env := newTicketEnv()
	first := env.create(t, env.owner, "login broken")
	second := env.create(t, env.owner, "timeout on save")
	attachments := apptest.NewAttachmentRepo()
	store := storage.NewMemoryStorage()
	uploaded := env.attach(t, attachments, store, env.member, first.ID, "trace.log", "panic at line 42")

	// The attachment id must belong to the addressed ticket.
	del := ticket.NewDeleteFile(env.tickets, attachments, store, env.authority, env.dispatcher, zerolog.Nop())
	err := del.Execute(context.Background(), ticket.DeleteFileInput{
		Acting:       env.owner,
		TicketID:     second.ID,
		AttachmentID: uploaded.ID,
	})
	assert.ErrorIs(t, err, domerrors.ErrFileNotFound)
}
