package ticket

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type AttachFileInput struct {
	Acting      *domain.User
	TicketID    domain.TicketID
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type AttachFileResult struct {
	Attachment *domain.Attachment
}

type AttachFile struct {
	tickets     ports.TicketRepository
	attachments ports.AttachmentRepository
	storage     ports.ObjectStorage
	authority   *membership.Authority
	dispatcher  *activity.Dispatcher
}

func NewAttachFile(tickets ports.TicketRepository, attachments ports.AttachmentRepository, storage ports.ObjectStorage, authority *membership.Authority, dispatcher *activity.Dispatcher) *AttachFile {
	return &AttachFile{tickets: tickets, attachments: attachments, storage: storage, authority: authority, dispatcher: dispatcher}
}

// Execute uploads the object first and records the metadata row after, so a
// storage failure leaves no dangling row.
func (uc *AttachFile) Execute(ctx context.Context, input AttachFileInput) (*AttachFileResult, error) {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if ticket == nil {
		return nil, domerrors.ErrTicketNotFound
	}
	if _, err := uc.authority.RequireMember(ctx, input.Acting.ID, ticket.ProjectID); err != nil {
		return nil, err
	}
	id := uuid.New()
	key := fmt.Sprintf("tickets/%s/%s-%s", ticket.ID, id, input.Filename)
	if err := uc.storage.Put(ctx, key, input.Body, input.Size, input.ContentType); err != nil {
		return nil, domerrors.ErrDependency
	}
	attachment := &domain.Attachment{
		ID:          id,
		TicketID:    ticket.ID,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Size:        input.Size,
		StorageKey:  key,
		UploadedBy:  input.Acting.ID,
		CreatedAt:   time.Now(),
	}
	if err := uc.attachments.Create(ctx, attachment); err != nil {
		return nil, domerrors.ErrDependency
	}
	text := fmt.Sprintf("%s attached %s to the ticket %s", input.Acting.Username, input.Filename, ticket.Name)
	if _, err := uc.dispatcher.Record(ctx, domain.ActivityFileUploaded, input.Acting.ID, ticket.ID, text); err != nil {
		return nil, err
	}
	return &AttachFileResult{Attachment: attachment}, nil
}

type DeleteFileInput struct {
	Acting       *domain.User
	TicketID     domain.TicketID
	AttachmentID uuid.UUID
}

type DeleteFile struct {
	tickets     ports.TicketRepository
	attachments ports.AttachmentRepository
	storage     ports.ObjectStorage
	authority   *membership.Authority
	dispatcher  *activity.Dispatcher
	log         zerolog.Logger
}

func NewDeleteFile(tickets ports.TicketRepository, attachments ports.AttachmentRepository, storage ports.ObjectStorage, authority *membership.Authority, dispatcher *activity.Dispatcher, log zerolog.Logger) *DeleteFile {
	return &DeleteFile{tickets: tickets, attachments: attachments, storage: storage, authority: authority, dispatcher: dispatcher, log: log}
}

// Execute removes the metadata row, then the object. An orphaned object is
// only a storage leak, logged and tolerated; an orphaned row would keep a
// dead download link alive.
func (uc *DeleteFile) Execute(ctx context.Context, input DeleteFileInput) error {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if ticket == nil {
		return domerrors.ErrTicketNotFound
	}
	if _, err := uc.authority.RequireMember(ctx, input.Acting.ID, ticket.ProjectID); err != nil {
		return err
	}
	attachment, err := uc.attachments.GetByID(ctx, input.AttachmentID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if attachment == nil || attachment.TicketID != ticket.ID {
		return domerrors.ErrFileNotFound
	}
	if err := uc.attachments.Delete(ctx, attachment.ID); err != nil {
		return domerrors.ErrDependency
	}
	if err := uc.storage.Remove(ctx, attachment.StorageKey); err != nil {
		uc.log.Warn().Err(err).Str("key", attachment.StorageKey).Msg("object delete failed; metadata row already removed")
	}
	text := fmt.Sprintf("%s deleted %s from the ticket %s", input.Acting.Username, attachment.Filename, ticket.Name)
	_, err = uc.dispatcher.Record(ctx, domain.ActivityFileDeleted, input.Acting.ID, ticket.ID, text)
	return err
}

type GetFileInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
	Filename string
}

type GetFileResult struct {
	Attachment *domain.Attachment
	Body       io.ReadCloser
}

type GetFile struct {
	tickets     ports.TicketRepository
	attachments ports.AttachmentRepository
	storage     ports.ObjectStorage
	authority   *membership.Authority
}

func NewGetFile(tickets ports.TicketRepository, attachments ports.AttachmentRepository, storage ports.ObjectStorage, authority *membership.Authority) *GetFile {
	return &GetFile{tickets: tickets, attachments: attachments, storage: storage, authority: authority}
}

func (uc *GetFile) Execute(ctx context.Context, input GetFileInput) (*GetFileResult, error) {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if ticket == nil {
		return nil, domerrors.ErrTicketNotFound
	}
	if _, err := uc.authority.RequireMember(ctx, input.Acting.ID, ticket.ProjectID); err != nil {
		return nil, err
	}
	attachment, err := uc.attachments.GetByFilename(ctx, ticket.ID, input.Filename)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if attachment == nil {
		return nil, domerrors.ErrFileNotFound
	}
	body, err := uc.storage.Get(ctx, attachment.StorageKey)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	return &GetFileResult{Attachment: attachment, Body: body}, nil
}
