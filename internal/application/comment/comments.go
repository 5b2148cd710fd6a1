package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type CreateInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
	Text     string
}

type CreateResult struct {
	Comment *domain.Comment
}

type Create struct {
	comments   ports.CommentRepository
	tickets    ports.TicketRepository
	authority  *membership.Authority
	dispatcher *activity.Dispatcher
}

func NewCreate(comments ports.CommentRepository, tickets ports.TicketRepository, authority *membership.Authority, dispatcher *activity.Dispatcher) *Create {
	return &Create{comments: comments, tickets: tickets, authority: authority, dispatcher: dispatcher}
}

func (uc *Create) Execute(ctx context.Context, input CreateInput) (*CreateResult, error) {
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
	now := time.Now()
	comment := &domain.Comment{
		ID:        uuid.New(),
		TicketID:  ticket.ID,
		AuthorID:  input.Acting.ID,
		Text:      input.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.comments.Create(ctx, comment); err != nil {
		return nil, domerrors.ErrDependency
	}
	text := fmt.Sprintf("%s commented on the ticket %s", input.Acting.Username, ticket.Name)
	if _, err := uc.dispatcher.Record(ctx, domain.ActivityCommented, input.Acting.ID, ticket.ID, text); err != nil {
		return nil, err
	}
	return &CreateResult{Comment: comment}, nil
}

type EditInput struct {
	Acting    *domain.User
	CommentID uuid.UUID
	Text      string
}

type EditResult struct {
	Comment *domain.Comment
}

type Edit struct {
	comments ports.CommentRepository
}

func NewEdit(comments ports.CommentRepository) *Edit {
	return &Edit{comments: comments}
}

// Execute edits a comment. Editing is author-only; admins may delete but not
// rewrite someone else's words.
func (uc *Edit) Execute(ctx context.Context, input EditInput) (*EditResult, error) {
	comment, err := uc.comments.GetByID(ctx, input.CommentID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if comment == nil {
		return nil, domerrors.ErrCommentNotFound
	}
	if comment.AuthorID != input.Acting.ID {
		return nil, domerrors.ErrNotAuthor
	}
	comment.Text = input.Text
	comment.UpdatedAt = time.Now()
	if err := uc.comments.Update(ctx, comment); err != nil {
		return nil, domerrors.ErrDependency
	}
	return &EditResult{Comment: comment}, nil
}

type DeleteInput struct {
	Acting    *domain.User
	CommentID uuid.UUID
}

type Delete struct {
	comments ports.CommentRepository
}

func NewDelete(comments ports.CommentRepository) *Delete {
	return &Delete{comments: comments}
}

func (uc *Delete) Execute(ctx context.Context, input DeleteInput) error {
	comment, err := uc.comments.GetByID(ctx, input.CommentID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if comment == nil {
		return domerrors.ErrCommentNotFound
	}
	if comment.AuthorID != input.Acting.ID && !input.Acting.IsAdmin() {
		return domerrors.ErrNotAuthor
	}
	return uc.comments.Delete(ctx, comment.ID)
}
