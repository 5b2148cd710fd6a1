package role

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type RequestChangeInput struct {
	Acting *domain.User
	Role   domain.Role
}

type RequestChangeResult struct {
	Request *domain.RoleRequest
}

type RequestChange struct {
	requests ports.RequestRepository
}

func NewRequestChange(requests ports.RequestRepository) *RequestChange {
	return &RequestChange{requests: requests}
}

// Execute files a role change request. The requests table has a unique
// author_id, so two concurrent calls race on the insert and exactly one
// wins; the loser observes the conflict from the constraint, not from the
// pre-check.
func (uc *RequestChange) Execute(ctx context.Context, input RequestChangeInput) (*RequestChangeResult, error) {
	// Admin roles are not managed through the request workflow.
	if input.Acting.IsAdmin() {
		return nil, domerrors.ErrAdminProtected
	}
	if input.Role == input.Acting.Role {
		return nil, domerrors.ErrSameRole
	}
	existing, err := uc.requests.GetByAuthor(ctx, input.Acting.ID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if existing != nil {
		return nil, domerrors.ErrRequestPending
	}
	now := time.Now()
	request := &domain.RoleRequest{
		ID:        uuid.New(),
		AuthorID:  input.Acting.ID,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return &RequestChangeResult{Request: request}, nil
}

type CancelInput struct {
	Acting    *domain.User
	RequestID uuid.UUID
}

type Cancel struct {
	requests ports.RequestRepository
}

func NewCancel(requests ports.RequestRepository) *Cancel {
	return &Cancel{requests: requests}
}

// Execute deletes the caller's own pending request.
func (uc *Cancel) Execute(ctx context.Context, input CancelInput) error {
	request, err := uc.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if request == nil {
		return domerrors.ErrRequestNotFound
	}
	if request.AuthorID != input.Acting.ID {
		return domerrors.ErrNotAuthor
	}
	return uc.requests.Delete(ctx, request.ID)
}
