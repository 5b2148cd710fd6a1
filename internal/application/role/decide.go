package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type DecideInput struct {
	Acting    *domain.User
	RequestID uuid.UUID
}

type DecideResult struct {
	User      *domain.User
	NotifyErr error
}

// Approve grants the requested role and consumes the request.
type Approve struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	mail     ports.MailEnqueuer
	log      zerolog.Logger
}

func NewApprove(requests ports.RequestRepository, users ports.UserRepository, mail ports.MailEnqueuer, log zerolog.Logger) *Approve {
	return &Approve{requests: requests, users: users, mail: mail, log: log}
}

func (uc *Approve) Execute(ctx context.Context, input DecideInput) (*DecideResult, error) {
	request, target, err := loadDecision(ctx, uc.requests, uc.users, input)
	if err != nil {
		return nil, err
	}
	if err := uc.users.UpdateRole(ctx, target.ID, request.Role); err != nil {
		return nil, domerrors.ErrDependency
	}
	target.Role = request.Role
	if err := uc.requests.Delete(ctx, request.ID); err != nil {
		// Role change committed; a stale request row would block the user's
		// next request, so this failure must surface.
		return nil, domerrors.ErrDependency
	}
	body := fmt.Sprintf("Your request for the role %s has been approved.", request.Role)
	var notifyErr error
	if err := uc.mail.EnqueueNotification(ctx, []string{target.Email}, "Role change approved", body); err != nil {
		uc.log.Warn().Err(err).Str("user", target.Username).Msg("role approval mail failed")
		notifyErr = domerrors.ErrNotifyFailed
	}
	return &DecideResult{User: target, NotifyErr: notifyErr}, nil
}

// Reject consumes the request without changing the role.
type Reject struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	mail     ports.MailEnqueuer
	log      zerolog.Logger
}

func NewReject(requests ports.RequestRepository, users ports.UserRepository, mail ports.MailEnqueuer, log zerolog.Logger) *Reject {
	return &Reject{requests: requests, users: users, mail: mail, log: log}
}

func (uc *Reject) Execute(ctx context.Context, input DecideInput) (*DecideResult, error) {
	request, target, err := loadDecision(ctx, uc.requests, uc.users, input)
	if err != nil {
		return nil, err
	}
	if err := uc.requests.Delete(ctx, request.ID); err != nil {
		return nil, domerrors.ErrDependency
	}
	body := fmt.Sprintf("Your request for the role %s has been rejected.", request.Role)
	var notifyErr error
	if err := uc.mail.EnqueueNotification(ctx, []string{target.Email}, "Role change rejected", body); err != nil {
		uc.log.Warn().Err(err).Str("user", target.Username).Msg("role rejection mail failed")
		notifyErr = domerrors.ErrNotifyFailed
	}
	return &DecideResult{User: target, NotifyErr: notifyErr}, nil
}

// loadDecision runs the shared preconditions: caller is ADMIN, the request
// and its author still exist, and the author is not an ADMIN (admin accounts
// are never altered through this path).
func loadDecision(ctx context.Context, requests ports.RequestRepository, users ports.UserRepository, input DecideInput) (*domain.RoleRequest, *domain.User, error) {
	if !input.Acting.IsAdmin() {
		return nil, nil, domerrors.ErrAdminOnly
	}
	request, err := requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, nil, domerrors.ErrDependency
	}
	if request == nil {
		return nil, nil, domerrors.ErrRequestNotFound
	}
	target, err := users.GetByID(ctx, request.AuthorID)
	if err != nil {
		return nil, nil, domerrors.ErrDependency
	}
	if target == nil {
		return nil, nil, domerrors.ErrUserNotFound
	}
	if target.IsAdmin() {
		return nil, nil, domerrors.ErrAdminProtected
	}
	return request, target, nil
}
