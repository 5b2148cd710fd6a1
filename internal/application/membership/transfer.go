package membership

import (
	"context"
	"fmt"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type TransferOwnershipInput struct {
	Acting    *domain.User
	ProjectID domain.ProjectID
	// NewOwnerUsername names the member (or soon-to-be member) receiving
	// ownership.
	NewOwnerUsername string
}

type TransferOwnershipResult struct {
	Project   *domain.Project
	NotifyErr error
}

type TransferOwnership struct {
	projects   ports.ProjectRepository
	users      ports.UserRepository
	dispatcher *activity.Dispatcher
}

func NewTransferOwnership(projects ports.ProjectRepository, users ports.UserRepository, dispatcher *activity.Dispatcher) *TransferOwnership {
	return &TransferOwnership{projects: projects, users: users, dispatcher: dispatcher}
}

// Execute reassigns the creator and ensures the new owner is a member in the
// same transaction. The old owner stays a member until removed explicitly.
func (uc *TransferOwnership) Execute(ctx context.Context, input TransferOwnershipInput) (*TransferOwnershipResult, error) {
	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if !canAdminister(input.Acting, project) {
		return nil, domerrors.ErrNotOwner
	}
	newOwner, err := uc.users.GetByUsername(ctx, input.NewOwnerUsername)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if newOwner == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if project.IsOwner(newOwner.ID) {
		return nil, domerrors.ErrSameRole
	}
	if err := uc.projects.TransferOwnership(ctx, project.ID, newOwner.ID); err != nil {
		return nil, err
	}
	project.CreatedByID = newOwner.ID
	if !project.IsMember(newOwner.ID) {
		project.MemberIDs = append(project.MemberIDs, newOwner.ID)
	}

	text := fmt.Sprintf("%s transferred ownership of the project %s to %s", input.Acting.Username, project.Name, newOwner.Username)
	act, err := uc.dispatcher.RecordProject(ctx, domain.ActivityOwnershipTransfer, input.Acting.ID, project.ID, text)
	if err != nil {
		return nil, err
	}
	notifyErr := uc.dispatcher.Notify(ctx, act, "Project ownership transferred", []string{newOwner.Email})
	return &TransferOwnershipResult{Project: project, NotifyErr: notifyErr}, nil
}
