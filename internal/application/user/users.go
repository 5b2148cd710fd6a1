package user

import (
	"context"
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type EditInput struct {
	Acting *domain.User
	// TargetID is the account being edited; equal to Acting.ID for
	// self-service edits.
	TargetID domain.UserID
	Name     *string
	Email    *string
}

type EditResult struct {
	User *domain.User
}

type Edit struct {
	users ports.UserRepository
}

func NewEdit(users ports.UserRepository) *Edit {
	return &Edit{users: users}
}

// Execute edits profile fields. Editing another account requires ADMIN, and
// an admin account can never be edited by another admin.
func (uc *Edit) Execute(ctx context.Context, input EditInput) (*EditResult, error) {
	target, err := uc.users.GetByID(ctx, input.TargetID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if target == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if target.ID != input.Acting.ID {
		if !input.Acting.IsAdmin() {
			return nil, domerrors.ErrForbidden
		}
		if target.IsAdmin() {
			return nil, domerrors.ErrAdminProtected
		}
	}
	if input.Name != nil {
		target.Name = *input.Name
	}
	if input.Email != nil {
		target.Email = *input.Email
	}
	target.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return &EditResult{User: target}, nil
}

type DeleteInput struct {
	Acting   *domain.User
	TargetID domain.UserID
}

type Delete struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
}

func NewDelete(users ports.UserRepository, projects ports.ProjectRepository) *Delete {
	return &Delete{users: users, projects: projects}
}

// Execute deletes an account. A self-delete is refused while the user still
// owns projects; an admin delete absorbs the owned projects instead, so no
// project is ever left ownerless.
func (uc *Delete) Execute(ctx context.Context, input DeleteInput) error {
	target, err := uc.users.GetByID(ctx, input.TargetID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if target == nil {
		return domerrors.ErrUserNotFound
	}
	adminDelete := target.ID != input.Acting.ID
	if adminDelete {
		if !input.Acting.IsAdmin() {
			return domerrors.ErrForbidden
		}
		if target.IsAdmin() {
			return domerrors.ErrAdminProtected
		}
	}
	owned, err := uc.projects.CountOwnedBy(ctx, target.ID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if owned > 0 {
		if !adminDelete {
			return domerrors.ErrOwnsProjects
		}
		if err := uc.projects.ReassignOwned(ctx, target.ID, input.Acting.ID); err != nil {
			return domerrors.ErrDependency
		}
	}
	return uc.users.Delete(ctx, target.ID)
}
