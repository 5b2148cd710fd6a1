package membership

import (
	"context"
	"fmt"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type RemoveMemberInput struct {
	Acting    *domain.User
	ProjectID domain.ProjectID
	Username  string
}

type RemoveMemberResult struct {
	Project   *domain.Project
	NotifyErr error
}

type RemoveMember struct {
	projects   ports.ProjectRepository
	users      ports.UserRepository
	dispatcher *activity.Dispatcher
}

func NewRemoveMember(projects ports.ProjectRepository, users ports.UserRepository, dispatcher *activity.Dispatcher) *RemoveMember {
	return &RemoveMember{projects: projects, users: users, dispatcher: dispatcher}
}

// Execute removes a member. The current owner can never be removed; transfer
// ownership or delete the project instead, which keeps the project from ever
// being left ownerless.
func (uc *RemoveMember) Execute(ctx context.Context, input RemoveMemberInput) (*RemoveMemberResult, error) {
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
	target, err := uc.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if target == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if project.IsOwner(target.ID) {
		return nil, domerrors.ErrRemoveOwner
	}
	if !project.IsMember(target.ID) {
		return nil, domerrors.ErrTargetNotMember
	}
	if err := uc.projects.RemoveMember(ctx, project.ID, target.ID); err != nil {
		return nil, err
	}
	project.MemberIDs = withoutMember(project.MemberIDs, target.ID)

	text := fmt.Sprintf("%s removed %s from the project %s", input.Acting.Username, target.Username, project.Name)
	act, err := uc.dispatcher.RecordProject(ctx, domain.ActivityMemberRemoved, input.Acting.ID, project.ID, text)
	if err != nil {
		return nil, err
	}
	notifyErr := uc.dispatcher.Notify(ctx, act, "Removed from project", []string{target.Email})
	return &RemoveMemberResult{Project: project, NotifyErr: notifyErr}, nil
}

type LeaveInput struct {
	Acting    *domain.User
	ProjectID domain.ProjectID
}

type Leave struct {
	projects   ports.ProjectRepository
	dispatcher *activity.Dispatcher
}

func NewLeave(projects ports.ProjectRepository, dispatcher *activity.Dispatcher) *Leave {
	return &Leave{projects: projects, dispatcher: dispatcher}
}

// Execute is self-service removal. The owner cannot leave without first
// transferring ownership.
func (uc *Leave) Execute(ctx context.Context, input LeaveInput) error {
	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if project == nil {
		return domerrors.ErrProjectNotFound
	}
	if project.IsOwner(input.Acting.ID) {
		return domerrors.ErrRemoveOwner
	}
	if !project.IsMember(input.Acting.ID) {
		return domerrors.ErrTargetNotMember
	}
	if err := uc.projects.RemoveMember(ctx, project.ID, input.Acting.ID); err != nil {
		return err
	}
	text := fmt.Sprintf("%s left the project %s", input.Acting.Username, project.Name)
	_, err = uc.dispatcher.RecordProject(ctx, domain.ActivityMemberLeft, input.Acting.ID, project.ID, text)
	return err
}

func withoutMember(members []domain.UserID, id domain.UserID) []domain.UserID {
	out := members[:0]
	for _, m := range members {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}
