package membership

import (
	"context"
	"fmt"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type AddMemberInput struct {
	Acting    *domain.User
	ProjectID domain.ProjectID
	Username  string
}

type AddMemberResult struct {
	Project *domain.Project
	// NotifyErr is non-nil when the membership change committed but the
	// notification dispatch failed.
	NotifyErr error
}

type AddMember struct {
	projects   ports.ProjectRepository
	users      ports.UserRepository
	dispatcher *activity.Dispatcher
}

func NewAddMember(projects ports.ProjectRepository, users ports.UserRepository, dispatcher *activity.Dispatcher) *AddMember {
	return &AddMember{projects: projects, users: users, dispatcher: dispatcher}
}

func (uc *AddMember) Execute(ctx context.Context, input AddMemberInput) (*AddMemberResult, error) {
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
	if project.IsMember(target.ID) {
		return nil, domerrors.ErrAlreadyMember
	}
	if err := uc.projects.AddMember(ctx, project.ID, target.ID); err != nil {
		return nil, err
	}
	project.MemberIDs = append(project.MemberIDs, target.ID)

	text := fmt.Sprintf("%s added %s to the project %s", input.Acting.Username, target.Username, project.Name)
	act, err := uc.dispatcher.RecordProject(ctx, domain.ActivityMemberAdded, input.Acting.ID, project.ID, text)
	if err != nil {
		return nil, err
	}
	notifyErr := uc.dispatcher.Notify(ctx, act, "Added to project", []string{target.Email})
	return &AddMemberResult{Project: project, NotifyErr: notifyErr}, nil
}
