package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type CreateInput struct {
	Acting      *domain.User
	Name        string
	Description string
}

type CreateResult struct {
	Project *domain.Project
}

type Create struct {
	projects ports.ProjectRepository
}

func NewCreate(projects ports.ProjectRepository) *Create {
	return &Create{projects: projects}
}

// Execute creates a project with the caller as owner and sole member. The
// name only has to be unique among this creator's projects.
func (uc *Create) Execute(ctx context.Context, input CreateInput) (*CreateResult, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: input.Acting.ID,
		MemberIDs:   []domain.UserID{input.Acting.ID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return &CreateResult{Project: project}, nil
}

type EditInput struct {
	Acting      *domain.User
	ProjectID   domain.ProjectID
	Name        *string
	Description *string
}

type EditResult struct {
	Project *domain.Project
}

type Edit struct {
	projects ports.ProjectRepository
}

func NewEdit(projects ports.ProjectRepository) *Edit {
	return &Edit{projects: projects}
}

func (uc *Edit) Execute(ctx context.Context, input EditInput) (*EditResult, error) {
	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if !project.IsOwner(input.Acting.ID) && !input.Acting.IsAdmin() {
		return nil, domerrors.ErrNotOwner
	}
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	project.UpdatedAt = time.Now()
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return &EditResult{Project: project}, nil
}

type DeleteInput struct {
	Acting    *domain.User
	ProjectID domain.ProjectID
}

type Delete struct {
	projects ports.ProjectRepository
}

func NewDelete(projects ports.ProjectRepository) *Delete {
	return &Delete{projects: projects}
}

// Execute deletes a project and everything it owns (tickets, comments,
// attachments cascade in the store).
func (uc *Delete) Execute(ctx context.Context, input DeleteInput) error {
	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if project == nil {
		return domerrors.ErrProjectNotFound
	}
	if !project.IsOwner(input.Acting.ID) && !input.Acting.IsAdmin() {
		return domerrors.ErrNotOwner
	}
	return uc.projects.Delete(ctx, project.ID)
}
