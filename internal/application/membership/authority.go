package membership

import (
	"context"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// Authority answers membership/ownership questions for a (user, project)
// pair. Ticket and comment workflows gate on it before mutating anything.
type Authority struct {
	projects ports.ProjectRepository
}

func NewAuthority(projects ports.ProjectRepository) *Authority {
	return &Authority{projects: projects}
}

func (a *Authority) IsMember(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (bool, error) {
	project, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, domerrors.ErrDependency
	}
	if project == nil {
		return false, domerrors.ErrProjectNotFound
	}
	return project.IsMember(userID), nil
}

func (a *Authority) IsOwner(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (bool, error) {
	project, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, domerrors.ErrDependency
	}
	if project == nil {
		return false, domerrors.ErrProjectNotFound
	}
	return project.IsOwner(userID), nil
}

// RequireMember returns the project when user is a member, ErrNotAMember
// otherwise. ADMINs do not bypass membership for ticket operations; they act
// through project administration instead.
func (a *Authority) RequireMember(ctx context.Context, userID domain.UserID, projectID domain.ProjectID) (*domain.Project, error) {
	project, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if !project.IsMember(userID) {
		return nil, domerrors.ErrNotAMember
	}
	return project, nil
}

// canAdminister reports whether acting may manage the project's membership:
// the owner or a global ADMIN.
func canAdminister(acting *domain.User, project *domain.Project) bool {
	return project.IsOwner(acting.ID) || acting.IsAdmin()
}
