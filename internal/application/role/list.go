package role

import (
	"context"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type ListInput struct {
	Acting *domain.User
	Limit  int
	Offset int
}

type ListResult struct {
	Requests []*domain.RoleRequest
}

// List returns pending role change requests, admin only.
type List struct {
	requests ports.RequestRepository
}

func NewList(requests ports.RequestRepository) *List {
	return &List{requests: requests}
}

func (uc *List) Execute(ctx context.Context, input ListInput) (*ListResult, error) {
	if !input.Acting.IsAdmin() {
		return nil, domerrors.ErrAdminOnly
	}
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	requests, err := uc.requests.List(ctx, limit, input.Offset)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	return &ListResult{Requests: requests}, nil
}
