package auth

import (
	"context"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	AccessToken string
}

type Refresh struct {
	users  ports.UserRepository
	tokens *Tokens
}

func NewRefresh(users ports.UserRepository, tokens *Tokens) *Refresh {
	return &Refresh{users: users, tokens: tokens}
}

// Execute exchanges a live refresh token for a fresh access token. The
// revocation list is consulted on every use, so a token revoked by logout is
// rejected even though its own expiry has not passed.
func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	claims, err := uc.tokens.Verify(ctx, input.RefreshToken, ports.TokenRefresh)
	if err != nil {
		return nil, err
	}
	// The account may have been deleted since the token was issued.
	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	access, err := uc.tokens.issuer.Issue(user, ports.TokenAccess)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{AccessToken: access}, nil
}

type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

type Logout struct {
	tokens *Tokens
}

func NewLogout(tokens *Tokens) *Logout {
	return &Logout{tokens: tokens}
}

// Execute revokes both presented tokens. Revoking is idempotent, so a
// repeated logout with the same tokens succeeds.
func (uc *Logout) Execute(ctx context.Context, input LogoutInput) error {
	if err := uc.tokens.Revoke(ctx, input.RefreshToken, ports.TokenRefresh); err != nil {
		return err
	}
	return uc.tokens.Revoke(ctx, input.AccessToken, ports.TokenAccess)
}
