package auth

import (
	"context"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Tokens *TokenPair
	User   *domain.User
}

type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens *Tokens
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, tokens *Tokens) *Login {
	return &Login{users: users, hasher: hasher, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	// Federated-only accounts have no password hash and cannot log in here.
	if user == nil || user.PasswordHash == "" || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	pair, err := uc.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair, User: user}, nil
}
