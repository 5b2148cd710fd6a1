package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

const resetTokenTTL = time.Hour

type resetPayload struct {
	Email string `json:"email"`
}

type ForgotPasswordInput struct {
	Email   string
	BaseURL string
}

type ForgotPassword struct {
	users ports.UserRepository
	store ports.KeyedStore
	mail  ports.MailEnqueuer
}

func NewForgotPassword(users ports.UserRepository, store ports.KeyedStore, mail ports.MailEnqueuer) *ForgotPassword {
	return &ForgotPassword{users: users, store: store, mail: mail}
}

// Execute parks a one-time reset token and mails the link. An unknown email
// is reported as success so the endpoint cannot be used to probe accounts.
func (uc *ForgotPassword) Execute(ctx context.Context, input ForgotPasswordInput) error {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return domerrors.ErrDependency
	}
	if user == nil {
		return nil
	}
	token, err := randomToken()
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(resetPayload{Email: user.Email})
	if err := uc.store.Set(ctx, resetTokenPrefix+token, string(payload), resetTokenTTL); err != nil {
		return domerrors.ErrDependency
	}
	resetURL := fmt.Sprintf("%s/api/auth/reset-password?token=%s", input.BaseURL, token)
	if err := uc.mail.EnqueuePasswordReset(ctx, user.Email, resetURL); err != nil {
		return domerrors.ErrNotifyFailed
	}
	return nil
}

type ResetPasswordInput struct {
	Token    string
	Password string
}

type ResetPassword struct {
	users  ports.UserRepository
	store  ports.KeyedStore
	hasher ports.PasswordHasher
}

func NewResetPassword(users ports.UserRepository, store ports.KeyedStore, hasher ports.PasswordHasher) *ResetPassword {
	return &ResetPassword{users: users, store: store, hasher: hasher}
}

func (uc *ResetPassword) Execute(ctx context.Context, input ResetPasswordInput) error {
	raw, err := uc.store.Get(ctx, resetTokenPrefix+input.Token)
	if err != nil {
		return domerrors.ErrDependency
	}
	if raw == "" {
		return domerrors.ErrInvalidToken
	}
	var payload resetPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domerrors.ErrInvalidToken
	}
	if err := uc.store.Delete(ctx, resetTokenPrefix+input.Token); err != nil {
		return domerrors.ErrDependency
	}
	user, err := uc.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		return domerrors.ErrDependency
	}
	if user == nil {
		return domerrors.ErrUserNotFound
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return domerrors.ErrDependency
	}
	return nil
}
