package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// One-time email action token prefixes in the keyed store.
const (
	verifyTokenPrefix = "verify_"
	resetTokenPrefix  = "reset_"
)

const verifyTokenTTL = time.Hour

// pendingSignup is the JSON payload parked in the keyed store between
// registration and email verification. The user row does not exist until the
// verification link is followed.
type pendingSignup struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
	BaseURL  string
}

type Register struct {
	users  ports.UserRepository
	store  ports.KeyedStore
	hasher ports.PasswordHasher
	mail   ports.MailEnqueuer
}

func NewRegister(users ports.UserRepository, store ports.KeyedStore, hasher ports.PasswordHasher, mail ports.MailEnqueuer) *Register {
	return &Register{users: users, store: store, hasher: hasher, mail: mail}
}

// Execute parks the signup behind a one-time verification token and mails
// the link. The account is created only when VerifyEmail consumes the token.
func (uc *Register) Execute(ctx context.Context, input RegisterInput) error {
	if existing, err := uc.users.GetByUsername(ctx, input.Username); err != nil {
		return domerrors.ErrDependency
	} else if existing != nil {
		return domerrors.ErrUserExists
	}
	if existing, err := uc.users.GetByEmail(ctx, input.Email); err != nil {
		return domerrors.ErrDependency
	} else if existing != nil {
		return domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	token, err := randomToken()
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(pendingSignup{
		Username:     input.Username,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
	})
	if err := uc.store.Set(ctx, verifyTokenPrefix+token, string(payload), verifyTokenTTL); err != nil {
		return domerrors.ErrDependency
	}
	verifyURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", input.BaseURL, token)
	if err := uc.mail.EnqueueVerificationEmail(ctx, input.Email, verifyURL); err != nil {
		return domerrors.ErrNotifyFailed
	}
	return nil
}

type VerifyEmailInput struct {
	Token string
}

type VerifyEmailResult struct {
	User *domain.User
}

type VerifyEmail struct {
	users ports.UserRepository
	store ports.KeyedStore
}

func NewVerifyEmail(users ports.UserRepository, store ports.KeyedStore) *VerifyEmail {
	return &VerifyEmail{users: users, store: store}
}

// Execute consumes the verification token and creates the account. The token
// is deleted before the insert so it is single use even when the insert
// fails.
func (uc *VerifyEmail) Execute(ctx context.Context, input VerifyEmailInput) (*VerifyEmailResult, error) {
	raw, err := uc.store.Get(ctx, verifyTokenPrefix+input.Token)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if raw == "" {
		return nil, domerrors.ErrInvalidToken
	}
	var pending pendingSignup
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	if err := uc.store.Delete(ctx, verifyTokenPrefix+input.Token); err != nil {
		return nil, domerrors.ErrDependency
	}
	now := time.Now()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Username:     pending.Username,
		Email:        pending.Email,
		Name:         pending.Name,
		PasswordHash: pending.PasswordHash,
		Providers:    []domain.Provider{domain.ProviderLocal},
		Role:         domain.RoleEmployee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &VerifyEmailResult{User: user}, nil
}

func randomToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
