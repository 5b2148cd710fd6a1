package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/auth"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
	infraauth "github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/auth"
)

const (
	testAccessSecret  = "test-access-secret-at-least-32-bytes"
	testRefreshSecret = "test-refresh-secret-at-least-32-byte"
)

func newTokens() (*auth.Tokens, *apptest.Store) {
	issuer := infraauth.NewTokenIssuer([]byte(testAccessSecret), []byte(testRefreshSecret), 15*time.Minute, 24*time.Hour, "issue-tracker-test")
	store := apptest.NewStore()
	return auth.NewTokens(issuer, store), store
}

func tokenUser(username string) *domain.User {
	return &domain.User{
		ID:       domain.NewUserID(uuid.New()),
		Username: username,
		Email:    username + "@example.com",
		Role:     domain.RoleEmployee,
	}
}

func TestIssuePairAndVerify(t *testing.T) {
	tokens, _ := newTokens()
	user := tokenUser("alice")

	pair, err := tokens.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := tokens.Verify(context.Background(), pair.AccessToken, ports.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	claims, err = tokens.Verify(context.Background(), pair.RefreshToken, ports.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestVerify_EmptyToken(t *testing.T) {
	tokens, _ := newTokens()

	_, err := tokens.Verify(context.Background(), "", ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrNoCredential)
}

func TestVerify_RevokedToken(t *testing.T) {
	tokens, _ := newTokens()
	pair, err := tokens.IssuePair(tokenUser("alice"))
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), pair.AccessToken, ports.TokenAccess))

	_, err = tokens.Verify(context.Background(), pair.AccessToken, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrTokenRevoked)
}

func TestRevoke_OneKindDoesNotShadowTheOther(t *testing.T) {
	tokens, _ := newTokens()
	pair, err := tokens.IssuePair(tokenUser("alice"))
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), pair.AccessToken, ports.TokenAccess))

	// The refresh token stays live until it is revoked itself.
	_, err = tokens.Verify(context.Background(), pair.RefreshToken, ports.TokenRefresh)
	assert.NoError(t, err)
}

func TestRevoke_Idempotent(t *testing.T) {
	tokens, _ := newTokens()
	pair, err := tokens.IssuePair(tokenUser("alice"))
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), pair.RefreshToken, ports.TokenRefresh))
	require.NoError(t, tokens.Revoke(context.Background(), pair.RefreshToken, ports.TokenRefresh))

	_, err = tokens.Verify(context.Background(), pair.RefreshToken, ports.TokenRefresh)
	assert.ErrorIs(t, err, domerrors.ErrTokenRevoked)
}

func TestRevoke_MalformedTokenIsANoop(t *testing.T) {
	tokens, store := newTokens()

	require.NoError(t, tokens.Revoke(context.Background(), "not-a-token", ports.TokenAccess))
	require.NoError(t, tokens.Revoke(context.Background(), "", ports.TokenRefresh))
	assert.Equal(t, 0, store.Len())
}
