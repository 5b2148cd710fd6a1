package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/auth"
)

const (
	testAccessSecret  = "test-access-secret-at-least-32-bytes"
	testRefreshSecret = "test-refresh-secret-at-least-32-byte"
)

func newIssuer(accessTTL, refreshTTL time.Duration) *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte(testAccessSecret), []byte(testRefreshSecret), accessTTL, refreshTTL, "issue-tracker-test")
}

func testUser() *domain.User {
	return &domain.User{
		ID:       domain.NewUserID(uuid.New()),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleEmployee,
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newIssuer(15*time.Minute, 24*time.Hour)
	user := testUser()

	token, err := issuer.Issue(user, ports.TokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token, ports.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestVerify_KindMismatch(t *testing.T) {
	issuer := newIssuer(15*time.Minute, 24*time.Hour)
	user := testUser()

	refresh, err := issuer.Issue(user, ports.TokenRefresh)
	require.NoError(t, err)
	access, err := issuer.Issue(user, ports.TokenAccess)
	require.NoError(t, err)

	_, err = issuer.Verify(refresh, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
	_, err = issuer.Verify(access, ports.TokenRefresh)
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer := newIssuer(-time.Minute, 24*time.Hour)
	token, err := issuer.Issue(testUser(), ports.TokenAccess)
	require.NoError(t, err)

	_, err = issuer.Verify(token, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newIssuer(15*time.Minute, 24*time.Hour)
	other := auth.NewTokenIssuer([]byte("another-access-secret-32-bytes-xx"), []byte(testRefreshSecret), 15*time.Minute, 24*time.Hour, "issue-tracker-test")

	token, err := other.Issue(testUser(), ports.TokenAccess)
	require.NoError(t, err)

	_, err = issuer.Verify(token, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := newIssuer(15*time.Minute, 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token, ports.TokenAccess)
		assert.ErrorIs(t, err, domerrors.ErrInvalidToken, "token=%q", token)
	}
}
