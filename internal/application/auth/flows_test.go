package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/auth"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
	infraauth "github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/auth"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/security"
)

const testBaseURL = "http://localhost:8080"

type authEnv struct {
	users  *apptest.UserRepo
	store  *apptest.Store
	mail   *apptest.Mail
	hasher *security.Hasher
	tokens *auth.Tokens
}

func newAuthEnv() *authEnv {
	issuer := infraauth.NewTokenIssuer([]byte(testAccessSecret), []byte(testRefreshSecret), 15*time.Minute, 24*time.Hour, "issue-tracker-test")
	store := apptest.NewStore()
	return &authEnv{
		users:  apptest.NewUserRepo(),
		store:  store,
		mail:   apptest.NewMail(),
		hasher: security.NewHasher(security.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}),
		tokens: auth.NewTokens(issuer, store),
	}
}

// lastMailToken pulls the one-time token out of the most recently mailed
// link.
func lastMailToken(t *testing.T, mail *apptest.Mail) string {
	t.Helper()
	require.NotEmpty(t, mail.Sent)
	url := mail.Sent[len(mail.Sent)-1].URL
	_, token, ok := strings.Cut(url, "token=")
	require.True(t, ok, "no token in %q", url)
	return token
}

func (e *authEnv) register(t *testing.T, username, password string) {
	t.Helper()
	register := auth.NewRegister(e.users, e.store, e.hasher, e.mail)
	err := register.Execute(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Password: password,
		BaseURL:  testBaseURL,
	})
	require.NoError(t, err)
}

func (e *authEnv) signUp(t *testing.T, username, password string) *domain.User {
	t.Helper()
	e.register(t, username, password)
	verify := auth.NewVerifyEmail(e.users, e.store)
	result, err := verify.Execute(context.Background(), auth.VerifyEmailInput{Token: lastMailToken(t, e.mail)})
	require.NoError(t, err)
	return result.User
}

func TestRegisterAndVerifyEmail(t *testing.T) {
	env := newAuthEnv()
	env.register(t, "alice", "s3cret-password")

	// No account until the link is followed.
	user, err := env.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Nil(t, user)
	require.Len(t, env.mail.Sent, 1)
	assert.Equal(t, "verification", env.mail.Sent[0].Kind)
	assert.Equal(t, []string{"alice@example.com"}, env.mail.Sent[0].Recipients)

	verify := auth.NewVerifyEmail(env.users, env.store)
	result, err := verify.Execute(context.Background(), auth.VerifyEmailInput{Token: lastMailToken(t, env.mail)})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, domain.RoleEmployee, result.User.Role)
	assert.True(t, env.hasher.Verify("s3cret-password", result.User.PasswordHash))
}

func TestVerifyEmail_TokenIsSingleUse(t *testing.T) {
	env := newAuthEnv()
	env.register(t, "alice", "s3cret-password")
	token := lastMailToken(t, env.mail)

	verify := auth.NewVerifyEmail(env.users, env.store)
	_, err := verify.Execute(context.Background(), auth.VerifyEmailInput{Token: token})
	require.NoError(t, err)

	_, err = verify.Execute(context.Background(), auth.VerifyEmailInput{Token: token})
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestRegister_TakenUsername(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "alice", "s3cret-password")

	register := auth.NewRegister(env.users, env.store, env.hasher, env.mail)
	err := register.Execute(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "another-password",
		BaseURL:  testBaseURL,
	})
	assert.ErrorIs(t, err, domerrors.ErrUserExists)
}

func TestLogin(t *testing.T) {
	env := newAuthEnv()
	user := env.signUp(t, "alice", "s3cret-password")

	login := auth.NewLogin(env.users, env.hasher, env.tokens)
	result, err := login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := env.tokens.Verify(context.Background(), result.Tokens.AccessToken, ports.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "alice", "s3cret-password")

	login := auth.NewLogin(env.users, env.hasher, env.tokens)

	_, err := login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)

	// Unknown user fails with the same sentinel as a wrong password.
	_, err = login.Execute(context.Background(), auth.LoginInput{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}

func TestLogin_FederatedOnlyAccount(t *testing.T) {
	env := newAuthEnv()
	user := apptest.NewUser("bob", domain.RoleEmployee)
	user.PasswordHash = ""
	user.Providers = []domain.Provider{domain.ProviderGoogle}
	require.NoError(t, env.users.Create(context.Background(), user))

	login := auth.NewLogin(env.users, env.hasher, env.tokens)
	_, err := login.Execute(context.Background(), auth.LoginInput{Username: "bob", Password: ""})
	assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "alice", "s3cret-password")

	login := auth.NewLogin(env.users, env.hasher, env.tokens)
	session, err := login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)

	refresh := auth.NewRefresh(env.users, env.tokens)
	result, err := refresh.Execute(context.Background(), auth.RefreshInput{RefreshToken: session.Tokens.RefreshToken})
	require.NoError(t, err)

	_, err = env.tokens.Verify(context.Background(), result.AccessToken, ports.TokenAccess)
	assert.NoError(t, err)
}

func TestRefresh_AfterLogout(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "alice", "s3cret-password")

	login := auth.NewLogin(env.users, env.hasher, env.tokens)
	session, err := login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "s3cret-password"})
	require.NoError(t, err)

	logout := auth.NewLogout(env.tokens)
	require.NoError(t, logout.Execute(context.Background(), auth.LogoutInput{
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}))

	refresh := auth.NewRefresh(env.users, env.tokens)
	_, err = refresh.Execute(context.Background(), auth.RefreshInput{RefreshToken: session.Tokens.RefreshToken})
	assert.ErrorIs(t, err, domerrors.ErrTokenRevoked)

	_, err = env.tokens.Verify(context.Background(), session.Tokens.AccessToken, ports.TokenAccess)
	assert.ErrorIs(t, err, domerrors.ErrTokenRevoked)
}

func TestRefresh_DeletedAccount(t *testing.T) {
	env := newAuthEnv()
	user := env.signUp(t, "alice", "s3cret-password")

	pair, err := env.tokens.IssuePair(user)
	require.NoError(t, err)
	require.NoError(t, env.users.Delete(context.Background(), user.ID))

	refresh := auth.NewRefresh(env.users, env.tokens)
	_, err = refresh.Execute(context.Background(), auth.RefreshInput{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestPasswordReset(t *testing.T) {
	env := newAuthEnv()
	env.signUp(t, "alice", "old-password")

	forgot := auth.NewForgotPassword(env.users, env.store, env.mail)
	require.NoError(t, forgot.Execute(context.Background(), auth.ForgotPasswordInput{Email: "alice@example.com", BaseURL: testBaseURL}))
	token := lastMailToken(t, env.mail)

	reset := auth.NewResetPassword(env.users, env.store, env.hasher)
	require.NoError(t, reset.Execute(context.Background(), auth.ResetPasswordInput{Token: token, Password: "new-password"}))

	login := auth.NewLogin(env.users, env.hasher, env.tokens)
	_, err := login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "old-password"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
	_, err = login.Execute(context.Background(), auth.LoginInput{Username: "alice", Password: "new-password"})
	assert.NoError(t, err)

	// The link is single use.
	err = reset.Execute(context.Background(), auth.ResetPasswordInput{Token: token, Password: "third-password"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidToken)
}

func TestForgotPassword_UnknownEmailLooksIdentical(t *testing.T) {
	env := newAuthEnv()

	forgot := auth.NewForgotPassword(env.users, env.store, env.mail)
	err := forgot.Execute(context.Background(), auth.ForgotPasswordInput{Email: "nobody@example.com", BaseURL: testBaseURL})
	require.NoError(t, err)
	assert.Empty(t, env.mail.Sent)
}
