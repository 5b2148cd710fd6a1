package role_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/role"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type roleEnv struct {
	requests *apptest.RequestRepo
	users    *apptest.UserRepo
	mail     *apptest.Mail
	employee *domain.User
	admin    *domain.User
}

func newRoleEnv() *roleEnv {
	employee := apptest.NewUser("alice", domain.RoleEmployee)
	admin := apptest.NewUser("root", domain.RoleAdmin)
	return &roleEnv{
		requests: apptest.NewRequestRepo(),
		users:    apptest.NewUserRepo(employee, admin),
		mail:     apptest.NewMail(),
		employee: employee,
		admin:    admin,
	}
}

func (e *roleEnv) request(t *testing.T, acting *domain.User, want domain.Role) *domain.RoleRequest {
	t.Helper()
	uc := role.NewRequestChange(e.requests)
	result, err := uc.Execute(context.Background(), role.RequestChangeInput{Acting: acting, Role: want})
	require.NoError(t, err)
	return result.Request
}

func TestRequestChange(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	assert.Equal(t, env.employee.ID, request.AuthorID)
	assert.Equal(t, domain.RoleProjectOwner, request.Role)

	stored, err := env.requests.GetByAuthor(context.Background(), env.employee.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, request.ID, stored.ID)
}

func TestRequestChange_OnePendingPerUser(t *testing.T) {
	env := newRoleEnv()
	env.request(t, env.employee, domain.RoleProjectOwner)

	uc := role.NewRequestChange(env.requests)
	_, err := uc.Execute(context.Background(), role.RequestChangeInput{Acting: env.employee, Role: domain.RoleProjectOwner})
	assert.ErrorIs(t, err, domerrors.ErrRequestPending)
}

func TestRequestChange_SameRole(t *testing.T) {
	env := newRoleEnv()

	uc := role.NewRequestChange(env.requests)
	_, err := uc.Execute(context.Background(), role.RequestChangeInput{Acting: env.employee, Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, domerrors.ErrSameRole)
}

func TestRequestChange_AdminBlocked(t *testing.T) {
	env := newRoleEnv()

	uc := role.NewRequestChange(env.requests)
	_, err := uc.Execute(context.Background(), role.RequestChangeInput{Acting: env.admin, Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, domerrors.ErrAdminProtected)
}

func TestApprove(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	approve := role.NewApprove(env.requests, env.users, env.mail, zerolog.Nop())
	result, err := approve.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	require.NoError(t, err)
	require.NoError(t, result.NotifyErr)
	assert.Equal(t, domain.RoleProjectOwner, result.User.Role)

	// The grant is persisted and the request consumed.
	stored, err := env.users.GetByID(context.Background(), env.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProjectOwner, stored.Role)
	pending, err := env.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	require.Len(t, env.mail.Sent, 1)
	assert.Equal(t, []string{env.employee.Email}, env.mail.Sent[0].Recipients)
	assert.Equal(t, "Role change approved", env.mail.Sent[0].Subject)
}

func TestApprove_RequiresAdmin(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	approve := role.NewApprove(env.requests, env.users, env.mail, zerolog.Nop())
	_, err := approve.Execute(context.Background(), role.DecideInput{Acting: env.employee, RequestID: request.ID})
	assert.ErrorIs(t, err, domerrors.ErrAdminOnly)
}

func TestApprove_ConsumedRequestIsGone(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	approve := role.NewApprove(env.requests, env.users, env.mail, zerolog.Nop())
	_, err := approve.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	require.NoError(t, err)

	_, err = approve.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	assert.ErrorIs(t, err, domerrors.ErrRequestNotFound)
}

func TestApprove_NotifyFailureDoesNotRollBack(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)
	env.mail.Err = errors.New("broker down")

	approve := role.NewApprove(env.requests, env.users, env.mail, zerolog.Nop())
	result, err := approve.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, result.NotifyErr, domerrors.ErrNotifyFailed)

	stored, err := env.users.GetByID(context.Background(), env.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProjectOwner, stored.Role)
}

func TestReject(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	reject := role.NewReject(env.requests, env.users, env.mail, zerolog.Nop())
	result, err := reject.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	require.NoError(t, err)

	// Role unchanged, request consumed, requester notified.
	assert.Equal(t, domain.RoleEmployee, result.User.Role)
	pending, err := env.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)
	require.Len(t, env.mail.Sent, 1)
	assert.Equal(t, "Role change rejected", env.mail.Sent[0].Subject)
}

func TestCancel(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	cancel := role.NewCancel(env.requests)
	require.NoError(t, cancel.Execute(context.Background(), role.CancelInput{Acting: env.employee, RequestID: request.ID}))

	// Withdrawing clears the way for a fresh request.
	env.request(t, env.employee, domain.RoleProjectOwner)
}

func TestCancel_AuthorOnly(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)
	other := apptest.NewUser("mallory", domain.RoleEmployee)

	cancel := role.NewCancel(env.requests)
	err := cancel.Execute(context.Background(), role.CancelInput{Acting: other, RequestID: request.ID})
	assert.ErrorIs(t, err, domerrors.ErrNotAuthor)
}

func TestDecide_AdminAuthorProtected(t *testing.T) {
	env := newRoleEnv()
	request := env.request(t, env.employee, domain.RoleProjectOwner)

	// The author was promoted to ADMIN out of band after filing.
	require.NoError(t, env.users.UpdateRole(context.Background(), env.employee.ID, domain.RoleAdmin))

	approve := role.NewApprove(env.requests, env.users, env.mail, zerolog.Nop())
	_, err := approve.Execute(context.Background(), role.DecideInput{Acting: env.admin, RequestID: request.ID})
	assert.ErrorIs(t, err, domerrors.ErrAdminProtected)
}
