package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/user"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

func TestEdit_SelfService(t *testing.T) {
	alice := apptest.NewUser("alice", domain.RoleEmployee)
	users := apptest.NewUserRepo(alice)

	name := "Alice Liddell"
	uc := user.NewEdit(users)
	result, err := uc.Execute(context.Background(), user.EditInput{Acting: alice, TargetID: alice.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", result.User.Name)
	assert.Equal(t, alice.Email, result.User.Email)
}

func TestEdit_OtherAccountRequiresAdmin(t *testing.T) {
	alice := apptest.NewUser("alice", domain.RoleEmployee)
	bob := apptest.NewUser("bob", domain.RoleEmployee)
	root := apptest.NewUser("root", domain.RoleAdmin)
	second := apptest.NewUser("root2", domain.RoleAdmin)
	users := apptest.NewUserRepo(alice, bob, root, second)

	name := "renamed"
	uc := user.NewEdit(users)

	_, err := uc.Execute(context.Background(), user.EditInput{Acting: bob, TargetID: alice.ID, Name: &name})
	assert.ErrorIs(t, err, domerrors.ErrForbidden)

	_, err = uc.Execute(context.Background(), user.EditInput{Acting: root, TargetID: alice.ID, Name: &name})
	assert.NoError(t, err)

	// Admin accounts are off limits even to other admins.
	_, err = uc.Execute(context.Background(), user.EditInput{Acting: root, TargetID: second.ID, Name: &name})
	assert.ErrorIs(t, err, domerrors.ErrAdminProtected)
}

func TestDelete_SelfWhileOwningProjects(t *testing.T) {
	alice := apptest.NewUser("alice", domain.RoleProjectOwner)
	users := apptest.NewUserRepo(alice)
	projects := apptest.NewProjectRepo(apptest.NewProject("gateway", alice))

	uc := user.NewDelete(users, projects)
	err := uc.Execute(context.Background(), user.DeleteInput{Acting: alice, TargetID: alice.ID})
	assert.ErrorIs(t, err, domerrors.ErrOwnsProjects)

	// Still present.
	stored, err := users.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestDelete_AdminAbsorbsOwnedProjects(t *testing.T) {
	alice := apptest.NewUser("alice", domain.RoleProjectOwner)
	root := apptest.NewUser("root", domain.RoleAdmin)
	users := apptest.NewUserRepo(alice, root)
	p := apptest.NewProject("gateway", alice)
	projects := apptest.NewProjectRepo(p)

	uc := user.NewDelete(users, projects)
	require.NoError(t, uc.Execute(context.Background(), user.DeleteInput{Acting: root, TargetID: alice.ID}))

	stored, err := users.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	reassigned, err := projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, reassigned)
	assert.Equal(t, root.ID, reassigned.CreatedByID)
}

func TestDelete_OtherAccountRequiresAdmin(t *testing.T) {
	alice := apptest.NewUser("alice", domain.RoleEmployee)
	bob := apptest.NewUser("bob", domain.RoleEmployee)
	root := apptest.NewUser("root", domain.RoleAdmin)
	second := apptest.NewUser("root2", domain.RoleAdmin)
	users := apptest.NewUserRepo(alice, bob, root, second)
	projects := apptest.NewProjectRepo()

	uc := user.NewDelete(users, projects)

	err := uc.Execute(context.Background(), user.DeleteInput{Acting: bob, TargetID: alice.ID})
	assert.ErrorIs(t, err, domerrors.ErrForbidden)

	err = uc.Execute(context.Background(), user.DeleteInput{Acting: root, TargetID: second.ID})
	assert.ErrorIs(t, err, domerrors.ErrAdminProtected)
}
