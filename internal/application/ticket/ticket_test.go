package ticket_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/apptest"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ticket"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type ticketEnv struct {
	tickets    *apptest.TicketRepo
	projects   *apptest.ProjectRepo
	users      *apptest.UserRepo
	activities *apptest.ActivityRepo
	mail       *apptest.Mail
	authority  *membership.Authority
	dispatcher *activity.Dispatcher

	owner    *domain.User
	member   *domain.User
	outsider *domain.User
	project  *domain.Project
}

func newTicketEnv() *ticketEnv {
	owner := apptest.NewUser("alice", domain.RoleProjectOwner)
	member := apptest.NewUser("bob", domain.RoleEmployee)
	outsider := apptest.NewUser("carol", domain.RoleEmployee)
	project := apptest.NewProject("gateway", owner, member)

	projects := apptest.NewProjectRepo(project)
	activities := apptest.NewActivityRepo()
	mail := apptest.NewMail()
	return &ticketEnv{
		tickets:    apptest.NewTicketRepo(),
		projects:   projects,
		users:      apptest.NewUserRepo(owner, member, outsider),
		activities: activities,
		mail:       mail,
		authority:  membership.NewAuthority(projects),
		dispatcher: activity.NewDispatcher(activities, mail, zerolog.Nop()),
		owner:      owner,
		member:     member,
		outsider:   outsider,
		project:    project,
	}
}

func (e *ticketEnv) create(t *testing.T, acting *domain.User, name string) *domain.Ticket {
	t.Helper()
	uc := ticket.NewCreate(e.tickets, e.projects, e.authority, e.dispatcher)
	result, err := uc.Execute(context.Background(), ticket.CreateInput{
		Acting:    acting,
		ProjectID: e.project.ID,
		Name:      name,
		Priority:  domain.PriorityMedium,
	})
	require.NoError(t, err)
	return result.Ticket
}

func (e *ticketEnv) assign(t *testing.T, acting *domain.User, id domain.TicketID, targets ...domain.UserID) *ticket.AssignResult {
	t.Helper()
	uc := ticket.NewAssign(e.tickets, e.users, e.authority, e.dispatcher)
	result, err := uc.Execute(context.Background(), ticket.AssignInput{
		Acting:   acting,
		TicketID: id,
		UserIDs:  targets,
	})
	require.NoError(t, err)
	return result
}

func (e *ticketEnv) stored(t *testing.T, id domain.TicketID) *domain.Ticket {
	t.Helper()
	tk, err := e.tickets.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, tk)
	return tk
}

func TestCreate_SequentialNumbersPerProject(t *testing.T) {
	env := newTicketEnv()

	first := env.create(t, env.owner, "login broken")
	second := env.create(t, env.member, "timeout on save")

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, domain.StatusOpen, first.Status)
	assert.Equal(t, env.owner.ID, first.ReportedByID)

	require.Len(t, env.activities.Entries, 2)
	assert.Equal(t, domain.ActivityTicketCreated, env.activities.Entries[0].Type)
}

func TestCreate_MembersOnly(t *testing.T) {
	env := newTicketEnv()

	uc := ticket.NewCreate(env.tickets, env.projects, env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.CreateInput{
		Acting:    env.outsider,
		ProjectID: env.project.ID,
		Name:      "sneaky ticket",
		Priority:  domain.PriorityLow,
	})
	assert.ErrorIs(t, err, domerrors.ErrNotAMember)
}

func TestAssign_FirstAssignmentOpensToAssigned(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	result := env.assign(t, env.owner, tk.ID, env.member.ID)

	require.Len(t, result.Added, 1)
	assert.Equal(t, env.member.ID, result.Added[0].ID)
	assert.Equal(t, domain.StatusAssigned, result.Ticket.Status)
	assert.Equal(t, domain.StatusAssigned, env.stored(t, tk.ID).Status)

	// One notification to the new assignee.
	var notifications []apptest.MailMessage
	for _, m := range env.mail.Sent {
		if m.Kind == "notification" {
			notifications = append(notifications, m)
		}
	}
	require.Len(t, notifications, 1)
	assert.Equal(t, []string{env.member.Email}, notifications[0].Recipients)
}

func TestAssign_AlreadyAssignedIsFilteredOut(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	env.assign(t, env.owner, tk.ID, env.member.ID)
	sentBefore := len(env.mail.Sent)

	// Re-requesting bob plus the new alice only adds alice; bob is not
	// re-notified.
	result := env.assign(t, env.owner, tk.ID, env.member.ID, env.owner.ID)
	require.Len(t, result.Added, 1)
	assert.Equal(t, env.owner.ID, result.Added[0].ID)

	last := env.mail.Sent[len(env.mail.Sent)-1]
	assert.Equal(t, []string{env.owner.Email}, last.Recipients)
	assert.Equal(t, sentBefore+1, len(env.mail.Sent))

	stored := env.stored(t, tk.ID)
	assert.ElementsMatch(t, []domain.UserID{env.member.ID, env.owner.ID}, stored.AssigneeIDs)
}

func TestAssign_DuplicateIDsInOneRequestCollapse(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	result := env.assign(t, env.owner, tk.ID, env.member.ID, env.member.ID)

	require.Len(t, result.Added, 1)
	assert.Equal(t, env.member.ID, result.Added[0].ID)

	stored := env.stored(t, tk.ID)
	assert.Equal(t, []domain.UserID{env.member.ID}, stored.AssigneeIDs)
	assert.Equal(t, domain.StatusAssigned, stored.Status)

	// Exactly one notification despite the repeated ID.
	var notifications int
	for _, m := range env.mail.Sent {
		if m.Kind == "notification" {
			notifications++
		}
	}
	assert.Equal(t, 1, notifications)
}

func TestAssign_FullyRedundantRequestIsANoop(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	env.assign(t, env.owner, tk.ID, env.member.ID)
	sentBefore := len(env.mail.Sent)
	activitiesBefore := len(env.activities.Entries)

	result := env.assign(t, env.owner, tk.ID, env.member.ID)

	assert.Empty(t, result.Added)
	assert.Len(t, env.mail.Sent, sentBefore)
	assert.Len(t, env.activities.Entries, activitiesBefore)
}

func TestAssign_TargetMustBeMember(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	uc := ticket.NewAssign(env.tickets, env.users, env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.AssignInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		UserIDs:  []domain.UserID{env.member.ID, env.outsider.ID},
	})
	assert.ErrorIs(t, err, domerrors.ErrTargetNotMember)

	// The valid target in the same request must not have been applied.
	assert.Empty(t, env.stored(t, tk.ID).AssigneeIDs)
}

func TestAssign_CallerMustBeMember(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	uc := ticket.NewAssign(env.tickets, env.users, env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.AssignInput{
		Acting:   env.outsider,
		TicketID: tk.ID,
		UserIDs:  []domain.UserID{env.member.ID},
	})
	assert.ErrorIs(t, err, domerrors.ErrNotAMember)
}

func TestUnassign_LastAssigneeKeepsStatus(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	env.assign(t, env.owner, tk.ID, env.member.ID)

	uc := ticket.NewUnassign(env.tickets, env.users, env.authority, env.dispatcher)
	result, err := uc.Execute(context.Background(), ticket.UnassignInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		UserID:   env.member.ID,
	})
	require.NoError(t, err)

	// Emptying the assignee set does not revert ASSIGNED to OPEN.
	assert.Empty(t, result.Ticket.AssigneeIDs)
	assert.Equal(t, domain.StatusAssigned, env.stored(t, tk.ID).Status)
}

func TestUnassign_NotAssigned(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	uc := ticket.NewUnassign(env.tickets, env.users, env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.UnassignInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		UserID:   env.member.ID,
	})
	assert.ErrorIs(t, err, domerrors.ErrNotAssigned)
}

func TestEdit(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")
	env.assign(t, env.owner, tk.ID, env.member.ID)

	name := "login broken on Safari"
	status := domain.StatusInProgress
	uc := ticket.NewEdit(env.tickets, env.users, env.authority, env.dispatcher)
	result, err := uc.Execute(context.Background(), ticket.EditInput{
		Acting:   env.member,
		TicketID: tk.ID,
		Name:     &name,
		Status:   &status,
	})
	require.NoError(t, err)
	require.NoError(t, result.NotifyErr)
	assert.Equal(t, name, result.Ticket.Name)
	assert.Equal(t, domain.StatusInProgress, result.Ticket.Status)
	// Untouched fields survive.
	assert.Equal(t, domain.PriorityMedium, result.Ticket.Priority)

	// Reporter and assignee are both notified.
	last := env.mail.Sent[len(env.mail.Sent)-1]
	assert.ElementsMatch(t, []string{env.owner.Email, env.member.Email}, last.Recipients)
}

func TestEdit_RejectsUnknownStatus(t *testing.T) {
	env := newTicketEnv()
	tk := env.create(t, env.owner, "login broken")

	bogus := domain.Status("ARCHIVED")
	uc := ticket.NewEdit(env.tickets, env.users, env.authority, env.dispatcher)
	_, err := uc.Execute(context.Background(), ticket.EditInput{
		Acting:   env.owner,
		TicketID: tk.ID,
		Status:   &bogus,
	})
	assert.ErrorIs(t, err, domerrors.ErrInvalidOperation)
	assert.Equal(t, domain.StatusOpen, env.stored(t, tk.ID).Status)
}
