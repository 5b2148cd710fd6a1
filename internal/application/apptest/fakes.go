// Package apptest provides map-backed fakes for the application ports. They
// honor the (nil, nil)-on-miss convention of the real repositories and the
// same conflict sentinels, so use case tests observe the behavior handlers
// would see in production.
package apptest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

// NewUser builds a user with a fresh ID. Email derives from the username.
func NewUser(username string, role domain.Role) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:        domain.NewUserID(uuid.New()),
		Username:  username,
		Email:     username + "@example.com",
		Name:      username,
		Providers: []domain.Provider{domain.ProviderLocal},
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewProject builds a project owned by owner, who is always the first member.
func NewProject(name string, owner *domain.User, members ...*domain.User) *domain.Project {
	now := time.Now()
	ids := []domain.UserID{owner.ID}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		Name:        name,
		CreatedByID: owner.ID,
		MemberIDs:   ids,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTicket builds an open ticket in project reported by reporter.
func NewTicket(project *domain.Project, reporter *domain.User, name string) *domain.Ticket {
	now := time.Now()
	return &domain.Ticket{
		ID:           domain.NewTicketID(uuid.New()),
		ProjectID:    project.ID,
		Number:       1,
		Name:         name,
		Priority:     domain.PriorityMedium,
		Status:       domain.StatusOpen,
		ReportedByID: reporter.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UserRepo is an in-memory ports.UserRepository.
type UserRepo struct {
	users map[domain.UserID]*domain.User
}

func NewUserRepo(seed ...*domain.User) *UserRepo {
	r := &UserRepo{users: make(map[domain.UserID]*domain.User)}
	for _, u := range seed {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domerrors.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return cloneUser(r.users[id]), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id domain.UserID, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id domain.UserID) error {
	delete(r.users, id)
	return nil
}

// ProjectRepo is an in-memory ports.ProjectRepository with per-project
// ticket counters.
type ProjectRepo struct {
	projects map[domain.ProjectID]*domain.Project
	counters map[domain.ProjectID]int
}

func NewProjectRepo(seed ...*domain.Project) *ProjectRepo {
	r := &ProjectRepo{
		projects: make(map[domain.ProjectID]*domain.Project),
		counters: make(map[domain.ProjectID]int),
	}
	for _, p := range seed {
		r.projects[p.ID] = cloneProject(p)
	}
	return r
}

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	for _, p := range r.projects {
		if p.Name == project.Name && p.CreatedByID == project.CreatedByID {
			return domerrors.ErrProjectExists
		}
	}
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	return cloneProject(r.projects[id]), nil
}

func (r *ProjectRepo) GetByName(ctx context.Context, owner domain.UserID, name string) (*domain.Project, error) {
	for _, p := range r.projects {
		if p.CreatedByID == owner && p.Name == name {
			return cloneProject(p), nil
		}
	}
	return nil, nil
}

func (r *ProjectRepo) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (r *ProjectRepo) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if p.IsMember(userID) {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id domain.ProjectID) error {
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepo) AddMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	p, ok := r.projects[projectID]
	if !ok {
		return domerrors.ErrProjectNotFound
	}
	if p.IsMember(userID) {
		return domerrors.ErrAlreadyMember
	}
	p.MemberIDs = append(p.MemberIDs, userID)
	return nil
}

func (r *ProjectRepo) RemoveMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	p, ok := r.projects[projectID]
	if !ok {
		return domerrors.ErrProjectNotFound
	}
	if !p.IsMember(userID) {
		return domerrors.ErrTargetNotMember
	}
	kept := p.MemberIDs[:0]
	for _, m := range p.MemberIDs {
		if m != userID {
			kept = append(kept, m)
		}
	}
	p.MemberIDs = kept
	return nil
}

func (r *ProjectRepo) TransferOwnership(ctx context.Context, projectID domain.ProjectID, newOwner domain.UserID) error {
	p, ok := r.projects[projectID]
	if !ok {
		return domerrors.ErrProjectNotFound
	}
	p.CreatedByID = newOwner
	if !p.IsMember(newOwner) {
		p.MemberIDs = append(p.MemberIDs, newOwner)
	}
	return nil
}

func (r *ProjectRepo) ReassignOwned(ctx context.Context, from, to domain.UserID) error {
	for _, p := range r.projects {
		if p.CreatedByID == from {
			p.CreatedByID = to
			if !p.IsMember(to) {
				p.MemberIDs = append(p.MemberIDs, to)
			}
		}
	}
	return nil
}

func (r *ProjectRepo) CountOwnedBy(ctx context.Context, userID domain.UserID) (int, error) {
	n := 0
	for _, p := range r.projects {
		if p.CreatedByID == userID {
			n++
		}
	}
	return n, nil
}

func (r *ProjectRepo) NextTicketNumber(ctx context.Context, projectID domain.ProjectID) (int, error) {
	if _, ok := r.projects[projectID]; !ok {
		return 0, domerrors.ErrProjectNotFound
	}
	r.counters[projectID]++
	return r.counters[projectID], nil
}

// TicketRepo is an in-memory ports.TicketRepository.
type TicketRepo struct {
	tickets map[domain.TicketID]*domain.Ticket
}

func NewTicketRepo(seed ...*domain.Ticket) *TicketRepo {
	r := &TicketRepo{tickets: make(map[domain.TicketID]*domain.Ticket)}
	for _, t := range seed {
		r.tickets[t.ID] = cloneTicket(t)
	}
	return r
}

func (r *TicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id domain.TicketID) (*domain.Ticket, error) {
	return cloneTicket(r.tickets[id]), nil
}

func (r *TicketRepo) ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range r.tickets {
		if t.ProjectID == projectID {
			out = append(out, cloneTicket(t))
		}
	}
	return out, nil
}

func (r *TicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id domain.TicketID) error {
	if _, ok := r.tickets[id]; !ok {
		return domerrors.ErrTicketNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *TicketRepo) AddAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error {
	t, ok := r.tickets[ticketID]
	if !ok {
		return domerrors.ErrTicketNotFound
	}
	if t.IsAssignee(userID) {
		return domerrors.ErrAlreadyAssigned
	}
	t.AssigneeIDs = append(t.AssigneeIDs, userID)
	return nil
}

func (r *TicketRepo) RemoveAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error {
	t, ok := r.tickets[ticketID]
	if !ok {
		return domerrors.ErrTicketNotFound
	}
	if !t.IsAssignee(userID) {
		return domerrors.ErrNotAssigned
	}
	kept := t.AssigneeIDs[:0]
	for _, a := range t.AssigneeIDs {
		if a != userID {
			kept = append(kept, a)
		}
	}
	t.AssigneeIDs = kept
	return nil
}

func (r *TicketRepo) SetStatus(ctx context.Context, ticketID domain.TicketID, status domain.Status) error {
	t, ok := r.tickets[ticketID]
	if !ok {
		return domerrors.ErrTicketNotFound
	}
	t.Status = status
	return nil
}

// CommentRepo is an in-memory ports.CommentRepository.
type CommentRepo struct {
	comments map[uuid.UUID]*domain.Comment
}

func NewCommentRepo() *CommentRepo {
	return &CommentRepo{comments: make(map[uuid.UUID]*domain.Comment)}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	c := *comment
	r.comments[comment.ID] = &c
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *CommentRepo) ListByAuthor(ctx context.Context, authorID domain.UserID, limit, offset int) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.AuthorID == authorID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *CommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	c := *comment
	r.comments[comment.ID] = &c
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.comments, id)
	return nil
}

// AttachmentRepo is an in-memory ports.AttachmentRepository.
type AttachmentRepo struct {
	attachments map[uuid.UUID]*domain.Attachment
}

func NewAttachmentRepo() *AttachmentRepo {
	return &AttachmentRepo{attachments: make(map[uuid.UUID]*domain.Attachment)}
}

func (r *AttachmentRepo) Create(ctx context.Context, attachment *domain.Attachment) error {
	a := *attachment
	r.attachments[attachment.ID] = &a
	return nil
}

func (r *AttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *AttachmentRepo) GetByFilename(ctx context.Context, ticketID domain.TicketID, filename string) (*domain.Attachment, error) {
	var latest *domain.Attachment
	for _, a := range r.attachments {
		if a.TicketID != ticketID || a.Filename != filename {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *AttachmentRepo) ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]*domain.Attachment, error) {
	var out []*domain.Attachment
	for _, a := range r.attachments {
		if a.TicketID == ticketID {
			aa := *a
			out = append(out, &aa)
		}
	}
	return out, nil
}

func (r *AttachmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.attachments, id)
	return nil
}

// RequestRepo is an in-memory ports.RequestRepository enforcing the unique
// author constraint.
type RequestRepo struct {
	requests map[uuid.UUID]*domain.RoleRequest
}

func NewRequestRepo() *RequestRepo {
	return &RequestRepo{requests: make(map[uuid.UUID]*domain.RoleRequest)}
}

func (r *RequestRepo) Create(ctx context.Context, request *domain.RoleRequest) error {
	for _, existing := range r.requests {
		if existing.AuthorID == request.AuthorID {
			return domerrors.ErrRequestPending
		}
	}
	req := *request
	r.requests[request.ID] = &req
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RoleRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	out := *req
	return &out, nil
}

func (r *RequestRepo) GetByAuthor(ctx context.Context, authorID domain.UserID) (*domain.RoleRequest, error) {
	for _, req := range r.requests {
		if req.AuthorID == authorID {
			out := *req
			return &out, nil
		}
	}
	return nil, nil
}

func (r *RequestRepo) List(ctx context.Context, limit, offset int) ([]*domain.RoleRequest, error) {
	var out []*domain.RoleRequest
	for _, req := range r.requests {
		rr := *req
		out = append(out, &rr)
	}
	return out, nil
}

func (r *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.requests, id)
	return nil
}

// ActivityRepo is an in-memory ports.ActivityRepository keeping insertion
// order.
type ActivityRepo struct {
	Entries []*domain.Activity
}

func NewActivityRepo() *ActivityRepo { return &ActivityRepo{} }

func (r *ActivityRepo) Create(ctx context.Context, activity *domain.Activity) error {
	a := *activity
	r.Entries = append(r.Entries, &a)
	return nil
}

func (r *ActivityRepo) ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for _, a := range r.Entries {
		if a.TicketID != nil && *a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *ActivityRepo) ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Activity, error) {
	var out []*domain.Activity
	for _, a := range r.Entries {
		if a.ProjectID != nil && *a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

// MailMessage is one recorded enqueue call.
type MailMessage struct {
	Kind       string // "verification", "password_reset" or "notification"
	Recipients []string
	Subject    string
	Body       string
	URL        string
}

// Mail is a recording ports.MailEnqueuer. Set Err to make every enqueue
// fail, exercising the partial-failure paths.
type Mail struct {
	Sent []MailMessage
	Err  error
}

func NewMail() *Mail { return &Mail{} }

func (m *Mail) EnqueueVerificationEmail(ctx context.Context, email, verifyURL string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MailMessage{Kind: "verification", Recipients: []string{email}, URL: verifyURL})
	return nil
}

func (m *Mail) EnqueuePasswordReset(ctx context.Context, email, resetURL string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MailMessage{Kind: "password_reset", Recipients: []string{email}, URL: resetURL})
	return nil
}

func (m *Mail) EnqueueNotification(ctx context.Context, recipients []string, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, MailMessage{Kind: "notification", Recipients: recipients, Subject: subject, Body: body})
	return nil
}

// Store is an in-memory ports.KeyedStore with real expiry.
type Store struct {
	entries map[string]storeEntry
}

type storeEntry struct {
	value   string
	expires time.Time
}

func NewStore() *Store {
	return &Store{entries: make(map[string]storeEntry)}
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.entries[key] = storeEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expires) {
		return "", nil
	}
	return e.value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	n := 0
	for _, e := range s.entries {
		if time.Now().Before(e.expires) {
			n++
		}
	}
	return n
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	out.Providers = append([]domain.Provider(nil), u.Providers...)
	return &out
}

func cloneProject(p *domain.Project) *domain.Project {
	if p == nil {
		return nil
	}
	out := *p
	out.MemberIDs = append([]domain.UserID(nil), p.MemberIDs...)
	return &out
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	if t == nil {
		return nil
	}
	out := *t
	out.AssigneeIDs = append([]domain.UserID(nil), t.AssigneeIDs...)
	return &out
}

var (
	_ ports.UserRepository       = (*UserRepo)(nil)
	_ ports.ProjectRepository    = (*ProjectRepo)(nil)
	_ ports.TicketRepository     = (*TicketRepo)(nil)
	_ ports.CommentRepository    = (*CommentRepo)(nil)
	_ ports.AttachmentRepository = (*AttachmentRepo)(nil)
	_ ports.RequestRepository    = (*RequestRepo)(nil)
	_ ports.ActivityRepository   = (*ActivityRepo)(nil)
	_ ports.MailEnqueuer         = (*Mail)(nil)
	_ ports.KeyedStore           = (*Store)(nil)
)
