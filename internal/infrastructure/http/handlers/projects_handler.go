package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/project"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

// ProjectsHandler handles /projects/* including membership management.
type ProjectsHandler struct {
	projectRepo   ports.ProjectRepository
	activityRepo  ports.ActivityRepository
	createProject *project.Create
	editProject   *project.Edit
	deleteProject *project.Delete
	addMember     *membership.AddMember
	removeMember  *membership.RemoveMember
	leave         *membership.Leave
	transfer      *membership.TransferOwnership
	validate      *validator.Validate
	log           zerolog.Logger
}

func NewProjectsHandler(projectRepo ports.ProjectRepository, activityRepo ports.ActivityRepository, createProject *project.Create, editProject *project.Edit, deleteProject *project.Delete, addMember *membership.AddMember, removeMember *membership.RemoveMember, leave *membership.Leave, transfer *membership.TransferOwnership, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectRepo:   projectRepo,
		activityRepo:  activityRepo,
		createProject: createProject,
		editProject:   editProject,
		deleteProject: deleteProject,
		addMember:     addMember,
		removeMember:  removeMember,
		leave:         leave,
		transfer:      transfer,
		validate:      validator.New(),
		log:           log,
	}
}

// ProjectResponse is the public JSON shape of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func projectResponse(p *domain.Project) ProjectResponse {
	members := make([]string, 0, len(p.MemberIDs))
	for _, m := range p.MemberIDs {
		members = append(members, m.String())
	}
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedByID.String(),
		MemberIDs:   members,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	var body struct {
		Name        string `json:"name" validate:"required,min=1,max=128"`
		Description string `json:"description" validate:"max=2048"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.createProject.Execute(r.Context(), project.CreateInput{
		Acting:      acting,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse(result.Project))
}

// List returns the caller's projects. Admins may pass ?all=true for every
// project in the system.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	var (
		projects []*domain.Project
		err      error
	)
	if r.URL.Query().Get("all") == "true" && acting.IsAdmin() {
		limit, offset := parsePagination(r)
		projects, err = h.projectRepo.List(r.Context(), limit, offset)
	} else {
		projects, err = h.projectRepo.ListForUser(r.Context(), acting.ID)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("list projects failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if !p.IsMember(acting.ID) && !acting.IsAdmin() {
		writeErr(w, http.StatusForbidden, "", "not a member of this project")
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(p))
}

func (h *ProjectsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=128"`
		Description *string `json:"description" validate:"omitempty,max=2048"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.editProject.Execute(r.Context(), project.EditInput{
		Acting:      acting,
		ProjectID:   projectID,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(result.Project))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	if err := h.deleteProject.Execute(r.Context(), project.DeleteInput{
		Acting:    acting,
		ProjectID: projectID,
	}); err != nil {
		AuditLog(h.log, r, "project.delete", acting.ID.String(), false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "project.delete", acting.ID.String(), true, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Username string `json:"username" validate:"required,max=32"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.addMember.Execute(r.Context(), membership.AddMemberInput{
		Acting:    acting,
		ProjectID: projectID,
		Username:  SanitizeUsername(body.Username),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if writeNotifyErr(w, h.log, result.NotifyErr, "member added") {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(result.Project))
}

func (h *ProjectsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	username := SanitizeUsername(chi.URLParam(r, "username"))
	if username == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid username")
		return
	}
	result, err := h.removeMember.Execute(r.Context(), membership.RemoveMemberInput{
		Acting:    acting,
		ProjectID: projectID,
		Username:  username,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if writeNotifyErr(w, h.log, result.NotifyErr, "member removed") {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(result.Project))
}

func (h *ProjectsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	if err := h.leave.Execute(r.Context(), membership.LeaveInput{
		Acting:    acting,
		ProjectID: projectID,
	}); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Username string `json:"username" validate:"required,max=32"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.transfer.Execute(r.Context(), membership.TransferOwnershipInput{
		Acting:           acting,
		ProjectID:        projectID,
		NewOwnerUsername: SanitizeUsername(body.Username),
	})
	if err != nil {
		AuditLog(h.log, r, "project.transfer_ownership", acting.ID.String(), false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "project.transfer_ownership", acting.ID.String(), true, "")
	if writeNotifyErr(w, h.log, result.NotifyErr, "ownership transferred") {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(result.Project))
}

// Activities lists the project's audit trail, visible to members and admins.
func (h *ProjectsHandler) Activities(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if !p.IsMember(acting.ID) && !acting.IsAdmin() {
		writeErr(w, http.StatusForbidden, "", "not a member of this project")
		return
	}
	limit, offset := parsePagination(r)
	activities, err := h.activityRepo.ListByProject(r.Context(), p.ID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list project activities failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, activityResponses(activities))
}

func (h *ProjectsHandler) loadProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return nil, false
	}
	p, err := h.projectRepo.GetByID(r.Context(), projectID)
	if err != nil {
		h.log.Error().Err(err).Msg("get project failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return nil, false
	}
	if p == nil {
		writeErr(w, http.StatusNotFound, "", "project not found")
		return nil, false
	}
	return p, true
}

func parseProjectID(w http.ResponseWriter, r *http.Request) (domain.ProjectID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return domain.ProjectID{}, false
	}
	return domain.NewProjectID(id), true
}
