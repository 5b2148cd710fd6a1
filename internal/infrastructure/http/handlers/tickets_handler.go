package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ticket"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

// maxAttachmentSize caps uploads at 25 MiB.
const maxAttachmentSize = 25 << 20

// TicketsHandler handles ticket CRUD, assignment and attachments.
type TicketsHandler struct {
	ticketRepo     ports.TicketRepository
	activityRepo   ports.ActivityRepository
	attachmentRepo ports.AttachmentRepository
	authority      *membership.Authority
	createTicket   *ticket.Create
	editTicket     *ticket.Edit
	deleteTicket   *ticket.Delete
	assign         *ticket.Assign
	unassign       *ticket.Unassign
	attachFile     *ticket.AttachFile
	deleteFile     *ticket.DeleteFile
	getFile        *ticket.GetFile
	validate       *validator.Validate
	log            zerolog.Logger
}

func NewTicketsHandler(ticketRepo ports.TicketRepository, activityRepo ports.ActivityRepository, attachmentRepo ports.AttachmentRepository, authority *membership.Authority, createTicket *ticket.Create, editTicket *ticket.Edit, deleteTicket *ticket.Delete, assign *ticket.Assign, unassign *ticket.Unassign, attachFile *ticket.AttachFile, deleteFile *ticket.DeleteFile, getFile *ticket.GetFile, log zerolog.Logger) *TicketsHandler {
	return &TicketsHandler{
		ticketRepo:     ticketRepo,
		activityRepo:   activityRepo,
		attachmentRepo: attachmentRepo,
		authority:      authority,
		createTicket:   createTicket,
		editTicket:     editTicket,
		deleteTicket:   deleteTicket,
		assign:         assign,
		unassign:       unassign,
		attachFile:     attachFile,
		deleteFile:     deleteFile,
		getFile:        getFile,
		validate:       validator.New(),
		log:            log,
	}
}

// TicketResponse is the public JSON shape of a ticket.
type TicketResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Number      int       `json:"number"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ReportedBy  string    `json:"reported_by"`
	AssigneeIDs []string  `json:"assignee_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ticketResponse(t *domain.Ticket) TicketResponse {
	assignees := make([]string, 0, len(t.AssigneeIDs))
	for _, a := range t.AssigneeIDs {
		assignees = append(assignees, a.String())
	}
	return TicketResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Number:      t.Number,
		Name:        t.Name,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		ReportedBy:  t.ReportedByID.String(),
		AssigneeIDs: assignees,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TicketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        string `json:"name" validate:"required,min=1,max=256"`
		Description string `json:"description" validate:"max=4096"`
		Priority    string `json:"priority" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	priority := domain.Priority(body.Priority)
	if !priority.Valid() {
		writeErr(w, http.StatusBadRequest, "", "invalid priority")
		return
	}
	result, err := h.createTicket.Execute(r.Context(), ticket.CreateInput{
		Acting:      acting,
		ProjectID:   projectID,
		Name:        body.Name,
		Description: body.Description,
		Priority:    priority,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticketResponse(result.Ticket))
}

func (h *TicketsHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	if _, err := h.authority.RequireMember(r.Context(), acting.ID, projectID); err != nil {
		writeDomainErr(w, err)
		return
	}
	limit, offset := parsePagination(r)
	tickets, err := h.ticketRepo.ListByProject(r.Context(), projectID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list tickets failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TicketsHandler) Get(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	t, ok := h.loadTicket(w, r, acting)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse(t))
}

func (h *TicketsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=256"`
		Description *string `json:"description" validate:"omitempty,max=4096"`
		Priority    *string `json:"priority"`
		Status      *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	input := ticket.EditInput{
		Acting:      acting,
		TicketID:    ticketID,
		Name:        body.Name,
		Description: body.Description,
	}
	if body.Priority != nil {
		priority := domain.Priority(*body.Priority)
		if !priority.Valid() {
			writeErr(w, http.StatusBadRequest, "", "invalid priority")
			return
		}
		input.Priority = &priority
	}
	if body.Status != nil {
		status := domain.Status(*body.Status)
		if !status.Valid() {
			writeErr(w, http.StatusBadRequest, "", "invalid status")
			return
		}
		input.Status = &status
	}
	result, err := h.editTicket.Execute(r.Context(), input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if writeNotifyErr(w, h.log, result.NotifyErr, "ticket edited") {
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse(result.Ticket))
}

func (h *TicketsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	if err := h.deleteTicket.Execute(r.Context(), ticket.DeleteInput{Acting: acting, TicketID: ticketID}); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TicketsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserIDs []string `json:"user_ids" validate:"required,min=1,max=50"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	userIDs := make([]domain.UserID, 0, len(body.UserIDs))
	for _, raw := range body.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid user id: "+raw)
			return
		}
		userIDs = append(userIDs, domain.NewUserID(id))
	}
	result, err := h.assign.Execute(r.Context(), ticket.AssignInput{
		Acting:   acting,
		TicketID: ticketID,
		UserIDs:  userIDs,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if writeNotifyErr(w, h.log, result.NotifyErr, "assignees added") {
		return
	}
	added := make([]string, 0, len(result.Added))
	for _, u := range result.Added {
		added = append(added, u.ID.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticket": ticketResponse(result.Ticket),
		"added":  added,
	})
}

func (h *TicketsHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	result, err := h.unassign.Execute(r.Context(), ticket.UnassignInput{
		Acting:   acting,
		TicketID: ticketID,
		UserID:   domain.NewUserID(userID),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse(result.Ticket))
}

// Activities lists a ticket's audit trail, visible to project members.
func (h *TicketsHandler) Activities(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	t, ok := h.loadTicket(w, r, acting)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)
	activities, err := h.activityRepo.ListByTicket(r.Context(), t.ID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list ticket activities failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, activityResponses(activities))
}

// Upload stores a file attachment sent as multipart form field "file".
func (h *TicketsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid multipart form or file too large")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "missing file field")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	result, err := h.attachFile.Execute(r.Context(), ticket.AttachFileInput{
		Acting:      acting,
		TicketID:    ticketID,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachmentResponse(result.Attachment))
}

// Download streams an attachment back by filename.
func (h *TicketsHandler) Download(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	filename := chi.URLParam(r, "filename")
	result, err := h.getFile.Execute(r.Context(), ticket.GetFileInput{
		Acting:   acting,
		TicketID: ticketID,
		Filename: filename,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	defer result.Body.Close()
	w.Header().Set("Content-Type", result.Attachment.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Attachment.Filename+`"`)
	if result.Attachment.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.Attachment.Size, 10))
	}
	if _, err := io.Copy(w, result.Body); err != nil {
		h.log.Warn().Err(err).Msg("attachment stream interrupted")
	}
}

// ListAttachments lists attachment metadata for a ticket.
func (h *TicketsHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	t, ok := h.loadTicket(w, r, acting)
	if !ok {
		return
	}
	attachments, err := h.attachmentRepo.ListByTicket(r.Context(), t.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("list attachments failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, attachmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TicketsHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	attachmentID, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid attachment id")
		return
	}
	if err := h.deleteFile.Execute(r.Context(), ticket.DeleteFileInput{
		Acting:       acting,
		TicketID:     ticketID,
		AttachmentID: attachmentID,
	}); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachmentResponse is the public JSON shape of attachment metadata.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func attachmentResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		TicketID:    a.TicketID.String(),
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedBy:  a.UploadedBy.String(),
		CreatedAt:   a.CreatedAt,
	}
}

// loadTicket fetches the ticket and enforces the membership gate shared by
// every read path.
func (h *TicketsHandler) loadTicket(w http.ResponseWriter, r *http.Request, acting *domain.User) (*domain.Ticket, bool) {
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return nil, false
	}
	t, err := h.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		h.log.Error().Err(err).Msg("get ticket failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return nil, false
	}
	if t == nil {
		writeErr(w, http.StatusNotFound, "", "ticket not found")
		return nil, false
	}
	if _, err := h.authority.RequireMember(r.Context(), acting.ID, t.ProjectID); err != nil {
		writeDomainErr(w, err)
		return nil, false
	}
	return t, true
}

func parseTicketID(w http.ResponseWriter, r *http.Request) (domain.TicketID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid ticket id")
		return domain.TicketID{}, false
	}
	return domain.NewTicketID(id), true
}
