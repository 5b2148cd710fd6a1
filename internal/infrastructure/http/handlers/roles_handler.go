package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/role"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

// RolesHandler handles the role change request workflow: employees file
// requests, admins approve or reject them.
type RolesHandler struct {
	requestChange *role.RequestChange
	cancel        *role.Cancel
	list          *role.List
	approve       *role.Approve
	reject        *role.Reject
	validate      *validator.Validate
	log           zerolog.Logger
}

func NewRolesHandler(requestChange *role.RequestChange, cancel *role.Cancel, list *role.List, approve *role.Approve, reject *role.Reject, log zerolog.Logger) *RolesHandler {
	return &RolesHandler{
		requestChange: requestChange,
		cancel:        cancel,
		list:          list,
		approve:       approve,
		reject:        reject,
		validate:      validator.New(),
		log:           log,
	}
}

// RoleRequestResponse is the public JSON shape of a role change request.
type RoleRequestResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func roleRequestResponse(req *domain.RoleRequest) RoleRequestResponse {
	return RoleRequestResponse{
		ID:        req.ID.String(),
		AuthorID:  req.AuthorID.String(),
		Role:      string(req.Role),
		CreatedAt: req.CreatedAt,
	}
}

func (h *RolesHandler) RequestChange(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	var body struct {
		Role string `json:"role" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	requested := domain.Role(body.Role)
	if !requested.Valid() {
		writeErr(w, http.StatusBadRequest, "", "invalid role")
		return
	}
	result, err := h.requestChange.Execute(r.Context(), role.RequestChangeInput{
		Acting: acting,
		Role:   requested,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roleRequestResponse(result.Request))
}

func (h *RolesHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}
	if err := h.cancel.Execute(r.Context(), role.CancelInput{
		Acting:    acting,
		RequestID: requestID,
	}); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RolesHandler) List(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	limit, offset := parsePagination(r)
	result, err := h.list.Execute(r.Context(), role.ListInput{
		Acting: acting,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]RoleRequestResponse, 0, len(result.Requests))
	for _, req := range result.Requests {
		out = append(out, roleRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RolesHandler) Approve(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}
	result, err := h.approve.Execute(r.Context(), role.DecideInput{
		Acting:    acting,
		RequestID: requestID,
	})
	if err != nil {
		AuditLog(h.log, r, "role.approve", acting.ID.String(), false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "role.approve", acting.ID.String(), true, "")
	if writeNotifyErr(w, h.log, result.NotifyErr, "role approved") {
		return
	}
	writeJSON(w, http.StatusOK, userResponse(result.User))
}

func (h *RolesHandler) Reject(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	requestID, ok := parseRequestID(w, r)
	if !ok {
		return
	}
	result, err := h.reject.Execute(r.Context(), role.DecideInput{
		Acting:    acting,
		RequestID: requestID,
	})
	if err != nil {
		AuditLog(h.log, r, "role.reject", acting.ID.String(), false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "role.reject", acting.ID.String(), true, "")
	if writeNotifyErr(w, h.log, result.NotifyErr, "role rejected") {
		return
	}
	writeJSON(w, http.StatusOK, userResponse(result.User))
}

func parseRequestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid request id")
		return uuid.UUID{}, false
	}
	return id, true
}
