package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/user"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

// UsersHandler handles /users/*. Requires JWT auth.
type UsersHandler struct {
	userRepo   ports.UserRepository
	editUser   *user.Edit
	deleteUser *user.Delete
	validate   *validator.Validate
	log        zerolog.Logger
}

func NewUsersHandler(userRepo ports.UserRepository, editUser *user.Edit, deleteUser *user.Delete, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{
		userRepo:   userRepo,
		editUser:   editUser,
		deleteUser: deleteUser,
		validate:   validator.New(),
		log:        log,
	}
}

// UserResponse is the public JSON shape of an account (no password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Me returns the account behind the presented token.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	if acting == nil {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(acting))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	users, err := h.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	u, err := h.userRepo.GetByID(r.Context(), domain.NewUserID(id))
	if err != nil {
		h.log.Error().Err(err).Msg("get user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if u == nil {
		writeErr(w, http.StatusNotFound, "", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(u))
}

func (h *UsersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	var body struct {
		Name  *string `json:"name" validate:"omitempty,max=128"`
		Email *string `json:"email" validate:"omitempty,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if body.Email != nil {
		email := SanitizeEmail(*body.Email)
		if email == "" {
			writeErr(w, http.StatusBadRequest, "", "invalid email")
			return
		}
		body.Email = &email
	}
	result, err := h.editUser.Execute(r.Context(), user.EditInput{
		Acting:   acting,
		TargetID: domain.NewUserID(id),
		Name:     body.Name,
		Email:    body.Email,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse(result.User))
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	if err := h.deleteUser.Execute(r.Context(), user.DeleteInput{
		Acting:   acting,
		TargetID: domain.NewUserID(id),
	}); err != nil {
		AuditLog(h.log, r, "user.delete", acting.ID.String(), false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "user.delete", acting.ID.String(), true, "")
	w.WriteHeader(http.StatusNoContent)
}
