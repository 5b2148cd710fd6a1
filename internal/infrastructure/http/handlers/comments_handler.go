package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/comment"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
)

// CommentsHandler handles ticket comments.
type CommentsHandler struct {
	commentRepo   ports.CommentRepository
	ticketRepo    ports.TicketRepository
	authority     *membership.Authority
	createComment *comment.Create
	editComment   *comment.Edit
	deleteComment *comment.Delete
	validate      *validator.Validate
	log           zerolog.Logger
}

func NewCommentsHandler(commentRepo ports.CommentRepository, ticketRepo ports.TicketRepository, authority *membership.Authority, createComment *comment.Create, editComment *comment.Edit, deleteComment *comment.Delete, log zerolog.Logger) *CommentsHandler {
	return &CommentsHandler{
		commentRepo:   commentRepo,
		ticketRepo:    ticketRepo,
		authority:     authority,
		createComment: createComment,
		editComment:   editComment,
		deleteComment: deleteComment,
		validate:      validator.New(),
		log:           log,
	}
}

// CommentResponse is the public JSON shape of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func commentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		TicketID:  c.TicketID.String(),
		AuthorID:  c.AuthorID.String(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text" validate:"required,min=1,max=4096"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.createComment.Execute(r.Context(), comment.CreateInput{
		Acting:   acting,
		TicketID: ticketID,
		Text:     body.Text,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse(result.Comment))
}

// ListByTicket lists a ticket's comments, visible to project members.
func (h *CommentsHandler) ListByTicket(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	ticketID, ok := parseTicketID(w, r)
	if !ok {
		return
	}
	t, err := h.ticketRepo.GetByID(r.Context(), ticketID)
	if err != nil {
		h.log.Error().Err(err).Msg("get ticket failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if t == nil {
		writeErr(w, http.StatusNotFound, "", "ticket not found")
		return
	}
	if _, err := h.authority.RequireMember(r.Context(), acting.ID, t.ProjectID); err != nil {
		writeDomainErr(w, err)
		return
	}
	limit, offset := parsePagination(r)
	comments, err := h.commentRepo.ListByTicket(r.Context(), ticketID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("list comments failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CommentsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid comment id")
		return
	}
	var body struct {
		Text string `json:"text" validate:"required,min=1,max=4096"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.editComment.Execute(r.Context(), comment.EditInput{
		Acting:    acting,
		CommentID: commentID,
		Text:      body.Text,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentResponse(result.Comment))
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	acting := middleware.UserFromContext(r.Context())
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid comment id")
		return
	}
	if err := h.deleteComment.Execute(r.Context(), comment.DeleteInput{
		Acting:    acting,
		CommentID: commentID,
	}); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
