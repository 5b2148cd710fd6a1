package handlers

import (
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

// ActivityResponse is the public JSON shape of an audit trail entry.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	TicketID  string    `json:"ticket_id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func activityResponses(activities []*domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp := ActivityResponse{
			ID:        a.ID.String(),
			Type:      string(a.Type),
			Text:      a.Text,
			AuthorID:  a.AuthorID.String(),
			CreatedAt: a.CreatedAt,
		}
		if a.TicketID != nil {
			resp.TicketID = a.TicketID.String()
		}
		if a.ProjectID != nil {
			resp.ProjectID = a.ProjectID.String()
		}
		out = append(out, resp)
	}
	return out
}
