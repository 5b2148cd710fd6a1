package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one ticket. Only the author may edit it; the
// author or an ADMIN may delete it.
type Comment struct {
	ID        uuid.UUID
	TicketID  TicketID
	AuthorID  UserID
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
