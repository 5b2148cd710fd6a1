package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

const attachmentColumns = `id, ticket_id, filename, content_type, size, storage_key, uploaded_by, created_at`

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attachments (`+attachmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		attachment.ID, attachment.TicketID.UUID, attachment.Filename, attachment.ContentType,
		attachment.Size, attachment.StorageKey, attachment.UploadedBy.UUID, attachment.CreatedAt)
	return err
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id)
	attachment, err := scanAttachment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return attachment, err
}

func (r *AttachmentRepository) GetByFilename(ctx context.Context, ticketID domain.TicketID, filename string) (*domain.Attachment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE ticket_id = $1 AND filename = $2
		 ORDER BY created_at DESC LIMIT 1`,
		ticketID.UUID, filename)
	attachment, err := scanAttachment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return attachment, err
}

func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]*domain.Attachment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE ticket_id = $1 ORDER BY created_at`,
		ticketID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attachments []*domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	return err
}

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := row.Scan(&attachment.ID, &attachment.TicketID.UUID, &attachment.Filename,
		&attachment.ContentType, &attachment.Size, &attachment.StorageKey,
		&attachment.UploadedBy.UUID, &attachment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

var _ ports.AttachmentRepository = (*AttachmentRepository)(nil)
