package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// AdminMessageRepository encapsulates employee-to-admin message persistence.
type AdminMessageRepository interface {
	Create(ctx context.Context, message *domain.AdminMessage) error
	GetByID(ctx context.Context, id string) (*domain.AdminMessage, error)
	ListAll(ctx context.Context) ([]domain.AdminMessage, error)
	ListRecent(ctx context.Context, limit int) ([]domain.AdminMessage, error)
	ListBySender(ctx context.Context, senderID string) ([]domain.AdminMessage, error)
	ListRecentBySender(ctx context.Context, senderID string, limit int) ([]domain.AdminMessage, error)
	CountUnread(ctx context.Context) (int, error)
	Respond(ctx context.Context, id, response string, at time.Time) error
	MarkRead(ctx context.Context, id string, at time.Time) error
}

type adminMessageRepository struct {
	pool *pgxpool.Pool
}

// NewAdminMessageRepository instantiates repository.
func NewAdminMessageRepository(pool *pgxpool.Pool) AdminMessageRepository {
	return &adminMessageRepository{pool: pool}
}

const adminMessageColumns = `id, sender_id, sender_name, subject, content, admin_response, is_read, created_at, updated_at`

func scanAdminMessage(row pgx.Row) (*domain.AdminMessage, error) {
	var m domain.AdminMessage
	if err := row.Scan(
		&m.ID,
		&m.SenderID,
		&m.SenderName,
		&m.Subject,
		&m.Content,
		&m.AdminResponse,
		&m.Read,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *adminMessageRepository) Create(ctx context.Context, message *domain.AdminMessage) error {
	const query = `
        INSERT INTO admin_messages (sender_id, sender_name, subject, content)
        VALUES ($1,$2,$3,$4)
        RETURNING id, is_read, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		message.SenderID,
		message.SenderName,
		message.Subject,
		message.Content,
	).Scan(&message.ID, &message.Read, &message.CreatedAt, &message.UpdatedAt)
}

func (r *adminMessageRepository) GetByID(ctx context.Context, id string) (*domain.AdminMessage, error) {
	const query = `SELECT ` + adminMessageColumns + ` FROM admin_messages WHERE id=$1`
	return scanAdminMessage(r.pool.QueryRow(ctx, query, id))
}

func (r *adminMessageRepository) ListAll(ctx context.Context) ([]domain.AdminMessage, error) {
	const query = `SELECT ` + adminMessageColumns + ` FROM admin_messages ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *adminMessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.AdminMessage, error) {
	const query = `
        SELECT ` + adminMessageColumns + ` FROM admin_messages
        ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *adminMessageRepository) ListBySender(ctx context.Context, senderID string) ([]domain.AdminMessage, error) {
	const query = `
        SELECT ` + adminMessageColumns + ` FROM admin_messages
        WHERE sender_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, senderID)
}

func (r *adminMessageRepository) ListRecentBySender(ctx context.Context, senderID string, limit int) ([]domain.AdminMessage, error) {
	const query = `
        SELECT ` + adminMessageColumns + ` FROM admin_messages
        WHERE sender_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, senderID, limit)
}

func (r *adminMessageRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_messages WHERE is_read=FALSE`).Scan(&count)
	return count, err
}

func (r *adminMessageRepository) Respond(ctx context.Context, id, response string, at time.Time) error {
	const query = `
        UPDATE admin_messages SET admin_response=$1, is_read=TRUE, updated_at=$2
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, response, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminMessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE admin_messages SET is_read=TRUE, updated_at=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminMessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.AdminMessage, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.AdminMessage
	for rows.Next() {
		message, err := scanAdminMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}
