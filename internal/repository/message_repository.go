package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// MessageRepository encapsulates employee inbox persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error)
	ListRecentByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Message, error)
	ListUnreadByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Message, error)
	CountUnreadByReceiver(ctx context.Context, receiverID string) (int, error)
	MarkAllRead(ctx context.Context, receiverID string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, sender_id, sender_name, receiver_id, subject, content, is_read, created_at`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	if err := row.Scan(
		&m.ID,
		&m.SenderID,
		&m.SenderName,
		&m.ReceiverID,
		&m.Subject,
		&m.Content,
		&m.Read,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_id, sender_name, receiver_id, subject, content)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, is_read, created_at`
	return r.pool.QueryRow(ctx, query,
		message.SenderID,
		message.SenderName,
		message.ReceiverID,
		message.Subject,
		message.Content,
	).Scan(&message.ID, &message.Read, &message.CreatedAt)
}

func (r *messageRepository) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error) {
	const query = `
        SELECT ` + messageColumns + ` FROM messages
        WHERE receiver_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, receiverID)
}

func (r *messageRepository) ListRecentByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Message, error) {
	const query = `
        SELECT ` + messageColumns + ` FROM messages
        WHERE receiver_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, receiverID, limit)
}

func (r *messageRepository) ListUnreadByReceiver(ctx context.Context, receiverID string, limit int) ([]domain.Message, error) {
	const query = `
        SELECT ` + messageColumns + ` FROM messages
        WHERE receiver_id=$1 AND is_read=FALSE
        ORDER BY created_at DESC
        LIMIT $2`
	return r.list(ctx, query, receiverID, limit)
}

func (r *messageRepository) CountUnreadByReceiver(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id=$1 AND is_read=FALSE`,
		receiverID,
	).Scan(&count)
	return count, err
}

func (r *messageRepository) MarkAllRead(ctx context.Context, receiverID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_read=TRUE WHERE receiver_id=$1 AND is_read=FALSE`,
		receiverID,
	)
	return err
}

func (r *messageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}
