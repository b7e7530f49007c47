package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// AnnouncementRepository encapsulates company announcement persistence.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	SetActive(ctx context.Context, id string, active bool) error
	ListActive(ctx context.Context, limit int) ([]domain.Announcement, error)
	ListAll(ctx context.Context) ([]domain.Announcement, error)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository instantiates repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

const announcementColumns = `id, admin_id, title, content, is_active, created_at`

func scanAnnouncement(row pgx.Row) (*domain.Announcement, error) {
	var a domain.Announcement
	if err := row.Scan(
		&a.ID,
		&a.AdminID,
		&a.Title,
		&a.Content,
		&a.Active,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (admin_id, title, content, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		announcement.AdminID,
		announcement.Title,
		announcement.Content,
		announcement.Active,
	).Scan(&announcement.ID, &announcement.CreatedAt)
}

func (r *announcementRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE announcements SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *announcementRepository) ListActive(ctx context.Context, limit int) ([]domain.Announcement, error) {
	const query = `
        SELECT ` + announcementColumns + ` FROM announcements
        WHERE is_active=TRUE ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *announcementRepository) ListAll(ctx context.Context) ([]domain.Announcement, error) {
	const query = `SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *announcementRepository) list(ctx context.Context, query string, args ...any) ([]domain.Announcement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []domain.Announcement
	for rows.Next() {
		announcement, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, *announcement)
	}
	return announcements, rows.Err()
}
