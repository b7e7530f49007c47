package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// LeaveRepository encapsulates leave request persistence.
type LeaveRepository interface {
	Create(ctx context.Context, leave *domain.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error)
	UpdateDecision(ctx context.Context, id string, status domain.LeaveStatus, notes string, at time.Time) error
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.LeaveRequest, error)
	ListResolvedByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.LeaveRequest, error)
	ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.LeaveRequest, error)
	ListPending(ctx context.Context, limit int) ([]domain.LeaveRequest, error)
	ListAll(ctx context.Context) ([]domain.LeaveRequest, error)
	CountPendingByEmployee(ctx context.Context, employeeID string) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type leaveRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRepository instantiates repository.
func NewLeaveRepository(pool *pgxpool.Pool) LeaveRepository {
	return &leaveRepository{pool: pool}
}

const leaveColumns = `id, employee_id, leave_type, start_date, end_date, reason, status, admin_notes, created_at, updated_at`

func scanLeave(row pgx.Row) (*domain.LeaveRequest, error) {
	var l domain.LeaveRequest
	if err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.Type,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.AdminNotes,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveRepository) Create(ctx context.Context, leave *domain.LeaveRequest) error {
	const query = `
        INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, reason, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		leave.EmployeeID,
		leave.Type,
		leave.StartDate,
		leave.EndDate,
		leave.Reason,
		leave.Status,
	).Scan(&leave.ID, &leave.CreatedAt, &leave.UpdatedAt)
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error) {
	const query = `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id=$1`
	return scanLeave(r.pool.QueryRow(ctx, query, id))
}

func (r *leaveRepository) UpdateDecision(ctx context.Context, id string, status domain.LeaveStatus, notes string, at time.Time) error {
	const query = `
        UPDATE leave_requests SET status=$1, admin_notes=$2, updated_at=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, notes, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.LeaveRequest, error) {
	const query = `
        SELECT ` + leaveColumns + ` FROM leave_requests
        WHERE employee_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, employeeID)
}

func (r *leaveRepository) ListResolvedByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.LeaveRequest, error) {
	const query = `
        SELECT ` + leaveColumns + ` FROM leave_requests
        WHERE employee_id=$1 AND status IN ('approved','rejected')
        ORDER BY updated_at DESC
        LIMIT $2`
	return r.list(ctx, query, employeeID, limit)
}

func (r *leaveRepository) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.LeaveRequest, error) {
	const query = `
        SELECT ` + leaveColumns + ` FROM leave_requests
        WHERE employee_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, employeeID, limit)
}

func (r *leaveRepository) ListPending(ctx context.Context, limit int) ([]domain.LeaveRequest, error) {
	const query = `
        SELECT ` + leaveColumns + ` FROM leave_requests
        WHERE status='pending' ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *leaveRepository) ListAll(ctx context.Context) ([]domain.LeaveRequest, error) {
	const query = `SELECT ` + leaveColumns + ` FROM leave_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *leaveRepository) CountPendingByEmployee(ctx context.Context, employeeID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE employee_id=$1 AND status='pending'`,
		employeeID,
	).Scan(&count)
	return count, err
}

func (r *leaveRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status='pending'`).Scan(&count)
	return count, err
}

func (r *leaveRepository) list(ctx context.Context, query string, args ...any) ([]domain.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []domain.LeaveRequest
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, *leave)
	}
	return leaves, rows.Err()
}
