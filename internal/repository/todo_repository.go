package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// TodoRepository encapsulates personal todo persistence.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByIDForEmployee(ctx context.Context, id, employeeID string) (*domain.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Todo, error)
	ListUpcomingByEmployee(ctx context.Context, employeeID string, from time.Time, limit int) ([]domain.Todo, error)
	CountPendingByEmployee(ctx context.Context, employeeID string) (int, error)
}

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository instantiates repository.
func NewTodoRepository(pool *pgxpool.Pool) TodoRepository {
	return &todoRepository{pool: pool}
}

const todoColumns = `id, employee_id, content, priority, due_date, is_completed, created_at, updated_at`

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(
		&t.ID,
		&t.EmployeeID,
		&t.Content,
		&t.Priority,
		&t.DueDate,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	const query = `
        INSERT INTO todos (employee_id, content, priority, due_date)
        VALUES ($1,$2,$3,$4)
        RETURNING id, is_completed, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		todo.EmployeeID,
		todo.Content,
		todo.Priority,
		todo.DueDate,
	).Scan(&todo.ID, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) GetByIDForEmployee(ctx context.Context, id, employeeID string) (*domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id=$1 AND employee_id=$2`
	return scanTodo(r.pool.QueryRow(ctx, query, id, employeeID))
}

func (r *todoRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	const query = `UPDATE todos SET is_completed=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, completed, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Todo, error) {
	const query = `
        SELECT ` + todoColumns + ` FROM todos
        WHERE employee_id=$1
        ORDER BY due_date ASC NULLS LAST, priority DESC`
	return r.list(ctx, query, employeeID)
}

func (r *todoRepository) ListUpcomingByEmployee(ctx context.Context, employeeID string, from time.Time, limit int) ([]domain.Todo, error) {
	const query = `
        SELECT ` + todoColumns + ` FROM todos
        WHERE employee_id=$1 AND is_completed=FALSE AND due_date >= $2
        ORDER BY due_date ASC
        LIMIT $3`
	return r.list(ctx, query, employeeID, from, limit)
}

func (r *todoRepository) CountPendingByEmployee(ctx context.Context, employeeID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM todos WHERE employee_id=$1 AND is_completed=FALSE`,
		employeeID,
	).Scan(&count)
	return count, err
}

func (r *todoRepository) list(ctx context.Context, query string, args ...any) ([]domain.Todo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}
