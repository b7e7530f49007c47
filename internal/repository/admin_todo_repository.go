package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// AdminTodoRepository encapsulates admin-assigned task records.
type AdminTodoRepository interface {
	Create(ctx context.Context, todo *domain.AdminAssignedTodo) error
	ListAll(ctx context.Context) ([]domain.AdminAssignedTodo, error)
}

type adminTodoRepository struct {
	pool *pgxpool.Pool
}

// NewAdminTodoRepository instantiates repository.
func NewAdminTodoRepository(pool *pgxpool.Pool) AdminTodoRepository {
	return &adminTodoRepository{pool: pool}
}

func (r *adminTodoRepository) Create(ctx context.Context, todo *domain.AdminAssignedTodo) error {
	const query = `
        INSERT INTO admin_assigned_todos (admin_id, employee_id, content, priority, due_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		todo.AdminID,
		todo.EmployeeID,
		todo.Content,
		todo.Priority,
		todo.DueDate,
	).Scan(&todo.ID, &todo.CreatedAt)
}

func (r *adminTodoRepository) ListAll(ctx context.Context) ([]domain.AdminAssignedTodo, error) {
	const query = `
        SELECT id, admin_id, employee_id, content, priority, due_date, created_at
        FROM admin_assigned_todos
        ORDER BY due_date ASC NULLS LAST`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.AdminAssignedTodo
	for rows.Next() {
		var t domain.AdminAssignedTodo
		if err := rows.Scan(
			&t.ID,
			&t.AdminID,
			&t.EmployeeID,
			&t.Content,
			&t.Priority,
			&t.DueDate,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}
