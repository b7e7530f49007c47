package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// EmployeeRepository defines persistence access for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListActive(ctx context.Context) ([]domain.Employee, error)
	ListRecentLogins(ctx context.Context, limit int) ([]domain.Employee, error)
	CountActive(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, password_hash, phone, department, position, hire_date, is_active, last_login, created_at, updated_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&e.Phone,
		&e.Department,
		&e.Position,
		&e.HireDate,
		&e.Active,
		&e.LastLogin,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, password_hash, phone, department, position, hire_date, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Phone,
		employee.Department,
		employee.Position,
		employee.HireDate,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET name=$1, email=$2, password_hash=$3, phone=$4, department=$5,
            position=$6, hire_date=$7, is_active=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Phone,
		employee.Department,
		employee.Position,
		employee.HireDate,
		employee.Active,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return scanEmployee(r.pool.QueryRow(ctx, query, id))
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE email=$1`
	return scanEmployee(r.pool.QueryRow(ctx, query, email))
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY name ASC`
	return r.list(ctx, query)
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE is_active=TRUE ORDER BY name ASC`
	return r.list(ctx, query)
}

func (r *employeeRepository) ListRecentLogins(ctx context.Context, limit int) ([]domain.Employee, error) {
	const query = `
        SELECT ` + employeeColumns + `
        FROM employees
        WHERE is_active=TRUE AND last_login IS NOT NULL
        ORDER BY last_login DESC
        LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *employeeRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active=TRUE`).Scan(&count)
	return count, err
}

func (r *employeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count)
	return count, err
}

func (r *employeeRepository) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE employees SET last_login=$1 WHERE id=$2`, at, id)
	return err
}

func (r *employeeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	return employees, rows.Err()
}
