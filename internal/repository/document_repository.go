package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxelo/hr-portal/internal/domain"
)

// DocumentRepository encapsulates the document metadata registry.
type DocumentRepository interface {
	Create(ctx context.Context, document *domain.Document) error
	GetByIDForEmployee(ctx context.Context, id, employeeID string) (*domain.Document, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Document, error)
	ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.Document, error)
	ListAll(ctx context.Context) ([]domain.Document, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository instantiates repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

const documentColumns = `id, employee_id, filename, original_filename, file_path, file_size, description, uploaded_by_admin, admin_id, created_at`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	if err := row.Scan(
		&d.ID,
		&d.EmployeeID,
		&d.Filename,
		&d.OriginalFilename,
		&d.FilePath,
		&d.FileSize,
		&d.Description,
		&d.UploadedByAdmin,
		&d.AdminID,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) Create(ctx context.Context, document *domain.Document) error {
	const query = `
        INSERT INTO documents (employee_id, filename, original_filename, file_path, file_size, description, uploaded_by_admin, admin_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		document.EmployeeID,
		document.Filename,
		document.OriginalFilename,
		document.FilePath,
		document.FileSize,
		document.Description,
		document.UploadedByAdmin,
		document.AdminID,
	).Scan(&document.ID, &document.CreatedAt)
}

func (r *documentRepository) GetByIDForEmployee(ctx context.Context, id, employeeID string) (*domain.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id=$1 AND employee_id=$2`
	return scanDocument(r.pool.QueryRow(ctx, query, id, employeeID))
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *documentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Document, error) {
	const query = `
        SELECT ` + documentColumns + ` FROM documents
        WHERE employee_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, employeeID)
}

func (r *documentRepository) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.Document, error) {
	const query = `
        SELECT ` + documentColumns + ` FROM documents
        WHERE employee_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, employeeID, limit)
}

func (r *documentRepository) ListAll(ctx context.Context) ([]domain.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *documentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []domain.Document
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *document)
	}
	return documents, rows.Err()
}
