package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// maxDocumentSize caps registered uploads at 16 MiB.
const maxDocumentSize = 16 << 20

var allowedDocumentExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// DocumentService maintains the per-employee document registry. The
// registry holds metadata only; FilePath records where an external store
// would keep the bytes.
type DocumentService struct {
	documents repository.DocumentRepository
	employees repository.EmployeeRepository
}

// NewDocumentService builds the service.
func NewDocumentService(documents repository.DocumentRepository, employees repository.EmployeeRepository) *DocumentService {
	return &DocumentService{documents: documents, employees: employees}
}

// RegisterInput carries upload metadata.
type RegisterInput struct {
	OriginalFilename string
	FileSize         int64
	Description      string
}

// Register validates an upload's metadata and records it for the employee.
func (s *DocumentService) Register(ctx context.Context, employeeID string, input RegisterInput) (*domain.Document, error) {
	return s.register(ctx, employeeID, input, nil)
}

// RegisterForEmployee is the admin variant: the upload is attributed to the
// admin but filed under the target employee.
func (s *DocumentService) RegisterForEmployee(ctx context.Context, adminID, employeeID string, input RegisterInput) (*domain.Document, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": employeeID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.register(ctx, employeeID, input, &adminID)
}

func (s *DocumentService) register(ctx context.Context, employeeID string, input RegisterInput, adminID *string) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(input.OriginalFilename))
	if _, ok := allowedDocumentExtensions[ext]; !ok {
		return nil, apperrors.NewValidationError("file type not allowed", map[string]any{"extension": ext})
	}
	if input.FileSize <= 0 || input.FileSize > maxDocumentSize {
		return nil, apperrors.NewValidationError("file size out of bounds", map[string]any{"size": input.FileSize})
	}

	// the stored name is random so uploads can never collide or be guessed
	stored := uuid.NewString() + ext
	document := &domain.Document{
		EmployeeID:       employeeID,
		Filename:         stored,
		OriginalFilename: filepath.Base(input.OriginalFilename),
		FilePath:         filepath.Join("uploads", employeeID, stored),
		FileSize:         input.FileSize,
		Description:      input.Description,
		UploadedByAdmin:  adminID != nil,
		AdminID:          adminID,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return document, nil
}

// ListOwn returns the employee's documents, newest first.
func (s *DocumentService) ListOwn(ctx context.Context, employeeID string) ([]domain.Document, error) {
	documents, err := s.documents.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return documents, nil
}

// ListAll returns every registered document for admin review.
func (s *DocumentService) ListAll(ctx context.Context) ([]domain.Document, error) {
	documents, err := s.documents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return documents, nil
}

// Delete removes a document record the employee owns.
func (s *DocumentService) Delete(ctx context.Context, employeeID, documentID string) error {
	if _, err := s.documents.GetByIDForEmployee(ctx, documentID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("document", map[string]any{"id": documentID})
		}
		return apperrors.NewInternalError(err)
	}
	if err := s.documents.Delete(ctx, documentID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
