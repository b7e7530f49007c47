package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/domain"
)

type stubDocumentRepo struct {
	mu        sync.Mutex
	seq       int
	documents map[string]*domain.Document
}

func newStubDocumentRepo() *stubDocumentRepo {
	return &stubDocumentRepo{documents: map[string]*domain.Document{}}
}

func (s *stubDocumentRepo) Create(ctx context.Context, document *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	document.ID = fmt.Sprintf("DOC-%d", s.seq)
	clone := *document
	s.documents[document.ID] = &clone
	return nil
}

func (s *stubDocumentRepo) GetByIDForEmployee(ctx context.Context, id, employeeID string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document, ok := s.documents[id]
	if !ok || document.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	clone := *document
	return &clone, nil
}

func (s *stubDocumentRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

func (s *stubDocumentRepo) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Document
	for _, document := range s.documents {
		if document.EmployeeID == employeeID {
			out = append(out, *document)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubDocumentRepo) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]domain.Document, error) {
	out, _ := s.ListByEmployee(ctx, employeeID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubDocumentRepo) ListAll(ctx context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Document
	for _, document := range s.documents {
		out = append(out, *document)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newDocumentFixture(t *testing.T) (*DocumentService, *stubDocumentRepo) {
	t.Helper()

	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	employees := &stubEmployeeStore{employees: map[string]*domain.Employee{
		"EMP-1": {ID: "EMP-1", Name: "Alice", Email: "alice@x.com", PasswordHash: hash, Active: true},
	}}
	repo := newStubDocumentRepo()
	return NewDocumentService(repo, employees), repo
}

func TestRegisterDocument(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	document, err := svc.Register(context.Background(), "EMP-1", RegisterInput{
		OriginalFilename: "contract.pdf",
		FileSize:         1024,
		Description:      "signed contract",
	})
	require.NoError(t, err)

	assert.Equal(t, "EMP-1", document.EmployeeID)
	assert.Equal(t, "contract.pdf", document.OriginalFilename)
	assert.NotEqual(t, "contract.pdf", document.Filename, "stored name must be randomized")
	assert.False(t, document.UploadedByAdmin)
	assert.Nil(t, document.AdminID)
}

func TestRegisterDocumentRejectsExtension(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	_, err := svc.Register(context.Background(), "EMP-1", RegisterInput{
		OriginalFilename: "payload.exe",
		FileSize:         1024,
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestRegisterDocumentRejectsSize(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	for _, size := range []int64{0, maxDocumentSize + 1} {
		_, err := svc.Register(context.Background(), "EMP-1", RegisterInput{
			OriginalFilename: "notes.txt",
			FileSize:         size,
		})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	}
}

func TestRegisterForEmployee(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	document, err := svc.RegisterForEmployee(context.Background(), "ADM-1", "EMP-1", RegisterInput{
		OriginalFilename: "review.docx",
		FileSize:         2048,
	})
	require.NoError(t, err)

	assert.True(t, document.UploadedByAdmin)
	require.NotNil(t, document.AdminID)
	assert.Equal(t, "ADM-1", *document.AdminID)
}

func TestRegisterForUnknownEmployee(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	_, err := svc.RegisterForEmployee(context.Background(), "ADM-1", "EMP-9", RegisterInput{
		OriginalFilename: "review.docx",
		FileSize:         2048,
	})
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestDeleteDocumentOwnership(t *testing.T) {
	svc, repo := newDocumentFixture(t)

	document, err := svc.Register(context.Background(), "EMP-1", RegisterInput{
		OriginalFilename: "contract.pdf",
		FileSize:         1024,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "EMP-2", document.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	require.NoError(t, svc.Delete(context.Background(), "EMP-1", document.ID))
	remaining, err := repo.ListByEmployee(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
