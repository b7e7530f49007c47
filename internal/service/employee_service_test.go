package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/domain"
)

type conflictEmployeeStore struct {
	*stubEmployeeStore
	createErr error
	updateErr error
}

func (s *conflictEmployeeStore) Create(ctx context.Context, employee *domain.Employee) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.stubEmployeeStore.Create(ctx, employee)
}

func (s *conflictEmployeeStore) Update(ctx context.Context, employee *domain.Employee) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.stubEmployeeStore.Update(ctx, employee)
}

func newEmployeeService(store *conflictEmployeeStore) *EmployeeService {
	return NewEmployeeService(config.AuthConfig{
		BcryptCost:        bcrypt.MinCost,
		PasswordMinLength: 6,
	}, store, &captureDispatcher{})
}

func TestCreateEmployee(t *testing.T) {
	store := &conflictEmployeeStore{stubEmployeeStore: &stubEmployeeStore{employees: map[string]*domain.Employee{}}}
	svc := newEmployeeService(store)

	employee, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:     "Carol",
		Email:    "  Carol@X.com ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "carol@x.com", employee.Email)
	assert.True(t, employee.Active)
	assert.NotEqual(t, "secret1", employee.PasswordHash)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	store := &conflictEmployeeStore{stubEmployeeStore: &stubEmployeeStore{employees: map[string]*domain.Employee{
		"EMP-1": {ID: "EMP-1", Name: "Alice", Email: "alice@x.com", Active: true},
	}}}
	svc := newEmployeeService(store)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:     "Other Alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestCreateEmployeeUniqueRaceMapsToConflict(t *testing.T) {
	// The pre-insert lookup sees nothing, then the insert loses the race
	// against a concurrent create and hits the unique constraint.
	store := &conflictEmployeeStore{
		stubEmployeeStore: &stubEmployeeStore{employees: map[string]*domain.Employee{}},
		createErr:         &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"},
	}
	svc := newEmployeeService(store)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:     "Carol",
		Email:    "carol@x.com",
		Password: "secret1",
	})
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestUpdateEmployeeUniqueRaceMapsToConflict(t *testing.T) {
	store := &conflictEmployeeStore{
		stubEmployeeStore: &stubEmployeeStore{employees: map[string]*domain.Employee{
			"EMP-1": {ID: "EMP-1", Name: "Alice", Email: "alice@x.com", Active: true},
		}},
		updateErr: &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"},
	}
	svc := newEmployeeService(store)

	_, err := svc.Update(context.Background(), "EMP-1", UpdateEmployeeInput{Email: "taken@x.com"})
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestCreateEmployeeShortPassword(t *testing.T) {
	store := &conflictEmployeeStore{stubEmployeeStore: &stubEmployeeStore{employees: map[string]*domain.Employee{}}}
	svc := newEmployeeService(store)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{
		Name:     "Carol",
		Email:    "carol@x.com",
		Password: "short",
	})
	assert.Equal(t, "PASSWORD_POLICY_VIOLATION", domainCode(t, err))
}
