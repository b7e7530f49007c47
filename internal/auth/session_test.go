package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxelo/hr-portal/internal/cache"
	"github.com/maxelo/hr-portal/internal/domain"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

type stubEmployees struct {
	employees map[string]*domain.Employee
}

func (s *stubEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	for _, e := range s.employees {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubEmployees) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if e, ok := s.employees[email]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubEmployees) StampLastLogin(_ context.Context, id string, at time.Time) error {
	for _, e := range s.employees {
		if e.ID == id {
			stamp := at
			e.LastLogin = &stamp
			return nil
		}
	}
	return pgx.ErrNoRows
}

type stubAdmins struct {
	admins map[string]*domain.Admin
}

func (s *stubAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	for _, a := range s.admins {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if a, ok := s.admins[email]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubAdmins) StampLastLogin(_ context.Context, id string, at time.Time) error {
	for _, a := range s.admins {
		if a.ID == id {
			stamp := at
			a.LastLogin = &stamp
			return nil
		}
	}
	return pgx.ErrNoRows
}

type sessionFixture struct {
	manager   *SessionManager
	employees *stubEmployees
	admins    *stubAdmins
	store     *cache.MemoryStore
	now       time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	f := &sessionFixture{
		employees: &stubEmployees{employees: map[string]*domain.Employee{
			"alice@x.com": {ID: "emp-1", Name: "Alice", Email: "alice@x.com", PasswordHash: hash, Active: true},
			"bob@x.com":   {ID: "emp-2", Name: "Bob", Email: "bob@x.com", PasswordHash: hash, Active: false},
		}},
		admins: &stubAdmins{admins: map[string]*domain.Admin{
			"root@x.com": {ID: "adm-1", Name: "Root", Email: "root@x.com", PasswordHash: hash},
		}},
		now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.store = cache.NewMemoryStore().WithClock(clock)
	f.manager = NewSessionManager(f.store, f.employees, f.admins, 7*24*time.Hour, time.Hour).WithClock(clock)
	return f
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestLoginEmployeeSuccess(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	principal, session, err := f.manager.Login(ctx, "Alice@X.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleEmployee, principal.Role)
	assert.Equal(t, "emp-1", principal.ID())
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.Permanent)
	assert.Equal(t, f.now.Add(7*24*time.Hour), session.ExpiresAt)

	// last-login stamped on the backing record
	require.NotNil(t, f.employees.employees["alice@x.com"].LastLogin)
	assert.Equal(t, f.now, *f.employees.employees["alice@x.com"].LastLogin)

	resolved, _, err := f.manager.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", resolved.ID())
}

func TestLoginWrongPassword(t *testing.T) {
	f := newSessionFixture(t)

	_, _, err := f.manager.Login(context.Background(), "alice@x.com", "wrong", domain.RoleEmployee, false, "")
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newSessionFixture(t)

	_, _, err := f.manager.Login(context.Background(), "nobody@x.com", "secret1", domain.RoleEmployee, false, "")
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestLoginInactiveEmployee(t *testing.T) {
	f := newSessionFixture(t)

	// Correct password does not matter: a deactivated employee can never log in.
	_, _, err := f.manager.Login(context.Background(), "bob@x.com", "secret1", domain.RoleEmployee, false, "")
	assert.Equal(t, "INACTIVE_PRINCIPAL", domainCode(t, err))
}

func TestLoginAdminSuccess(t *testing.T) {
	f := newSessionFixture(t)

	principal, session, err := f.manager.Login(context.Background(), "root@x.com", "secret1", domain.RoleAdmin, false, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, principal.Role)
	assert.False(t, session.Permanent)
	assert.Equal(t, f.now.Add(time.Hour), session.ExpiresAt)
}

func TestLoginRoleScopedLookup(t *testing.T) {
	f := newSessionFixture(t)

	// An employee email presented on the admin login path never resolves.
	_, _, err := f.manager.Login(context.Background(), "alice@x.com", "secret1", domain.RoleAdmin, false, "")
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestLoginReplacesPriorSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, first, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	_, second, err := f.manager.Login(ctx, "root@x.com", "secret1", domain.RoleAdmin, true, first.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, _, err = f.manager.Resolve(ctx, first.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))

	resolved, _, err := f.manager.Resolve(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, resolved.Role)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, session, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	require.NoError(t, f.manager.Destroy(ctx, session.ID))

	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))
}

func TestSlidingExpirationForPermanentSessions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, session, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	// Each touch inside the window pushes the expiry out again.
	for i := 0; i < 4; i++ {
		f.now = f.now.Add(6 * 24 * time.Hour)
		_, touched, err := f.manager.Resolve(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, f.now.Add(7*24*time.Hour), touched.ExpiresAt)
	}

	// Left untouched past the window, the session dies.
	f.now = f.now.Add(8 * 24 * time.Hour)
	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))
}

func TestNonPermanentSessionDoesNotSlide(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, session, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, false, "")
	require.NoError(t, err)

	f.now = f.now.Add(30 * time.Minute)
	_, touched, err := f.manager.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ExpiresAt, touched.ExpiresAt)

	f.now = f.now.Add(31 * time.Minute)
	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))
}

func TestResolveDeactivatedEmployeeClearsSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, session, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	f.employees.employees["alice@x.com"].Active = false

	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))

	// The session is gone even if the account is reactivated afterwards.
	f.employees.employees["alice@x.com"].Active = true
	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))
}

func TestResolveDeletedPrincipalClearsSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, session, err := f.manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	delete(f.employees.employees, "alice@x.com")

	_, _, err = f.manager.Resolve(ctx, session.ID)
	assert.Equal(t, "SESSION_EXPIRED", domainCode(t, err))
}

type faultyEmployees struct {
	*stubEmployees
	lookupErr error
	stampErr  error
}

func (s *faultyEmployees) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.stubEmployees.GetByID(ctx, id)
}

func (s *faultyEmployees) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	if s.stampErr != nil {
		return s.stampErr
	}
	return s.stubEmployees.StampLastLogin(ctx, id, at)
}

type recordingStore struct {
	cache.Store
	sets    []string
	deletes []string
}

func (s *recordingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.sets = append(s.sets, key)
	return s.Store.Set(ctx, key, value, ttl)
}

func (s *recordingStore) Delete(ctx context.Context, key string) (bool, error) {
	s.deletes = append(s.deletes, key)
	return s.Store.Delete(ctx, key)
}

func TestResolveKeepsSessionOnDirectoryFault(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	employees := &faultyEmployees{stubEmployees: f.employees}
	manager := NewSessionManager(f.store, employees, f.admins, 7*24*time.Hour, time.Hour).
		WithClock(func() time.Time { return f.now })

	_, session, err := manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, true, "")
	require.NoError(t, err)

	employees.lookupErr = errors.New("connection refused")
	_, _, err = manager.Resolve(ctx, session.ID)
	require.Error(t, err)
	var de *apperrors.DomainError
	assert.False(t, errors.As(err, &de), "an infrastructure fault must pass through untranslated")

	// Once the fault clears the same session still works.
	employees.lookupErr = nil
	principal, _, err := manager.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", principal.ID())
}

func TestLoginStampFailureLeavesNoSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	store := &recordingStore{Store: f.store}
	employees := &faultyEmployees{stubEmployees: f.employees, stampErr: errors.New("connection refused")}
	manager := NewSessionManager(store, employees, f.admins, 7*24*time.Hour, time.Hour).
		WithClock(func() time.Time { return f.now })

	_, _, err := manager.Login(ctx, "alice@x.com", "secret1", domain.RoleEmployee, false, "")
	require.Error(t, err)

	require.NotEmpty(t, store.sets, "the session write must have happened before the stamp")
	written := store.sets[len(store.sets)-1]
	assert.Contains(t, store.deletes, written, "the orphaned session must be cleaned up")
	_, err = f.store.Get(ctx, written)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
