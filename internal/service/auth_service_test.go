package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/cache"
	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/events"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

type stubEmployeeStore struct {
	mu        sync.Mutex
	employees map[string]*domain.Employee
}

func (s *stubEmployeeStore) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *employee
	return &clone, nil
}

func (s *stubEmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, employee := range s.employees {
		if employee.Email == email {
			clone := *employee
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubEmployeeStore) Update(ctx context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *employee
	s.employees[employee.ID] = &clone
	return nil
}

func (s *stubEmployeeStore) Create(context.Context, *domain.Employee) error { return nil }
func (s *stubEmployeeStore) Delete(context.Context, string) error           { return nil }
func (s *stubEmployeeStore) List(context.Context) ([]domain.Employee, error) {
	return nil, nil
}
func (s *stubEmployeeStore) ListActive(context.Context) ([]domain.Employee, error) {
	return nil, nil
}
func (s *stubEmployeeStore) ListRecentLogins(context.Context, int) ([]domain.Employee, error) {
	return nil, nil
}
func (s *stubEmployeeStore) CountActive(context.Context) (int, error) { return 0, nil }
func (s *stubEmployeeStore) Count(context.Context) (int, error)       { return 0, nil }
func (s *stubEmployeeStore) StampLastLogin(context.Context, string, time.Time) error {
	return nil
}

type stubAdminStore struct {
	mu     sync.Mutex
	admins map[string]*domain.Admin
}

func (s *stubAdminStore) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *admin
	return &clone, nil
}

func (s *stubAdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, admin := range s.admins {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubAdminStore) Update(ctx context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *admin
	s.admins[admin.ID] = &clone
	return nil
}

func (s *stubAdminStore) Create(context.Context, *domain.Admin) error { return nil }
func (s *stubAdminStore) StampLastLogin(context.Context, string, time.Time) error {
	return nil
}

// captureDispatcher records published events so tests can observe issued
// tokens without reaching into the store.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}

type authFixture struct {
	service    *AuthService
	tokens     *cache.MemoryStore
	employees  *stubEmployeeStore
	admins     *stubAdminStore
	dispatcher *captureDispatcher
	clock      *time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	employees := &stubEmployeeStore{employees: map[string]*domain.Employee{
		"EMP-1": {ID: "EMP-1", Name: "Alice", Email: "alice@x.com", PasswordHash: hash, Active: true},
		"EMP-2": {ID: "EMP-2", Name: "Bob", Email: "bob@x.com", PasswordHash: hash, Active: false},
	}}
	admins := &stubAdminStore{admins: map[string]*domain.Admin{
		"ADM-1": {ID: "ADM-1", Name: "Root", Email: "root@x.com", PasswordHash: hash},
	}}

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &start
	now := func() time.Time { return *clock }

	tokens := cache.NewMemoryStore().WithClock(now)
	dispatcher := &captureDispatcher{}
	svc := NewAuthService(config.AuthConfig{
		BcryptCost:        bcrypt.MinCost,
		PasswordResetTTL:  time.Hour,
		PasswordMinLength: 6,
	}, AuthDependencies{
		EmployeeRepo: employees,
		AdminRepo:    admins,
		TokenStore:   tokens,
		Dispatcher:   dispatcher,
	}).WithClock(now)

	return &authFixture{service: svc, tokens: tokens, employees: employees, admins: admins, dispatcher: dispatcher, clock: clock}
}

// issueFor triggers recovery and returns the token carried by the published
// reset event.
func (f *authFixture) issueFor(t *testing.T, email, employeeNumber string) string {
	t.Helper()
	before := len(f.dispatcher.published())
	require.NoError(t, f.service.IssueResetToken(context.Background(), email, employeeNumber))
	published := f.dispatcher.published()
	require.Greater(t, len(published), before, "no token was issued")
	payload, ok := published[len(published)-1].Payload.(events.PasswordResetRequestedPayload)
	require.True(t, ok)
	return payload.Token
}

func TestIssueResetTokenEmployee(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "Alice@X.com", "EMP-1")
	assert.NotEmpty(t, token)
}

func TestIssueResetTokenSilentOnNoMatch(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.service.IssueResetToken(context.Background(), "nobody@x.com", "EMP-9"))
	assert.Empty(t, f.dispatcher.published(), "unknown account must not leave a token behind")
}

func TestIssueResetTokenWrongEmployeeNumber(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.service.IssueResetToken(context.Background(), "alice@x.com", "EMP-2"))
	assert.Empty(t, f.dispatcher.published())
}

func TestIssueResetTokenInactiveEmployee(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.service.IssueResetToken(context.Background(), "bob@x.com", "EMP-2"))
	assert.Empty(t, f.dispatcher.published())
}

func TestIssueResetTokenAdminByEmailOnly(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "root@x.com", "")
	assert.NotEmpty(t, token)
}

func TestRedeemResetTokenSuccess(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	err := f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret")
	require.NoError(t, err)

	employee, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(employee.PasswordHash, "newsecret"))
	assert.False(t, auth.VerifyPassword(employee.PasswordHash, "secret1"))
}

func TestRedeemResetTokenSecondUseFails(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	require.NoError(t, f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret"))

	err := f.service.RedeemResetToken(context.Background(), token, "othersecret", "othersecret")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestRedeemResetTokenUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.RedeemResetToken(context.Background(), "no-such-token", "newsecret", "newsecret")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestRedeemResetTokenExpiry(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	*f.clock = f.clock.Add(59 * time.Minute)
	require.NoError(t, f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret"))

	token = f.issueFor(t, "alice@x.com", "EMP-1")
	*f.clock = f.clock.Add(61 * time.Minute)
	err := f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret")
	assert.Equal(t, "TOKEN_EXPIRED", domainCode(t, err))

	// expiry consumed the token
	err = f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestRedeemResetTokenPolicyKeepsToken(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	err := f.service.RedeemResetToken(context.Background(), token, "short", "short")
	assert.Equal(t, "PASSWORD_POLICY_VIOLATION", domainCode(t, err))

	err = f.service.RedeemResetToken(context.Background(), token, "newsecret", "oops")
	assert.Equal(t, "PASSWORD_MISMATCH", domainCode(t, err))

	// still redeemable after the rejected attempts
	require.NoError(t, f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret"))
}

func TestRedeemResetTokenEmailChanged(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	employee, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	employee.Email = "alice.new@x.com"
	require.NoError(t, f.employees.Update(context.Background(), employee))

	err = f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))

	employee, err = f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(employee.PasswordHash, "secret1"), "stale token must not change the credential")
}

func TestRedeemResetTokenAdmin(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "root@x.com", "")

	require.NoError(t, f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret"))

	admin, err := f.admins.GetByID(context.Background(), "ADM-1")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(admin.PasswordHash, "newsecret"))
}

func TestRedeemResetTokenConcurrentSingleWinner(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issueFor(t, "alice@x.com", "EMP-1")

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.service.RedeemResetToken(context.Background(), token, "newsecret", "newsecret")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
		}
	}
	assert.Equal(t, 1, wins)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newAuthFixture(t)

	employee, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	principal := &domain.Principal{Role: domain.RoleEmployee, Employee: employee}

	err = f.service.ChangePassword(context.Background(), principal, "wrong", "newsecret", "newsecret")
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestChangePasswordSuccess(t *testing.T) {
	f := newAuthFixture(t)

	employee, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	principal := &domain.Principal{Role: domain.RoleEmployee, Employee: employee}

	require.NoError(t, f.service.ChangePassword(context.Background(), principal, "secret1", "newsecret", "newsecret"))

	stored, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "newsecret"))
}

func TestUpdateProfileKeepsEmptyFields(t *testing.T) {
	f := newAuthFixture(t)

	employee, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	employee.Department = "Engineering"
	require.NoError(t, f.employees.Update(context.Background(), employee))

	employee, err = f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	principal := &domain.Principal{Role: domain.RoleEmployee, Employee: employee}

	require.NoError(t, f.service.UpdateProfile(context.Background(), principal, ProfileUpdate{Phone: "555-0100"}))

	stored, err := f.employees.GetByID(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", stored.Phone)
	assert.Equal(t, "Engineering", stored.Department)
	assert.Equal(t, "Alice", stored.Name)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Code
}
