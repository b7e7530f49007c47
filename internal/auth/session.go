package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/cache"
	"github.com/maxelo/hr-portal/internal/domain"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

const sessionIDBytes = 32

// Session is the server-side state behind a session cookie. The client only
// ever holds the opaque ID.
type Session struct {
	ID          string       `json:"-"`
	PrincipalID string       `json:"principal_id"`
	Role        domain.Role  `json:"role"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Permanent   bool         `json:"permanent"`
	IssuedAt    time.Time    `json:"issued_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// EmployeeDirectory is the slice of the employee repository the session
// manager needs.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

// AdminDirectory is the slice of the admin repository the session manager
// needs.
type AdminDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionManager creates, validates, and destroys server-side sessions.
type SessionManager struct {
	store     cache.Store
	employees EmployeeDirectory
	admins    AdminDirectory
	lifetime  time.Duration
	idleTTL   time.Duration
	now       func() time.Time
}

// NewSessionManager builds the manager. lifetime is the sliding window for
// permanent sessions, idleTTL the lifetime of plain ones.
func NewSessionManager(store cache.Store, employees EmployeeDirectory, admins AdminDirectory, lifetime, idleTTL time.Duration) *SessionManager {
	return &SessionManager{
		store:     store,
		employees: employees,
		admins:    admins,
		lifetime:  lifetime,
		idleTTL:   idleTTL,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Login authenticates the principal of the given role by case-folded email
// and establishes a brand-new session. Any prior session named by
// priorSessionID is destroyed first so state never leaks between users on a
// shared client.
func (m *SessionManager) Login(ctx context.Context, email, password string, role domain.Role, permanent bool, priorSessionID string) (*domain.Principal, *Session, error) {
	folded := strings.ToLower(strings.TrimSpace(email))

	var principal *domain.Principal
	switch role {
	case domain.RoleEmployee:
		employee, err := m.employees.GetByEmail(ctx, folded)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewInvalidCredentials()
			}
			return nil, nil, err
		}
		if !employee.Active {
			return nil, nil, apperrors.NewInactivePrincipal()
		}
		if !VerifyPassword(employee.PasswordHash, password) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		principal = &domain.Principal{Role: domain.RoleEmployee, Employee: employee}
	case domain.RoleAdmin:
		admin, err := m.admins.GetByEmail(ctx, folded)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewInvalidCredentials()
			}
			return nil, nil, err
		}
		if !VerifyPassword(admin.PasswordHash, password) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		principal = &domain.Principal{Role: domain.RoleAdmin, Admin: admin}
	default:
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	if priorSessionID != "" {
		_, _ = m.store.Delete(ctx, priorSessionID)
	}

	session, err := m.create(ctx, principal, permanent)
	if err != nil {
		return nil, nil, err
	}

	now := m.now()
	switch role {
	case domain.RoleEmployee:
		if err := m.employees.StampLastLogin(ctx, principal.ID(), now); err != nil {
			_, _ = m.store.Delete(ctx, session.ID)
			return nil, nil, err
		}
		principal.Employee.LastLogin = &now
	case domain.RoleAdmin:
		if err := m.admins.StampLastLogin(ctx, principal.ID(), now); err != nil {
			_, _ = m.store.Delete(ctx, session.ID)
			return nil, nil, err
		}
		principal.Admin.LastLogin = &now
	}

	return principal, session, nil
}

// Resolve validates a session ID and re-resolves its principal. A missing,
// expired, or orphaned session (principal deleted or deactivated since
// login) is destroyed and reported as expired; callers treat that as
// anonymous. Permanent sessions get their expiry slid forward.
func (m *SessionManager) Resolve(ctx context.Context, sessionID string) (*domain.Principal, *Session, error) {
	if sessionID == "" {
		return nil, nil, apperrors.NewSessionExpired()
	}

	raw, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil, apperrors.NewSessionExpired()
		}
		return nil, nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		_, _ = m.store.Delete(ctx, sessionID)
		return nil, nil, apperrors.NewSessionExpired()
	}
	session.ID = sessionID

	now := m.now()
	if !now.Before(session.ExpiresAt) {
		_, _ = m.store.Delete(ctx, sessionID)
		return nil, nil, apperrors.NewSessionExpired()
	}

	principal, err := m.resolvePrincipal(ctx, &session)
	if err != nil {
		// Only a dead session (principal gone, deactivated, unknown role)
		// is destroyed. A failing directory lookup must leave the session
		// intact so the caller can retry once the fault clears.
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "SESSION_EXPIRED" {
			_, _ = m.store.Delete(ctx, sessionID)
		}
		return nil, nil, err
	}

	if session.Permanent {
		// Sliding expiration; re-touching an unexpired session only moves
		// the expiry stamp.
		session.ExpiresAt = now.Add(m.lifetime)
		if err := m.write(ctx, &session, m.lifetime); err != nil {
			return nil, nil, err
		}
	}

	return principal, &session, nil
}

// Destroy discards all session state unconditionally.
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	_, err := m.store.Delete(ctx, sessionID)
	return err
}

func (m *SessionManager) resolvePrincipal(ctx context.Context, session *Session) (*domain.Principal, error) {
	switch session.Role {
	case domain.RoleEmployee:
		employee, err := m.employees.GetByID(ctx, session.PrincipalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewSessionExpired()
			}
			return nil, err
		}
		if !employee.Active {
			return nil, apperrors.NewSessionExpired()
		}
		return &domain.Principal{Role: domain.RoleEmployee, Employee: employee}, nil
	case domain.RoleAdmin:
		admin, err := m.admins.GetByID(ctx, session.PrincipalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewSessionExpired()
			}
			return nil, err
		}
		return &domain.Principal{Role: domain.RoleAdmin, Admin: admin}, nil
	default:
		return nil, apperrors.NewSessionExpired()
	}
}

func (m *SessionManager) create(ctx context.Context, principal *domain.Principal, permanent bool) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	ttl := m.idleTTL
	if permanent {
		ttl = m.lifetime
	}

	now := m.now()
	session := &Session{
		ID:          id,
		PrincipalID: principal.ID(),
		Role:        principal.Role,
		Name:        principal.DisplayName(),
		Email:       principal.Email(),
		Permanent:   permanent,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := m.write(ctx, session, ttl); err != nil {
		return nil, err
	}
	return session, nil
}

func (m *SessionManager) write(ctx context.Context, session *Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, session.ID, raw, ttl)
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
