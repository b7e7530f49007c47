package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/cache"
	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/events"
	"github.com/maxelo/hr-portal/internal/observability"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

const resetTokenBytes = 32

// resetToken is the stored payload behind an issued token. The entry's
// logical expiry lives in the payload; the store TTL is set longer so an
// out-of-date token is still present to answer with TOKEN_EXPIRED instead
// of silently vanishing.
type resetToken struct {
	Email       string      `json:"email"`
	PrincipalID string      `json:"principal_id"`
	Role        domain.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// AuthService coordinates password recovery and password/profile changes.
// Login and logout live on auth.SessionManager.
type AuthService struct {
	employees  repository.EmployeeRepository
	admins     repository.AdminRepository
	tokens     cache.Store
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
	minPwLen   int
	now        func() time.Time
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	AdminRepo    repository.AdminRepository
	TokenStore   cache.Store
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		employees:  deps.EmployeeRepo,
		admins:     deps.AdminRepo,
		tokens:     deps.TokenStore,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.PasswordResetTTL,
		minPwLen:   cfg.PasswordMinLength,
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// IssueResetToken starts password recovery. Employees must present their
// employee number alongside the email; admins are matched by email alone.
// The caller-visible outcome is identical whether or not an account matched,
// so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) IssueResetToken(ctx context.Context, email, employeeNumber string) error {
	folded := strings.ToLower(strings.TrimSpace(email))

	if employeeNumber != "" {
		employee, err := s.employees.GetByEmail(ctx, folded)
		if err == nil && employee.Active && employee.ID == employeeNumber {
			return s.issue(ctx, folded, employee.ID, domain.RoleEmployee)
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInternalError(err)
		}
	}

	admin, err := s.admins.GetByEmail(ctx, folded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // no match: same answer as success
		}
		return apperrors.NewInternalError(err)
	}
	return s.issue(ctx, folded, admin.ID, domain.RoleAdmin)
}

func (s *AuthService) issue(ctx context.Context, email, principalID string, role domain.Role) error {
	token, err := newResetTokenString()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	payload := resetToken{
		Email:       email,
		PrincipalID: principalID,
		Role:        role,
		ExpiresAt:   s.now().Add(s.resetTTL),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	// Keep the entry around past logical expiry so late redeems are told
	// the token expired rather than that it never existed.
	if err := s.tokens.Set(ctx, token, raw, 2*s.resetTTL); err != nil {
		return apperrors.NewInternalError(err)
	}

	observability.ResetTokensIssuedTotal.Inc()

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordResetRequested,
			Actor:     events.Actor{Role: role, ID: principalID},
			Timestamp: s.now(),
			Payload:   events.PasswordResetRequestedPayload{Email: email, Role: role, Token: token},
		})
	}
	return nil
}

// RedeemResetToken finishes password recovery. Tokens are single-use: the
// winning redeem (and any terminal failure such as expiry) removes the
// token, while caller-side validation failures leave it intact for a retry.
func (s *AuthService) RedeemResetToken(ctx context.Context, token, newPassword, confirmPassword string) error {
	raw, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			observability.ResetRedemptionsTotal.WithLabelValues("invalid").Inc()
			return apperrors.NewInvalidToken()
		}
		return apperrors.NewInternalError(err)
	}

	var payload resetToken
	if err := json.Unmarshal(raw, &payload); err != nil {
		_, _ = s.tokens.Delete(ctx, token)
		observability.ResetRedemptionsTotal.WithLabelValues("invalid").Inc()
		return apperrors.NewInvalidToken()
	}

	if !s.now().Before(payload.ExpiresAt) {
		_, _ = s.tokens.Delete(ctx, token)
		observability.ResetRedemptionsTotal.WithLabelValues("expired").Inc()
		return apperrors.NewTokenExpired()
	}

	if err := s.checkPasswordPolicy(newPassword, confirmPassword); err != nil {
		observability.ResetRedemptionsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	// Claim the token before touching the credential so concurrent redeems
	// of the same token produce exactly one winner.
	claimed, err := s.tokens.Delete(ctx, token)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !claimed {
		observability.ResetRedemptionsTotal.WithLabelValues("invalid").Inc()
		return apperrors.NewInvalidToken()
	}

	if err := s.applyNewPassword(ctx, payload, newPassword); err != nil {
		return err
	}

	observability.ResetRedemptionsTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *AuthService) applyNewPassword(ctx context.Context, payload resetToken, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	switch payload.Role {
	case domain.RoleEmployee:
		employee, err := s.employees.GetByID(ctx, payload.PrincipalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewInvalidToken()
			}
			return apperrors.NewInternalError(err)
		}
		// The address may have changed since issuance; a stale token must
		// not reset the new address's credential.
		if employee.Email != payload.Email {
			return apperrors.NewInvalidToken()
		}
		employee.PasswordHash = hash
		if err := s.employees.Update(ctx, employee); err != nil {
			return apperrors.NewInternalError(err)
		}
	case domain.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, payload.PrincipalID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewInvalidToken()
			}
			return apperrors.NewInternalError(err)
		}
		if admin.Email != payload.Email {
			return apperrors.NewInvalidToken()
		}
		admin.PasswordHash = hash
		if err := s.admins.Update(ctx, admin); err != nil {
			return apperrors.NewInternalError(err)
		}
	default:
		return apperrors.NewInvalidToken()
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, principal *domain.Principal, currentPassword, newPassword, confirmPassword string) error {
	if err := s.checkPasswordPolicy(newPassword, confirmPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	switch principal.Role {
	case domain.RoleEmployee:
		if !auth.VerifyPassword(principal.Employee.PasswordHash, currentPassword) {
			return apperrors.NewInvalidCredentials()
		}
		principal.Employee.PasswordHash = hash
		if err := s.employees.Update(ctx, principal.Employee); err != nil {
			return apperrors.NewInternalError(err)
		}
	case domain.RoleAdmin:
		if !auth.VerifyPassword(principal.Admin.PasswordHash, currentPassword) {
			return apperrors.NewInvalidCredentials()
		}
		principal.Admin.PasswordHash = hash
		if err := s.admins.Update(ctx, principal.Admin); err != nil {
			return apperrors.NewInternalError(err)
		}
	default:
		return apperrors.NewInvalidCredentials()
	}
	return nil
}

// ProfileUpdate carries optional profile changes; empty fields are kept.
type ProfileUpdate struct {
	Name            string
	Phone           string
	Department      string
	Position        string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfile applies profile changes for the logged-in principal.
func (s *AuthService) UpdateProfile(ctx context.Context, principal *domain.Principal, update ProfileUpdate) error {
	if update.NewPassword != "" {
		if err := s.checkPasswordPolicy(update.NewPassword, update.ConfirmPassword); err != nil {
			return err
		}
	}

	switch principal.Role {
	case domain.RoleEmployee:
		employee := principal.Employee
		if update.Name != "" {
			employee.Name = update.Name
		}
		if update.Phone != "" {
			employee.Phone = update.Phone
		}
		if update.Department != "" {
			employee.Department = update.Department
		}
		if update.Position != "" {
			employee.Position = update.Position
		}
		if update.NewPassword != "" {
			hash, err := auth.HashPassword(update.NewPassword, s.bcryptCost)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			employee.PasswordHash = hash
		}
		if err := s.employees.Update(ctx, employee); err != nil {
			return apperrors.NewInternalError(err)
		}
	case domain.RoleAdmin:
		admin := principal.Admin
		if update.Name != "" {
			admin.Name = update.Name
		}
		if update.NewPassword != "" {
			hash, err := auth.HashPassword(update.NewPassword, s.bcryptCost)
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			admin.PasswordHash = hash
		}
		if err := s.admins.Update(ctx, admin); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	return nil
}

func (s *AuthService) checkPasswordPolicy(password, confirm string) error {
	minLen := s.minPwLen
	if minLen <= 0 {
		minLen = 6
	}
	if len(password) < minLen {
		return apperrors.NewPasswordPolicyViolation()
	}
	if confirm != "" && confirm != password {
		return apperrors.NewPasswordMismatch()
	}
	return nil
}

func newResetTokenString() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
