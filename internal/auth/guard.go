package auth

import (
	"net/http"

	"github.com/maxelo/hr-portal/internal/domain"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// AnyRole passed as the required role admits every authenticated principal.
const AnyRole domain.Role = ""

// Authorize is the single authorization decision point. A nil principal is
// anonymous and gets an unauthorized error carrying the login entry point
// for the required role; an authenticated principal of the wrong role gets a
// role-mismatch error that does not enumerate which roles exist.
func Authorize(principal *domain.Principal, required domain.Role) error {
	if principal == nil {
		return apperrors.NewDomainError(
			"UNAUTHORIZED",
			"please log in to access this page",
			http.StatusUnauthorized,
			map[string]any{"login": loginPath(required)},
		)
	}
	if required != AnyRole && principal.Role != required {
		return apperrors.NewRoleMismatch()
	}
	return nil
}

func loginPath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/api/v1/auth/admin/login"
	}
	return "/api/v1/auth/employee/login"
}
