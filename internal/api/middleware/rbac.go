package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

// RequireRoles enforces role-based access control on routes behind
// Authenticate. An empty role set admits any authenticated identity.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := Identity(c)
			if !ok {
				return domain.ErrTokenRequired
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[ident.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// CanActOn implements the ownership rule for user mutations: an ADMIN may
// act on any user, everyone else only on their own record.
func CanActOn(ident domain.AuthenticatedIdentity, targetID int64) error {
	if ident.Role == domain.RoleAdmin || ident.ID == targetID {
		return nil
	}
	return domain.ErrNotOwnAccount
}
