package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// RBAC restricts a route to the given roles. It must run after Auth, which
// stores the caller's role in the request context. Admins are implicitly
// allowed everywhere a developer or buyer is, through the role lists passed
// by the router.
func RBAC(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.ValidRole(role) || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
