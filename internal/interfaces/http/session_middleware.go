package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/application/session"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/menu"
)

// LocalRole clave de Locals con el rol de la sesión activa.
const LocalRole = "role"

// SessionState vista de solo lectura de la sesión. Lo implementa *session.Manager.
type SessionState interface {
	Loading() bool
	State() session.State
	Role() entity.Role
	CurrentUser() *entity.User
}

// RequireSession bloquea las rutas protegidas hasta que la sesión esté resuelta.
//
// Comportamiento:
//   - 503 Service Unavailable → la sesión persistida todavía se está resolviendo.
//   - 401 Unauthorized → no hay sesión.
//   - En otro caso deja el rol en Locals y continúa.
func RequireSession(s SessionState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.Loading() {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_LOADING",
				Message: "la sesión se está resolviendo, intente nuevamente",
			})
		}
		if s.State() == session.StateAnonymous || s.CurrentUser() == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "NOT_AUTHENTICATED",
				Message: "no estás autenticado, inicia sesión nuevamente",
			})
		}
		c.Locals(LocalRole, s.Role())
		return c.Next()
	}
}

// RequireRoute autoriza según el menú: 403 si el rol no ve la sección de path.
// Debe usarse DESPUÉS de RequireSession.
func RequireRoute(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !menu.Allows(GetRole(c), path) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "tu rol no tiene acceso a " + path,
			})
		}
		return c.Next()
	}
}

// GetRole rol guardado por RequireSession; guest si no hay.
func GetRole(c *fiber.Ctx) entity.Role {
	if r, ok := c.Locals(LocalRole).(entity.Role); ok {
		return r
	}
	return entity.RoleGuest
}
