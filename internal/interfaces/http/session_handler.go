package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/menu"
)

// SessionService operaciones de sesión que expone la UI. Lo implementa *session.Manager.
type SessionService interface {
	SessionState
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
	Refresh(ctx context.Context) error
}

// SessionHandler login, logout, renovación y estado de la sesión.
type SessionHandler struct {
	svc SessionService
	nav *NavRecorder
}

// NewSessionHandler construye el handler.
func NewSessionHandler(svc SessionService, nav *NavRecorder) *SessionHandler {
	return &SessionHandler{svc: svc, nav: nav}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /app/session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return respondError(c, &domain.ValidationError{Fields: map[string][]string{
			"credenciales": {"usuario y contraseña son requeridos"},
		}})
	}
	if err := h.svc.Login(c.UserContext(), in.Username, in.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.snapshot())
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /app/session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.svc.Logout(c.UserContext())
	return c.JSON(h.snapshot())
}

// Refresh godoc
// @Summary      Renovar el par de tokens
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /app/session/refresh [post]
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	if err := h.svc.Refresh(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.snapshot())
}

// Get godoc
// @Summary      Estado de la sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /app/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.snapshot())
}

func (h *SessionHandler) snapshot() dto.SessionResponse {
	return dto.SessionResponse{
		State:    h.svc.State().String(),
		Loading:  h.svc.Loading(),
		User:     h.svc.CurrentUser(),
		Menu:     menu.VisibleFor(h.svc.Role()),
		Redirect: h.nav.Last(),
	}
}
