package dto

import (
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/menu"
)

// LoginRequest credenciales para token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest cuerpo de token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// ProfileResponse respuesta de auth/profile/.
type ProfileResponse struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// SessionResponse estado de la sesión para la UI.
// Redirect es la última navegación pedida por la sesión ("/" tras login, "/login" tras logout).
type SessionResponse struct {
	State    string       `json:"state"`
	Loading  bool         `json:"loading"`
	User     *entity.User `json:"user"`
	Menu     []menu.Item  `json:"menu"`
	Redirect string       `json:"redirect,omitempty"`
}
