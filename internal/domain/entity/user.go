package entity

// Role rol del usuario autenticado. Conjunto cerrado: cualquier otro valor se trata como vendedor.
type Role string

// Roles válidos.
const (
	RoleAdmin    Role = "admin"
	RoleVendedor Role = "vendedor"
	RoleGerente  Role = "gerente"
	// RoleGuest no lo emite el backend; representa al visitante sin sesión en el menú.
	RoleGuest Role = "guest"
)

// ParseRole normaliza el rol devuelto por auth/profile/.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleVendedor, RoleGerente:
		return Role(s)
	default:
		return RoleVendedor
	}
}

// User identidad del usuario con sesión activa.
// Degraded es true cuando se reconstruyó solo decodificando el access token.
type User struct {
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	IsAdmin    bool   `json:"is_admin"`
	IsVendedor bool   `json:"is_vendedor"`
	IsGerente  bool   `json:"is_gerente"`
	Degraded   bool   `json:"degraded"`
}

// NewUser construye el usuario derivando los flags del rol.
func NewUser(username string, role Role) *User {
	return &User{
		Username:   username,
		Role:       role,
		IsAdmin:    role == RoleAdmin,
		IsVendedor: role == RoleVendedor,
		IsGerente:  role == RoleGerente,
	}
}
