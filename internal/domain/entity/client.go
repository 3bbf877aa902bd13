package entity

import (
	"fmt"
	"time"
)

// Client representa un cliente de la joyería (clients/).
type Client struct {
	ID        int       `json:"id"`
	CI        string    `json:"ci"` // cédula de identidad, única
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DisplayName formato usado en el selector de clientes: "Nombre Apellido (CI: 123)".
func (c Client) DisplayName() string {
	return fmt.Sprintf("%s %s (CI: %s)", c.Nombre, c.Apellido, c.CI)
}
