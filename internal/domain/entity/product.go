package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario tal como lo expone inventario/products/.
// CantidadDisponible es el stock vigente al momento de la consulta.
type Product struct {
	ID                 int             `json:"id"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	Categoria          int             `json:"categoria"`
	Precio             decimal.Decimal `json:"precio"`
	CantidadDisponible int             `json:"cantidad_disponible"`
	Estado             bool            `json:"estado"`
	CreatedAt          time.Time       `json:"created_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at,omitempty"`
}

// IDString devuelve el ID como texto (búsqueda por ID en el buscador de productos).
func (p Product) IDString() string {
	return strconv.Itoa(p.ID)
}

// InStock indica si queda al menos una unidad disponible.
func (p Product) InStock() bool {
	return p.CantidadDisponible > 0
}
