package entity

import "time"

// OutOfStock registro de un producto que se agotó (productos-agotados/).
// TiempoVida son los días que tardó en agotarse; lo calcula el backend.
type OutOfStock struct {
	ID              int       `json:"id"`
	Producto        *Product  `json:"producto,omitempty"`
	Categoria       string    `json:"categoria,omitempty"`
	FechaInicio     time.Time `json:"fecha_inicio"`
	FechaAgotado    time.Time `json:"fecha_agotado"`
	CantidadInicial int       `json:"cantidad_inicial"`
	CantidadVendida int       `json:"cantidad_vendida"`
	TiempoVida      int       `json:"tiempo_vida"`
}
