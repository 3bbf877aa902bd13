package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada (sales/ y sales/{id}/).
// Total y MontoTotal los calcula el backend.
type Sale struct {
	ID         int             `json:"id"`
	Cliente    *Client         `json:"cliente,omitempty"`
	Vendedor   string          `json:"vendedor,omitempty"`
	FechaVenta time.Time       `json:"fecha_venta"`
	Total      decimal.Decimal `json:"total"`
	MontoTotal decimal.Decimal `json:"monto_total"`
	Detalles   []SaleDetail    `json:"detalles"`
}

// SaleDetail línea de detalle de una venta.
type SaleDetail struct {
	Producto       *Product        `json:"producto,omitempty"`
	ProductoID     int             `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// ProductName nombre del producto; el backend lo envía anidado o plano según el endpoint.
func (d SaleDetail) ProductName() string {
	if d.Producto != nil && d.Producto.Nombre != "" {
		return d.Producto.Nombre
	}
	return d.ProductoNombre
}

// SellerName vendedor o texto por defecto si el backend no lo informa.
func (s Sale) SellerName() string {
	if s.Vendedor == "" {
		return "Vendedor no encontrado"
	}
	return s.Vendedor
}
