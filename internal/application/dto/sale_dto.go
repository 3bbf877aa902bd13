package dto

import "github.com/shopspring/decimal"

// CreateSaleRequest body para POST sales/.
type CreateSaleRequest struct {
	ClienteID int                 `json:"cliente_id"`
	Detalles  []SaleDetailRequest `json:"detalles"`
	Total     decimal.Decimal     `json:"total"`
}

// SaleDetailRequest línea de la venta (producto, cantidad, precio unitario, subtotal).
type SaleDetailRequest struct {
	ProductoID     int             `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// RegisterOutOfStockRequest body para POST productos-agotados/.
type RegisterOutOfStockRequest struct {
	ProductoID      int `json:"producto_id"`
	CantidadInicial int `json:"cantidad_inicial"`
	CantidadVendida int `json:"cantidad_vendida"`
}

// DraftLineResponse línea del borrador para la UI; los montos formateados ya vienen redondeados.
type DraftLineResponse struct {
	ProductID          int             `json:"product_id"`
	Nombre             string          `json:"nombre"`
	Cantidad           int             `json:"cantidad"`
	CantidadDisponible int             `json:"cantidad_disponible"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	PrecioFormateado   string          `json:"precio_formateado"`
	SubtotalFormateado string          `json:"subtotal_formateado"`
}

// DraftResponse borrador de venta completo.
type DraftResponse struct {
	ClienteID       *int                `json:"cliente_id"`
	Lineas          []DraftLineResponse `json:"lineas"`
	Total           decimal.Decimal     `json:"total"`
	TotalFormateado string              `json:"total_formateado"`
}

// AddLineRequest body para agregar una línea. Si ProductoID es 0 se resuelve por Termino
// (nombre exacto o ID), como cuando el operador escribe el producto sin elegir sugerencia.
type AddLineRequest struct {
	ProductoID int    `json:"producto_id"`
	Termino    string `json:"termino"`
	Cantidad   int    `json:"cantidad"`
}

// AdjustLineRequest body para +/- sobre una línea.
type AdjustLineRequest struct {
	Delta int `json:"delta"`
}

// SelectClientRequest body para elegir cliente.
type SelectClientRequest struct {
	ClienteID int `json:"cliente_id"`
}

// ProductSuggestion sugerencia del buscador de productos.
type ProductSuggestion struct {
	ID                 int    `json:"id"`
	Nombre             string `json:"nombre"`
	PrecioFormateado   string `json:"precio_formateado"`
	CantidadDisponible int    `json:"cantidad_disponible"`
}
