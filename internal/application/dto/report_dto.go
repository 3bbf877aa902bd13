package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// Paneles agregados que calcula el backend (reports/dashboard/<nombre>/).
const (
	DashboardTotalInventory       = "total-inventory"
	DashboardDailySales           = "daily-sales"
	DashboardLowStock             = "low-stock"
	DashboardSalesTrend           = "sales-trend"
	DashboardCategoryDistribution = "category-distribution"
	DashboardTopProducts          = "top-products"
	DashboardRecentSales          = "recent-sales"
)

// DashboardDTO datos del panel principal. Son agregados del servidor que la UI solo muestra,
// por eso se transportan como JSON opaco.
type DashboardDTO struct {
	TotalInventory       json.RawMessage `json:"total_inventory"`
	DailySales           json.RawMessage `json:"daily_sales"`
	LowStock             json.RawMessage `json:"low_stock"`
	SalesTrend           json.RawMessage `json:"sales_trend"`
	CategoryDistribution json.RawMessage `json:"category_distribution"`
	TopProducts          json.RawMessage `json:"top_products"`
	RecentSales          json.RawMessage `json:"recent_sales"`
	Partial              bool            `json:"partial"` // true si algún panel se reemplazó por vacío
}

// EmptyDashboard valores por defecto cuando un panel no está disponible para el rol o falló.
func EmptyDashboard() DashboardDTO {
	return DashboardDTO{
		TotalInventory:       json.RawMessage(`{"total":0,"trend":0}`),
		DailySales:           json.RawMessage(`{"amount":0,"count":0,"trend":0}`),
		LowStock:             json.RawMessage(`{"products":[],"count":0}`),
		SalesTrend:           json.RawMessage(`{"data":[],"labels":[]}`),
		CategoryDistribution: json.RawMessage(`[]`),
		TopProducts:          json.RawMessage(`{"products":[],"quantities":[]}`),
		RecentSales:          json.RawMessage(`[]`),
	}
}

// OutOfStockTrendsDTO métricas calculadas sobre los registros de productos agotados.
type OutOfStockTrendsDTO struct {
	TotalProductos          int             `json:"total_productos"`
	PromedioTiempoVida      decimal.Decimal `json:"promedio_tiempo_vida"`      // días, 1 decimal
	PromedioCantidadVendida decimal.Decimal `json:"promedio_cantidad_vendida"` // 1 decimal
	CategoriaMasFrecuente   string          `json:"categoria_mas_frecuente"`
	ProductosRecientes      int             `json:"productos_recientes"` // agotados en los últimos 7 días
}

// OutOfStockReportDTO listado de productos agotados más sus tendencias (nil si no hay registros).
type OutOfStockReportDTO struct {
	Productos  []entity.OutOfStock  `json:"productos"`
	Tendencias *OutOfStockTrendsDTO `json:"tendencias"`
}
