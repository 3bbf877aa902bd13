package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// recentWindow ventana de "agotados recientes".
const recentWindow = 7 * 24 * time.Hour

// OutOfStockSource registros y reporte PDF de productos agotados. Lo implementa *api.Client.
type OutOfStockSource interface {
	ListOutOfStock(ctx context.Context) ([]entity.OutOfStock, error)
	OutOfStockPDF(ctx context.Context) ([]byte, error)
}

// OutOfStockUseCase reporte de productos agotados.
type OutOfStockUseCase struct {
	src OutOfStockSource
	now func() time.Time
}

// NewOutOfStockUseCase construye el caso de uso.
func NewOutOfStockUseCase(src OutOfStockSource) *OutOfStockUseCase {
	return &OutOfStockUseCase{src: src, now: time.Now}
}

// Report listado más tendencias.
func (uc *OutOfStockUseCase) Report(ctx context.Context) (*dto.OutOfStockReportDTO, error) {
	items, err := uc.src.ListOutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.OutOfStock{}
	}
	return &dto.OutOfStockReportDTO{Productos: items, Tendencias: Trends(items, uc.now())}, nil
}

// PDF reporte generado por el backend, sin modificar.
func (uc *OutOfStockUseCase) PDF(ctx context.Context) ([]byte, error) {
	return uc.src.OutOfStockPDF(ctx)
}

// Trends calcula las métricas del reporte. Devuelve nil si no hay registros.
// El promedio de tiempo de vida ignora los registros sin tiempo (0); la categoría más
// frecuente resuelve empates a favor de la primera que aparece.
func Trends(items []entity.OutOfStock, now time.Time) *dto.OutOfStockTrendsDTO {
	if len(items) == 0 {
		return nil
	}
	var (
		lifeSum, lifeN int64
		soldSum        int64
		counts         = map[string]int{}
		order          []string
		recent         int
	)
	since := now.Add(-recentWindow)
	for _, it := range items {
		if it.TiempoVida > 0 {
			lifeSum += int64(it.TiempoVida)
			lifeN++
		}
		soldSum += int64(it.CantidadVendida)
		if _, seen := counts[it.Categoria]; !seen {
			order = append(order, it.Categoria)
		}
		counts[it.Categoria]++
		if !it.FechaAgotado.Before(since) {
			recent++
		}
	}

	top := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[top] {
			top = c
		}
	}
	if top == "" {
		top = "N/A"
	}

	return &dto.OutOfStockTrendsDTO{
		TotalProductos:          len(items),
		PromedioTiempoVida:      average(lifeSum, lifeN),
		PromedioCantidadVendida: average(soldSum, int64(len(items))),
		CategoriaMasFrecuente:   top,
		ProductosRecientes:      recent,
	}
}

func average(sum, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(n), 1)
}
