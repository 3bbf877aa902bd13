// Package report arma el panel principal y el reporte de productos agotados a partir de los
// agregados que calcula el backend.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// DashboardSource paneles agregados (reports/dashboard/<nombre>/). Lo implementa *api.Client.
type DashboardSource interface {
	Dashboard(ctx context.Context, name string) (json.RawMessage, error)
}

// DashboardUseCase genera el panel principal según el rol.
//
// Admin y gerente ven los siete paneles, pedidos en paralelo. El vendedor solo ve las ventas
// recientes; el resto queda con valores vacíos. Un panel que falla se reemplaza por su valor
// vacío y el resultado se marca como parcial.
type DashboardUseCase struct {
	src DashboardSource
	log *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(src DashboardSource, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{src: src, log: log.Component("dashboard")}
}

// panel nombre del endpoint y campo del DTO que llena.
type panel struct {
	name  string
	field func(*dto.DashboardDTO) *json.RawMessage
}

var panels = []panel{
	{dto.DashboardTotalInventory, func(d *dto.DashboardDTO) *json.RawMessage { return &d.TotalInventory }},
	{dto.DashboardDailySales, func(d *dto.DashboardDTO) *json.RawMessage { return &d.DailySales }},
	{dto.DashboardLowStock, func(d *dto.DashboardDTO) *json.RawMessage { return &d.LowStock }},
	{dto.DashboardSalesTrend, func(d *dto.DashboardDTO) *json.RawMessage { return &d.SalesTrend }},
	{dto.DashboardCategoryDistribution, func(d *dto.DashboardDTO) *json.RawMessage { return &d.CategoryDistribution }},
	{dto.DashboardTopProducts, func(d *dto.DashboardDTO) *json.RawMessage { return &d.TopProducts }},
	{dto.DashboardRecentSales, func(d *dto.DashboardDTO) *json.RawMessage { return &d.RecentSales }},
}

// panelsFor paneles visibles para el rol.
func panelsFor(role entity.Role) []panel {
	switch role {
	case entity.RoleAdmin, entity.RoleGerente:
		return panels
	default:
		return panels[len(panels)-1:]
	}
}

// GetDashboard nunca falla por un panel caído. Solo devuelve error cuando la sesión ya no es
// válida (domain.ErrNotAuthenticated), para que la capa HTTP pida un nuevo login.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, role entity.Role) (*dto.DashboardDTO, error) {
	out := dto.EmptyDashboard()
	wanted := panelsFor(role)

	var (
		mu       sync.Mutex
		unauthed bool
		g        errgroup.Group
	)
	for _, p := range wanted {
		g.Go(func() error {
			raw, err := uc.src.Dashboard(ctx, p.name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.log.Warn().Err(err).Str("panel", p.name).Msg("panel no disponible, se usa el valor vacío")
				out.Partial = true
				if errors.Is(err, domain.ErrNotAuthenticated) {
					unauthed = true
				}
				return nil
			}
			if len(raw) > 0 && string(raw) != "null" {
				*p.field(&out) = raw
			}
			return nil
		})
	}
	_ = g.Wait()

	if unauthed {
		return nil, domain.ErrNotAuthenticated
	}
	return &out, nil
}
