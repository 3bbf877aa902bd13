package sale

import (
	"context"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// ProductLister lista el inventario vigente.
type ProductLister interface {
	ListAll(ctx context.Context) ([]entity.Product, error)
}

// OutOfStockRegistrar registra productos agotados. Lo implementa *api.Client.
type OutOfStockRegistrar interface {
	RegisterOutOfStock(ctx context.Context, in dto.RegisterOutOfStockRequest) error
}

// OutOfStockTracker registra en productos-agotados/ los productos que una venta dejó sin stock.
type OutOfStockTracker struct {
	products  ProductLister
	registrar OutOfStockRegistrar
	log       *logger.Logger
}

// NewOutOfStockTracker construye el tracker.
func NewOutOfStockTracker(products ProductLister, registrar OutOfStockRegistrar, log *logger.Logger) *OutOfStockTracker {
	if log == nil {
		log = logger.Nop()
	}
	return &OutOfStockTracker{products: products, registrar: registrar, log: log.Component("agotados")}
}

// Register vuelve a consultar el inventario y registra cada producto vendido que quedó en 0.
// La venta ya fue aceptada: los errores se registran en el log y no se devuelven. Un 400 indica
// que el producto ya estaba registrado como agotado.
func (t *OutOfStockTracker) Register(ctx context.Context, detalles []dto.SaleDetailRequest) int {
	current, err := t.products.ListAll(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("no se pudo verificar el stock tras la venta")
		return 0
	}
	byID := make(map[int]entity.Product, len(current))
	for _, p := range current {
		byID[p.ID] = p
	}

	registered := 0
	for _, d := range detalles {
		p, ok := byID[d.ProductoID]
		if !ok || p.CantidadDisponible > 0 {
			continue
		}
		err := t.registrar.RegisterOutOfStock(ctx, dto.RegisterOutOfStockRequest{
			ProductoID:      p.ID,
			CantidadInicial: p.CantidadDisponible + d.Cantidad,
			CantidadVendida: d.Cantidad,
		})
		if err != nil {
			t.log.Debug().Err(err).Int("producto_id", p.ID).Msg("producto agotado no registrado")
			continue
		}
		registered++
		t.log.Info().Int("producto_id", p.ID).Str("nombre", p.Nombre).Msg("producto agotado registrado")
	}
	return registered
}
