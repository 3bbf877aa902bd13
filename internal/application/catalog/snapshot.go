// Package catalog obtiene el catálogo (productos y clientes) del backend y expone el CRUD
// de clientes, productos y categorías.
package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

// Store acceso CRUD a un recurso del backend. Lo implementa api.Resource[T].
type Store[T any] interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error)
	ListAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, in any) (*T, error)
	Update(ctx context.Context, id int, in any) (*T, error)
	Delete(ctx context.Context, id int) error
}

// Snapshot copia de solo lectura del catálogo tomada al iniciar una venta.
type Snapshot struct {
	Products []entity.Product
	Clients  []entity.Client
	LoadedAt time.Time
}

// Product busca un producto por ID.
func (s *Snapshot) Product(id int) (entity.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Client busca un cliente por ID.
func (s *Snapshot) Client(id int) (entity.Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Client{}, false
}

// Loader arma snapshots del catálogo.
type Loader struct {
	products Store[entity.Product]
	clients  Store[entity.Client]
	log      *logger.Logger
	now      func() time.Time
}

// NewLoader construye el loader.
func NewLoader(products Store[entity.Product], clients Store[entity.Client], log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{products: products, clients: clients, log: log.Component("catalog"), now: time.Now}
}

// Load trae productos y clientes en paralelo (todas las páginas). Falla si cualquiera de los dos falla.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := l.products.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("catalog: productos: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		clients, err := l.clients.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("catalog: clientes: %w", err)
		}
		snap.Clients = clients
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.LoadedAt = l.now()
	l.log.Debug().Int("products", len(snap.Products)).Int("clients", len(snap.Clients)).Msg("catálogo cargado")
	return &snap, nil
}
