package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// Recursos CRUD del backend.
const (
	PathClients    = "clients/"
	PathProducts   = "inventario/products/"
	PathCategories = "inventario/categories/"
	PathSales      = "sales/"
	PathOutOfStock = "productos-agotados/"

	pathOutOfStockPDF = "productos-agotados/generar-reporte-pdf/"
	pathDashboard     = "reports/dashboard/"
)

// Resource acceso CRUD genérico a un recurso DRF (list/retrieve/create/update/destroy).
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource construye el acceso al recurso path (ej: "clients/").
func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{c: c, path: path}
}

// Clients recurso clients/.
func (c *Client) Clients() Resource[entity.Client] { return NewResource[entity.Client](c, PathClients) }

// Products recurso inventario/products/.
func (c *Client) Products() Resource[entity.Product] {
	return NewResource[entity.Product](c, PathProducts)
}

// Categories recurso inventario/categories/.
func (c *Client) Categories() Resource[entity.Category] {
	return NewResource[entity.Category](c, PathCategories)
}

func (r Resource[T]) itemPath(id int) string {
	return r.path + strconv.Itoa(id) + "/"
}

// List devuelve una página. Acepta respuestas paginadas y arreglos planos.
func (r Resource[T]) List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error) {
	var raw json.RawMessage
	if err := r.c.call(ctx, http.MethodGet, r.path, q.Values(), nil, &raw); err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}

// Get obtiene un elemento por ID.
func (r Resource[T]) Get(ctx context.Context, id int) (*T, error) {
	var out T
	if err := r.c.call(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea un elemento. in es el cuerpo tal cual lo espera el backend.
func (r Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	var out T
	if err := r.c.call(ctx, http.MethodPost, r.path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update reemplaza un elemento (PUT).
func (r Resource[T]) Update(ctx context.Context, id int, in any) (*T, error) {
	var out T
	if err := r.c.call(ctx, http.MethodPut, r.itemPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un elemento.
func (r Resource[T]) Delete(ctx context.Context, id int) error {
	return r.c.call(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func decodePage[T any](raw json.RawMessage) (*dto.Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("api: decodificar listado: %w", err)
		}
		return &dto.Page[T]{Count: len(items), Results: items}, nil
	}
	var page dto.Page[T]
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("api: decodificar página: %w", err)
		}
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}

// ListAll recorre todas las páginas siguiendo "next" hasta agotar el listado.
func (r Resource[T]) ListAll(ctx context.Context) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		p, err := r.List(ctx, dto.ListQuery{Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if p.Next == nil || len(p.Results) == 0 {
			return all, nil
		}
	}
}

// CheckClientUniqueness valida en el backend que el valor de field (ci, telefono) no esté en uso.
// excludeID > 0 excluye al cliente que se está editando. Devuelve *domain.ValidationError si ya existe.
func (c *Client) CheckClientUniqueness(ctx context.Context, field, value string, excludeID int) error {
	q := url.Values{}
	q.Set(field, value)
	if excludeID > 0 {
		q.Set("client_id", strconv.Itoa(excludeID))
	}
	return c.call(ctx, http.MethodGet, PathClients+"check_uniqueness/", q, nil, nil)
}

// ListSales página de ventas.
func (c *Client) ListSales(ctx context.Context, page int) (*dto.Page[entity.Sale], error) {
	return NewResource[entity.Sale](c, PathSales).List(ctx, dto.ListQuery{Page: page})
}

// GetSale detalle de una venta.
func (c *Client) GetSale(ctx context.Context, id int) (*entity.Sale, error) {
	return NewResource[entity.Sale](c, PathSales).Get(ctx, id)
}

// CreateSale registra una venta. Errores de validación llegan como *domain.ValidationError.
func (c *Client) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	return NewResource[entity.Sale](c, PathSales).Create(ctx, in)
}

// Dashboard obtiene un panel agregado (ver constantes dto.Dashboard*) como JSON opaco.
func (c *Client) Dashboard(ctx context.Context, name string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, pathDashboard+name+"/", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListOutOfStock registros de productos agotados (paginados o no).
func (c *Client) ListOutOfStock(ctx context.Context) ([]entity.OutOfStock, error) {
	p, err := NewResource[entity.OutOfStock](c, PathOutOfStock).List(ctx, dto.ListQuery{})
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// RegisterOutOfStock registra que un producto se agotó.
func (c *Client) RegisterOutOfStock(ctx context.Context, in dto.RegisterOutOfStockRequest) error {
	return c.call(ctx, http.MethodPost, PathOutOfStock, nil, in, nil)
}

// OutOfStockPDF descarga el reporte PDF de productos agotados.
func (c *Client) OutOfStockPDF(ctx context.Context) ([]byte, error) {
	r := request{method: http.MethodGet, path: pathOutOfStockPDF, accept: "application/pdf"}
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(r, resp); err != nil {
		return nil, err
	}
	return resp.body, nil
}
