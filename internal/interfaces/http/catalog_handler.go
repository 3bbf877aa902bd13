package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
)

// CRUDService CRUD de un recurso del catálogo. Lo implementa *catalog.Service.
type CRUDService[T, In any] interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error)
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id int, in In) (*T, error)
	Delete(ctx context.Context, id int) error
}

// CatalogHandler expone el CRUD de clientes, productos o categorías.
type CatalogHandler[T, In any] struct {
	svc CRUDService[T, In]
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler[T, In any](svc CRUDService[T, In]) *CatalogHandler[T, In] {
	return &CatalogHandler[T, In]{svc: svc}
}

// Register monta list, get, create, update y delete sobre r.
func (h *CatalogHandler[T, In]) Register(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// List godoc
// @Summary      Listar (paginado, con búsqueda)
// @Tags         catalogo
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        search  query  string  false  "Búsqueda"
// @Router       /app/clientes [get]
// @Router       /app/inventario/productos [get]
// @Router       /app/inventario/categorias [get]
func (h *CatalogHandler[T, In]) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	out, err := h.svc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(q.Page, out))
}

func (h *CatalogHandler[T, In]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler[T, In]) Create(c *fiber.Ctx) error {
	var in In
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler[T, In]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in In
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler[T, In]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
