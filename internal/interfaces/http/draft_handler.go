package http

import (
	"context"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/catalog"
	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/application/sale"
	"github.com/jhoicas/trebol-admin/internal/domain"
)

// SnapshotLoader carga el catálogo con el que arranca cada venta. Lo implementa *catalog.Loader.
type SnapshotLoader interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// ComposerFactory construye el composer de una venta nueva sobre el catálogo cargado.
type ComposerFactory func(snapshot *catalog.Snapshot) *sale.Composer

// DraftHandler venta en curso. Hay un único borrador por proceso (un operador por BFF).
type DraftHandler struct {
	loader      SnapshotLoader
	newComposer ComposerFactory

	mu       sync.Mutex
	composer *sale.Composer
}

// NewDraftHandler construye el handler sin venta en curso.
func NewDraftHandler(loader SnapshotLoader, newComposer ComposerFactory) *DraftHandler {
	return &DraftHandler{loader: loader, newComposer: newComposer}
}

// Discard descarta la venta en curso (se engancha al logout).
func (h *DraftHandler) Discard() {
	h.mu.Lock()
	h.composer = nil
	h.mu.Unlock()
}

func (h *DraftHandler) current() (*sale.Composer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.composer == nil {
		return nil, errNoDraft
	}
	return h.composer, nil
}

func (h *DraftHandler) draft(c *fiber.Ctx, comp *sale.Composer) error {
	return c.JSON(comp.Draft().ToResponse())
}

// Start godoc
// @Summary      Iniciar una venta con el catálogo actual
// @Tags         borrador
// @Produce      json
// @Success      201  {object}  dto.DraftResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador [post]
func (h *DraftHandler) Start(c *fiber.Ctx) error {
	snap, err := h.loader.Load(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	comp := h.newComposer(snap)
	h.mu.Lock()
	h.composer = comp
	h.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(comp.Draft().ToResponse())
}

// Get godoc
// @Summary      Venta en curso
// @Tags         borrador
// @Produce      json
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	return h.draft(c, comp)
}

// SearchProducts godoc
// @Summary      Sugerencias de productos con stock
// @Tags         borrador
// @Produce      json
// @Param        q    query  string  false  "Nombre o ID"
// @Success      200  {array}  dto.ProductSuggestion
// @Router       /app/ventas/borrador/productos [get]
func (h *DraftHandler) SearchProducts(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale.Suggestions(comp.SearchProducts(c.Query("q"))))
}

// SelectClient godoc
// @Summary      Elegir el cliente de la venta
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectClientRequest  true  "Cliente"
// @Success      200   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador/cliente [put]
func (h *DraftHandler) SelectClient(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SelectClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := comp.SelectClient(in.ClienteID); err != nil {
		return respondError(c, err)
	}
	return h.draft(c, comp)
}

// AddLine godoc
// @Summary      Agregar un producto a la venta
// @Description  Si producto_id es 0 se busca por termino (nombre exacto o ID).
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddLineRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador/lineas [post]
func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductoID == 0 {
		p, ok := comp.FindProduct(strings.TrimSpace(in.Termino))
		if !ok {
			return respondError(c, domain.ErrNotFound)
		}
		in.ProductoID = p.ID
	}
	if err := comp.AddLine(in.ProductoID, in.Cantidad); err != nil {
		return respondError(c, err)
	}
	return h.draft(c, comp)
}

// AdjustLine godoc
// @Summary      Sumar o restar unidades a una línea
// @Tags         borrador
// @Accept       json
// @Produce      json
// @Param        productId  path  int                     true  "ID del producto"
// @Param        body       body  dto.AdjustLineRequest  true  "Delta"
// @Success      200        {object}  dto.DraftResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador/lineas/{productId} [patch]
func (h *DraftHandler) AdjustLine(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AdjustLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := comp.AdjustLineQuantity(id, in.Delta); err != nil {
		return respondError(c, err)
	}
	return h.draft(c, comp)
}

// RemoveLine godoc
// @Summary      Quitar una línea
// @Tags         borrador
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200        {object}  dto.DraftResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador/lineas/{productId} [delete]
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	if err := comp.RemoveLine(id); err != nil {
		return respondError(c, err)
	}
	return h.draft(c, comp)
}

// Submit godoc
// @Summary      Registrar la venta
// @Description  Si el backend la acepta el borrador queda vacío; si la rechaza queda intacto.
// @Tags         borrador
// @Produce      json
// @Success      201  {object}  entity.Sale
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /app/ventas/borrador/enviar [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	comp, err := h.current()
	if err != nil {
		return respondError(c, err)
	}
	out, err := comp.Submit(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
