package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// SalesReader ventas registradas. Lo implementa *api.Client.
type SalesReader interface {
	ListSales(ctx context.Context, page int) (*dto.Page[entity.Sale], error)
	GetSale(ctx context.Context, id int) (*entity.Sale, error)
}

// ReceiptRenderer genera el comprobante PDF. Lo implementa *pdf.ReceiptGenerator.
type ReceiptRenderer interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// SaleHandler historial de ventas y comprobantes.
type SaleHandler struct {
	sales    SalesReader
	receipts ReceiptRenderer
}

// NewSaleHandler construye el handler.
func NewSaleHandler(sales SalesReader, receipts ReceiptRenderer) *SaleHandler {
	return &SaleHandler{sales: sales, receipts: receipts}
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Param        page  query  int  false  "Página"  default(1)
// @Success      200   {object}  dto.ListResponse[entity.Sale]
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /app/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	out, err := h.sales.ListSales(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(page, out))
}

// Get godoc
// @Summary      Detalle de una venta
// @Tags         ventas
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  entity.Sale
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/ventas/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.sales.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una venta
// @Tags         ventas
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /app/ventas/{id}/comprobante.pdf [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.sales.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.receipts.GenerateReceipt(c.UserContext(), sale)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, fmt.Sprintf("comprobante-venta-%d.pdf", sale.ID), doc)
}

func sendPDF(c *fiber.Ctx, filename string, doc []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(doc)
}
