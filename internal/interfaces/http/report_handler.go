package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// DashboardService panel principal. Lo implementa *report.DashboardUseCase.
type DashboardService interface {
	GetDashboard(ctx context.Context, role entity.Role) (*dto.DashboardDTO, error)
}

// OutOfStockService reporte de agotados. Lo implementa *report.OutOfStockUseCase.
type OutOfStockService interface {
	Report(ctx context.Context) (*dto.OutOfStockReportDTO, error)
	PDF(ctx context.Context) ([]byte, error)
}

// ReportHandler panel y reportes.
type ReportHandler struct {
	dashboard  DashboardService
	outOfStock OutOfStockService
}

// NewReportHandler construye el handler.
func NewReportHandler(dashboard DashboardService, outOfStock OutOfStockService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, outOfStock: outOfStock}
}

// Dashboard godoc
// @Summary      Panel principal según el rol
// @Tags         reportes
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /app/panel [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetDashboard(c.UserContext(), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos agotados y tendencias
// @Tags         reportes
// @Produce      json
// @Success      200  {object}  dto.OutOfStockReportDTO
// @Router       /app/reportes/agotados [get]
func (h *ReportHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.outOfStock.Report(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OutOfStockPDF godoc
// @Summary      Reporte PDF de productos agotados
// @Tags         reportes
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /app/reportes/agotados/pdf [get]
func (h *ReportHandler) OutOfStockPDF(c *fiber.Ctx) error {
	doc, err := h.outOfStock.PDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, "reporte-productos-agotados.pdf", doc)
}
