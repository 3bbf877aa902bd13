package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/application/session"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Session     SessionService
	Nav         *NavRecorder
	Sales       SalesReader
	Receipts    ReceiptRenderer
	Catalog     SnapshotLoader
	NewComposer ComposerFactory
	Clients     CRUDService[entity.Client, dto.ClientInput]
	Products    CRUDService[entity.Product, dto.ProductInput]
	Categories  CRUDService[entity.Category, dto.CategoryInput]
	Dashboard   DashboardService
	OutOfStock  OutOfStockService
}

// Router registra las rutas que consume la UI bajo /app.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/app")

	// Sesión (público salvo refresh)
	sessionHandler := NewSessionHandler(deps.Session, deps.Nav)
	sess := api.Group("/session")
	sess.Get("/", sessionHandler.Get)
	sess.Post("/login", sessionHandler.Login)
	sess.Post("/logout", sessionHandler.Logout)
	sess.Post("/refresh", RequireSession(deps.Session), sessionHandler.Refresh)

	// Rutas protegidas (requieren sesión resuelta)
	protected := api.Group("/", RequireSession(deps.Session))

	// Panel
	reportHandler := NewReportHandler(deps.Dashboard, deps.OutOfStock)
	protected.Get("/panel", RequireRoute("/"), reportHandler.Dashboard)

	// Ventas: el borrador va antes de /:id
	drafts := NewDraftHandler(deps.Catalog, deps.NewComposer)
	deps.Nav.On(session.RouteLogin, drafts.Discard)

	ventas := protected.Group("/ventas", RequireRoute("/ventas"))
	borrador := ventas.Group("/borrador")
	borrador.Post("/", drafts.Start)
	borrador.Get("/", drafts.Get)
	borrador.Get("/productos", drafts.SearchProducts)
	borrador.Put("/cliente", drafts.SelectClient)
	borrador.Post("/lineas", drafts.AddLine)
	borrador.Patch("/lineas/:productId", drafts.AdjustLine)
	borrador.Delete("/lineas/:productId", drafts.RemoveLine)
	borrador.Post("/enviar", drafts.Submit)

	saleHandler := NewSaleHandler(deps.Sales, deps.Receipts)
	ventas.Get("/", saleHandler.List)
	ventas.Get("/:id", saleHandler.Get)
	ventas.Get("/:id/comprobante.pdf", saleHandler.Receipt)

	// Catálogo
	NewCatalogHandler(deps.Clients).Register(protected.Group("/clientes", RequireRoute("/clientes")))
	NewCatalogHandler(deps.Products).Register(
		protected.Group("/inventario/productos", RequireRoute("/inventario/productos")))
	NewCatalogHandler(deps.Categories).Register(
		protected.Group("/inventario/categorias", RequireRoute("/inventario/categorias")))

	// Reportes
	reportes := protected.Group("/reportes", RequireRoute("/reportes"))
	reportes.Get("/agotados", reportHandler.OutOfStock)
	reportes.Get("/agotados/pdf", reportHandler.OutOfStockPDF)
}
