package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/trebol-admin/internal/application/catalog"
	"github.com/jhoicas/trebol-admin/internal/application/report"
	"github.com/jhoicas/trebol-admin/internal/application/sale"
	"github.com/jhoicas/trebol-admin/internal/application/session"
	"github.com/jhoicas/trebol-admin/internal/domain/repository"
	"github.com/jhoicas/trebol-admin/internal/infrastructure/api"
	infrapdf "github.com/jhoicas/trebol-admin/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/trebol-admin/internal/infrastructure/redis"
	"github.com/jhoicas/trebol-admin/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/trebol-admin/internal/interfaces/http"
	"github.com/jhoicas/trebol-admin/pkg/config"
	"github.com/jhoicas/trebol-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando aplicación")

	ctx, cancelInit := context.WithCancel(context.Background())
	defer cancelInit()

	var store repository.TokenStore
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb := infraredis.NewClient(ctx, cfg.Redis, log)
		defer rdb.Close()
		store = infraredis.NewTokenStore(rdb, cfg.Session.Key)
	case config.StoreMemory:
		store = storage.NewMemoryTokenStore(nil)
	default:
		store = storage.NewFileTokenStore(cfg.Session.FilePath)
	}

	backend, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend")
	}

	// La sesión usa el cliente sin autorizar; el resto firma con el access token de la sesión.
	nav := httpRouter.NewNavRecorder()
	sessionMgr := session.NewManager(backend, store,
		session.WithNavigator(nav),
		session.WithRefreshInterval(cfg.Session.RefreshInterval),
		session.WithLogger(log),
	)
	defer sessionMgr.Close()
	client := backend.WithAuthorizer(sessionMgr)

	products := client.Products()
	loader := catalog.NewLoader(products, client.Clients(), log)
	tracker := sale.NewOutOfStockTracker(products, client, log)
	newComposer := func(snap *catalog.Snapshot) *sale.Composer {
		return sale.NewComposer(snap, client, sessionMgr,
			sale.WithOutOfStockTracker(tracker),
			sale.WithLogger(log),
		)
	}

	receipts := infrapdf.NewReceiptGenerator(infrapdf.Store{
		Name:    cfg.Receipt.StoreName,
		Address: cfg.Receipt.StoreAddress,
		Phone:   cfg.Receipt.StorePhone,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.API.Timeout * 3,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.DocsPath,
		Path:     "docs",
		Title:    "Joyería Trébol - Panel",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
			"session": sessionMgr.State().String(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Session:     sessionMgr,
		Nav:         nav,
		Sales:       client,
		Receipts:    receipts,
		Catalog:     loader,
		NewComposer: newComposer,
		Clients:     catalog.NewClientService(client.Clients(), client),
		Products:    catalog.NewProductService(products),
		Categories:  catalog.NewCategoryService(client.Categories()),
		Dashboard:   report.NewDashboardUseCase(client, log),
		OutOfStock:  report.NewOutOfStockUseCase(client),
	})

	// La sesión persistida se resuelve en segundo plano; mientras tanto las rutas protegidas responden 503.
	go func() {
		if err := sessionMgr.Initialize(ctx); err != nil {
			log.Error().Err(err).Msg("no se pudo resolver la sesión persistida")
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancelInit()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
