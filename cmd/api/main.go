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

	_ "github.com/dcoral/gestock-api/docs"
	appanalytics "github.com/dcoral/gestock-api/internal/application/analytics"
	"github.com/dcoral/gestock-api/internal/application/auth"
	"github.com/dcoral/gestock-api/internal/application/billing"
	"github.com/dcoral/gestock-api/internal/application/inventory"
	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/application/sequence"
	"github.com/dcoral/gestock-api/internal/application/usecase"
	infrapdf "github.com/dcoral/gestock-api/internal/infrastructure/pdf"
	"github.com/dcoral/gestock-api/internal/infrastructure/postgres"
	"github.com/dcoral/gestock-api/internal/infrastructure/xlsx"
	httpRouter "github.com/dcoral/gestock-api/internal/interfaces/http"
	"github.com/dcoral/gestock-api/pkg/config"
	"github.com/dcoral/gestock-api/pkg/logger"
)

// @title           GestStock API
// @version         1.0
// @description     Back office de inventario y facturación: productos, departamentos, movimientos de stock, facturas y reportes.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
//
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con prefijo "Bearer ". Ejemplo: "Bearer {token}"
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones de esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	counterRepo := postgres.NewCounterRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ids := sequence.NewGenerator(counterRepo, invoiceRepo, log)
	stockLedger := ledger.NewService(txRunner)

	movementUC := inventory.NewMovementUseCase(
		txRunner, stockLedger, ids, movementRepo, departmentRepo,
	)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, stockLedger, ids, invoiceRepo, clientRepo, productRepo,
	)

	productUC := usecase.NewProductUseCase(productRepo, ids)
	clientUC := usecase.NewClientUseCase(clientRepo)
	departmentUC := usecase.NewDepartmentUseCase(departmentRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	reportsUC := appanalytics.NewReportsUseCase(
		analyticsRepo, productRepo, xlsx.NewExcelizeExporter(),
	)

	// PDF: representación gráfica de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, clientRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GestStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		ClientUC:     clientUC,
		DepartmentUC: departmentUC,
		MovementUC:   movementUC,
		InvoiceUC:    invoiceUC,
		PDFUC:        invoicePDFUC,
		DashboardUC:  dashboardUC,
		ReportsUC:    reportsUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
