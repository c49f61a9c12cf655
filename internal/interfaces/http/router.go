package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/dcoral/gestock-api/internal/application/analytics"
	"github.com/dcoral/gestock-api/internal/application/auth"
	"github.com/dcoral/gestock-api/internal/application/billing"
	"github.com/dcoral/gestock-api/internal/application/inventory"
	"github.com/dcoral/gestock-api/internal/application/usecase"
	"github.com/dcoral/gestock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	ClientUC     *usecase.ClientUseCase
	DepartmentUC *usecase.DepartmentUseCase
	MovementUC   *inventory.MovementUseCase
	InvoiceUC    *billing.InvoiceUseCase
	PDFUC        *billing.PDFUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	ReportsUC    *appanalytics.ReportsUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
//
// Política de roles: las lecturas están abiertas a cualquier usuario
// autenticado; las escrituras de catálogo e inventario requieren admin o
// gestor, las de clientes y facturación admin o vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	gestores := RequireRole(entity.RoleAdmin, entity.RoleGestor)
	vendedores := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escrituras solo admin/gestor)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", gestores, productHandler.Create)
	products.Put("/:id", gestores, productHandler.Update)
	products.Delete("/:id", gestores, productHandler.Delete)

	// Departments (protegido; escrituras solo admin/gestor)
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.GetByID)
	departments.Post("/", gestores, departmentHandler.Create)
	departments.Put("/:id", gestores, departmentHandler.Update)
	departments.Delete("/:id", gestores, departmentHandler.Delete)

	// Stock movements (protegido; escrituras solo admin/gestor)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.Get)
	movements.Post("/", gestores, movementHandler.Create)
	movements.Delete("/:id", gestores, movementHandler.Delete)

	// Clients (protegido; escrituras solo admin/vendedor)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", vendedores, clientHandler.Create)
	clients.Put("/:id", vendedores, clientHandler.Update)
	clients.Delete("/:id", vendedores, clientHandler.Delete)

	// Invoices (protegido; escrituras solo admin/vendedor)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/", vendedores, invoiceHandler.Create)
	invoices.Put("/:id", vendedores, invoiceHandler.Update)
	invoices.Post("/:id/confirm", vendedores, invoiceHandler.Confirm)
	invoices.Delete("/:id", vendedores, invoiceHandler.Delete)

	// Dashboard y reportes (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	reports := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.ReportsUC)
	reports.Get("/departments", reportsHandler.GetDepartmentUsage)
	reports.Get("/inventory/export", reportsHandler.ExportInventory)
}
