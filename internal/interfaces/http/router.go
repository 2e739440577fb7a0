package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/application/export"
	"github.com/jhoicas/grocery-api/internal/application/order"
	"github.com/jhoicas/grocery-api/internal/application/sectionrequest"
	"github.com/jhoicas/grocery-api/internal/application/usecase"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Gate             *auth.Gate
	SectionUC        *usecase.SectionUseCase
	CatalogUC        *usecase.CatalogUseCase
	ProductUC        *usecase.ProductUseCase
	SectionRequestUC *sectionrequest.UseCase
	OrderUC          *order.UseCase
	ExportUC         *export.UseCase
	JWTSecret        string
	RequestTimeout   time.Duration
	Log              *logger.Logger
}

// NewApp construye la aplicación Fiber con el manejo de errores, recover, log de acceso y timeout
// por petición, y registra todas las rutas.
func NewApp(appName string, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(deps.Log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(deps.Log))
	app.Use(RequestTimeout(deps.RequestTimeout))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authn := AuthMiddleware(deps.JWTSecret)
	role := func(roles ...string) fiber.Handler { return RequireRole(deps.Gate, roles...) }
	admin := role(entity.RoleAdmin)
	manager := role(entity.RoleManager)
	customer := role(entity.RoleUser)
	staff := role(entity.RoleManager, entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/signup/user", authHandler.SignupUser)
	app.Post("/signup/manager", authHandler.SignupManager)
	app.Post("/login", authHandler.Login(entity.RoleUser))
	app.Post("/manager/login", authHandler.Login(entity.RoleManager))
	app.Post("/admin/login", authHandler.Login(entity.RoleAdmin))

	// Aprobación de gerentes (admin)
	app.Post("/admin/approve_manager/:id/:action", authn, admin, authHandler.ResolveManager)

	api := app.Group("/api", authn)
	api.Get("/manager-accounts/pending", admin, authHandler.ListPendingManagers)

	// Catálogo
	sectionHandler := NewSectionHandler(deps.SectionUC, deps.CatalogUC)
	productHandler := NewProductHandler(deps.ProductUC)
	sections := api.Group("/sections")
	sections.Get("/", role(), sectionHandler.List)
	sections.Post("/add", admin, sectionHandler.Add)
	sections.Post("/:id/add-product", manager, productHandler.AddToSection)
	sections.Get("/:id", admin, sectionHandler.GetByID)
	sections.Put("/:id", admin, sectionHandler.Update)
	sections.Delete("/:id", admin, sectionHandler.Delete)

	products := api.Group("/products", manager)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Solicitudes de cambio de sección
	requestHandler := NewSectionRequestHandler(deps.SectionRequestUC)
	requests := api.Group("/section-requests")
	requests.Post("/", manager, requestHandler.Submit)
	requests.Get("/", admin, requestHandler.ListPending)
	requests.Get("/mine", manager, requestHandler.ListMine)
	requests.Put("/approve/:id", admin, requestHandler.Approve)
	requests.Put("/reject/:id", admin, requestHandler.Reject)

	// Compras
	orderHandler := NewOrderHandler(deps.OrderUC)
	app.Post("/buy-items", authn, customer, orderHandler.Buy)
	api.Get("/user/order-history", customer, orderHandler.History)

	// Exportación CSV
	exportHandler := NewExportHandler(deps.ExportUC)
	app.Post("/export-csv", authn, staff, exportHandler.Start)
	app.Get("/export-csv/:job_id", authn, staff, exportHandler.Status)
	app.Get("/download-csv", authn, staff, exportHandler.DownloadLatest)
	app.Get("/download-csv/:job_id", authn, staff, exportHandler.Download)
}
