package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"

	appanalytics "github.com/jhoicas/catalogo-api/internal/application/analytics"
	"github.com/jhoicas/catalogo-api/internal/application/auth"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	QuotationUC *usecase.QuotationUseCase
	FollowUpUC  *usecase.FollowUpUseCase
	VisitorUC   *usecase.VisitorUseCase
	ContactUC   *usecase.ContactUseCase
	AuthUC      *auth.AuthUseCase
	DashboardUC *appanalytics.DashboardUseCase
	StatusUC    *appanalytics.StatusUseCase
	Metrics     *Metrics
	JWTSecret   string
	AppName     string
}

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name         string
	AllowOrigins string
	SwaggerFile  string // se sirve en /docs solo si el archivo existe
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp crea la aplicación Fiber con el middleware común.
func NewApp(cfg AppConfig, metrics *Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	if metrics != nil {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Catálogo API",
			}))
		}
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	productHandler := NewProductHandler(deps.ProductUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.FollowUpUC, deps.Metrics)
	followUpHandler := NewFollowUpHandler(deps.FollowUpUC)
	visitorHandler := NewVisitorHandler(deps.VisitorUC)
	contactHandler := NewContactHandler(deps.ContactUC, deps.Metrics)
	authHandler := NewAuthHandler(deps.AuthUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.StatusUC)

	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Público
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	api.Get("/system/status", dashboardHandler.SystemStatus)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// Catálogo: lectura pública (con token se ven también los inactivos), escritura admin.
	products := api.Group("/products")
	products.Get("/", OptionalAuth(deps.JWTSecret), productHandler.List)
	products.Get("/:id", OptionalAuth(deps.JWTSecret), productHandler.GetByID)
	products.Post("/", requireAuth, productHandler.Create)
	products.Put("/:id", requireAuth, productHandler.Update)
	products.Delete("/:id", requireAuth, productHandler.Delete)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", requireAuth, categoryHandler.Create)

	api.Post("/contact", contactHandler.Send)

	visitors := api.Group("/visitors")
	visitors.Post("/", visitorHandler.Register)
	visitors.Patch("/sessions/:id", visitorHandler.UpdateSession)
	visitors.Get("/", requireAuth, visitorHandler.List)
	visitors.Get("/analytics", requireAuth, visitorHandler.Analytics)
	visitors.Get("/export", requireAuth, visitorHandler.Export)

	quotations := api.Group("/quotations")
	quotations.Post("/", quotationHandler.Submit)
	quotations.Get("/", requireAuth, quotationHandler.List)
	// antes de /:id para que no lo capture el parámetro
	quotations.Get("/needing-follow-up", requireAuth, quotationHandler.NeedingFollowUp)
	quotations.Get("/:id", requireAuth, quotationHandler.GetByID)
	quotations.Get("/:id/pdf", requireAuth, quotationHandler.PDF)
	quotations.Post("/:id/send", requireAuth, quotationHandler.Send)
	quotations.Patch("/:id/status", requireAuth, quotationHandler.UpdateStatus)
	quotations.Delete("/:id", requireAuth, quotationHandler.Delete)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	followUps := protected.Group("/follow-ups")
	followUps.Get("/", followUpHandler.List)
	followUps.Get("/upcoming", followUpHandler.Upcoming)
	followUps.Post("/", followUpHandler.Create)
	followUps.Patch("/:id/complete", followUpHandler.Complete)

	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	protected.Post("/cache/refetch", dashboardHandler.Refetch)
}
