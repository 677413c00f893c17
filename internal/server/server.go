// Package server assembles the Fiber application from a store and config.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tokobuku/internal/config"
	"tokobuku/internal/database"
	"tokobuku/internal/handlers"
	"tokobuku/internal/middleware"
	"tokobuku/internal/services"
)

// Options are the dependencies of the application.
type Options struct {
	Config    *config.Config
	Store     *database.Store
	Publisher services.EventPublisher // nil disables order events
	Logger    *zap.Logger
	Registry  *prometheus.Registry // nil creates a private registry
}

// New builds the application: middleware, API routes under /api, /health,
// /metrics and the not-found fallback.
func New(opts Options) *fiber.App {
	cfg := opts.Config
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Services ---
	itemService := services.NewItemService(opts.Store.Items)
	orderService := services.NewOrderService(opts.Store.Orders, opts.Store.Users, opts.Publisher, lg.Named("orders"))
	authService := services.NewAuthService(opts.Store.Users, cfg.JWTSecret)

	// --- Handlers ---
	itemHandler := handlers.NewItemHandler(itemService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName:      "tokobuku",
		ErrorHandler: middleware.ErrorHandler(lg, cfg.IsProduction()),
	})

	// --- Middleware ---
	metrics := middleware.NewMetrics(reg)
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: zap.NewStdLog(lg.Named("http")).Writer(),
	}))
	app.Use(metrics.Middleware())

	// --- Operational endpoints ---
	app.Get("/health", healthHandler(opts.Store))
	app.Get("/metrics", metrics.Handler())

	// --- API Routes ---
	api := app.Group("/api")
	handlers.Register(api, handlers.Guards{
		Protect: middleware.Protect(authService, lg),
		Admin:   middleware.AdminOnly(),
	},
		itemHandler.Routes(),
		orderHandler.Routes(),
		authHandler.Routes(),
	)

	app.Use(middleware.NotFound)

	return app
}

func healthHandler(store *database.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		body := fiber.Map{
			"status": "healthy",
			"store":  store.Driver,
			"time":   time.Now().Format(time.RFC3339),
		}
		if err := store.Ping(c.UserContext()); err != nil {
			status = fiber.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["error"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}
