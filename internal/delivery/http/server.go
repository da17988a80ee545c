package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/urbexlog/places-service/internal/config"
	"github.com/urbexlog/places-service/internal/delivery/http/handler"
	"github.com/urbexlog/places-service/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

// Server wires the place handler and the uploads directory into a Fiber app.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	placeHandler *handler.PlaceHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	placeHandler *handler.PlaceHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Urbex Logs API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:          app,
		config:       cfg,
		logger:       logger,
		placeHandler: placeHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Uploaded images are served straight from disk.
	s.app.Static(s.config.Upload.PublicPath, s.config.Upload.Dir)

	api := s.app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Place routes
	places := api.Group("/places")
	places.Get("/", s.placeHandler.List)
	places.Post("/", s.placeHandler.Create)
	places.Put("/:id/status", s.placeHandler.UpdateStatus)
	places.Put("/:id", s.placeHandler.UpdateFull)
	places.Delete("/:id", s.placeHandler.Delete)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		// Only the fiber-level message goes out; internals stay in the log.
		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
