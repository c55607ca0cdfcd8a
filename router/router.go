package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "hunt/api-gateway/docs"
	"hunt/api-gateway/handlers"
	"hunt/api-gateway/middleware"
	"hunt/api-gateway/utils"
)

const BasePath = "/api/applications"

// Options tunes the HTTP server. Zero values fall back to fiber's defaults.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int // bytes
}

// New builds the fiber app with middleware and every route registered.
func New(h *handlers.ApplicationHandler, log *logrus.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hunt-api",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		IdleTimeout:           opts.IdleTimeout,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader,
	}))
	app.Use(recover.New())

	app.Get("/health", h.HealthCheck)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	applications := app.Group(BasePath)
	applications.Get("", h.ListApplications)
	applications.Post("", h.CreateApplication)
	applications.Get("/:id", h.GetApplication)
	applications.Put("/:id", h.UpdateApplication)
	applications.Delete("/:id", h.DeleteApplication)

	return app
}

// ErrorHandler renders errors that reach fiber (unknown routes, panics) in the same
// JSON shape the handlers use.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.WithField("request_id", middleware.RequestID(c)).WithError(err).Error("Unhandled error")
		}
		return utils.RespondWithError(c, code, message)
	}
}
