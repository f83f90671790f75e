package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HttpRouter serves everything outside the JSON API: health, media files and
// short link redirects.
type HttpRouter struct {
	deps Deps
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", h.handleHealth)

	if h.deps.MediaRoot != "" {
		app.Static("/upload", h.deps.MediaRoot, fiber.Static{
			MaxAge: 86400,
		})
	}

	app.Get("/s/:id", h.deps.Content.HandleShortLink)
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}

// handleHealth checks the database and a storage round trip.
func (h HttpRouter) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	status := fiber.Map{"database": "ok", "storage": "ok"}
	healthy := true

	if h.deps.DB != nil {
		sqlDB, err := h.deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Warnf("[Health] Database check failed: %v", err)
			status["database"] = err.Error()
			healthy = false
		}
	}
	if h.deps.Files != nil {
		if err := h.deps.Files.HealthCheck(ctx); err != nil {
			log.Warnf("[Health] Storage check failed: %v", err)
			status["storage"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
