package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fielmedina/backend/app/controllers"
	"github.com/fielmedina/backend/internal/pkg/storage"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps are the services the routes need.
type Deps struct {
	Content *controllers.ContentController
	Files   *storage.StorageManager
	DB      *gorm.DB
	// MediaRoot is served at /upload; empty when media live in object storage.
	MediaRoot string
}

func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewHttpRouter(deps), NewApiRouter(deps.Content))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
