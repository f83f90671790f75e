package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fielmedina/backend/app/controllers"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

type ApiRouter struct {
	content *controllers.ContentController
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	cc := h.content

	owners := map[assetpath.OwnerKind]struct {
		get, create, update fiber.Handler
	}{
		assetpath.KindLocation: {cc.HandleGetLocation, cc.HandleCreateLocation, cc.HandleUpdateLocation},
		assetpath.KindEvent:    {cc.HandleGetEvent, cc.HandleCreateEvent, cc.HandleUpdateEvent},
		assetpath.KindHiking:   {cc.HandleGetHiking, cc.HandleCreateHiking, cc.HandleUpdateHiking},
		assetpath.KindAd:       {cc.HandleGetAd, cc.HandleCreateAd, cc.HandleUpdateAd},
	}
	for _, kind := range assetpath.Kinds {
		h := owners[kind]
		g := v1.Group("/" + kind.Plural())
		g.Post("/", h.create)
		g.Post("/bulk-delete", cc.HandleBulkDelete(kind))
		g.Get("/:id", h.get)
		g.Put("/:id", h.update)
		g.Delete("/:id", cc.HandleDelete(kind))

		g.Post("/:id/images", cc.HandleAddImages(kind))
		g.Put("/:id/images/:imageId", cc.HandleReplaceImage(kind))
		g.Delete("/:id/images/:imageId", cc.HandleDeleteImage(kind))
	}

	for _, coll := range []assetpath.Collection{assetpath.CollectionPartners, assetpath.CollectionSponsors} {
		g := v1.Group("/" + string(coll))
		g.Post("/", cc.HandleCreateBrand(coll))
		g.Post("/bulk-delete", cc.HandleBulkDeleteBrands(coll))
		g.Get("/:id", cc.HandleGetBrand(coll))
		g.Put("/:id", cc.HandleUpdateBrand(coll))
		g.Delete("/:id", cc.HandleDeleteBrand(coll))
	}

	pages := v1.Group("/pages")
	pages.Get("/", cc.HandleListPages)
	pages.Post("/", cc.HandleCreatePage)
	pages.Get("/:slug", cc.HandlePageBySlug)
	pages.Put("/:id", cc.HandleUpdatePage)
	pages.Delete("/:id", cc.HandleDeletePage)
}

func NewApiRouter(content *controllers.ContentController) *ApiRouter {
	return &ApiRouter{content: content}
}
