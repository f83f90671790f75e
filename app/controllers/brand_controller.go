package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/content"
)

// Partners and sponsors share these handlers; the route decides the collection.

func (cc *ContentController) HandleGetBrand(coll assetpath.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		saved, err := cc.svc.GetBrand(coll, id)
		return cc.respond(c, fiber.StatusOK, saved, err)
	}
}

func (cc *ContentController) HandleCreateBrand(coll assetpath.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in content.BrandInput
		files, err := bindForm(c, &in)
		if err != nil {
			return cc.handleError(c, err)
		}
		saved, err := cc.svc.CreateBrand(c.UserContext(), coll, in, files.image)
		return cc.respond(c, fiber.StatusCreated, saved, err)
	}
}

func (cc *ContentController) HandleUpdateBrand(coll assetpath.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		var in content.BrandInput
		files, err := bindForm(c, &in)
		if err != nil {
			return cc.handleError(c, err)
		}
		saved, err := cc.svc.UpdateBrand(c.UserContext(), coll, id, in, files.image)
		return cc.respond(c, fiber.StatusOK, saved, err)
	}
}

func (cc *ContentController) HandleDeleteBrand(coll assetpath.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.DeleteBrands(c.UserContext(), coll, id)
		if err == nil && res.Deleted == 0 {
			err = fmt.Errorf("%s %d: %w", coll, id, content.ErrNotFound)
		}
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}

// HandleBulkDeleteBrands answers 404 when none of the listed ids exist
func (cc *ContentController) HandleBulkDeleteBrands(coll assetpath.Collection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := bindIDs(c)
		if err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.DeleteBrands(c.UserContext(), coll, ids...)
		if err == nil && res.Deleted == 0 {
			err = fmt.Errorf("%s %v: %w", coll, ids, content.ErrNotFound)
		}
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}
