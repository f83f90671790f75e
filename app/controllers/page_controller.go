package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/fielmedina/backend/internal/pkg/content"
)

// HandleListPages returns all active pages
func (cc *ContentController) HandleListPages(c *fiber.Ctx) error {
	pages, err := cc.svc.ListPages()
	return cc.respond(c, fiber.StatusOK, pages, err)
}

// HandlePageBySlug returns one active page
func (cc *ContentController) HandlePageBySlug(c *fiber.Ctx) error {
	page, err := cc.svc.GetPage(c.Params("slug"))
	return cc.respond(c, fiber.StatusOK, page, err)
}

func (cc *ContentController) HandleCreatePage(c *fiber.Ctx) error {
	var in content.PageInput
	if _, err := bindForm(c, &in); err != nil {
		return cc.handleError(c, err)
	}
	page, err := cc.svc.CreatePage(c.UserContext(), in)
	return cc.respond(c, fiber.StatusCreated, page, err)
}

func (cc *ContentController) HandleUpdatePage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	var in content.PageInput
	if _, err := bindForm(c, &in); err != nil {
		return cc.handleError(c, err)
	}
	page, err := cc.svc.UpdatePage(c.UserContext(), id, in)
	return cc.respond(c, fiber.StatusOK, page, err)
}

func (cc *ContentController) HandleDeletePage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	res, err := cc.svc.DeletePages(c.UserContext(), id)
	if err == nil && res.Deleted == 0 {
		err = fmt.Errorf("page %d: %w", id, content.ErrNotFound)
	}
	return cc.respond(c, fiber.StatusOK, res, err)
}
