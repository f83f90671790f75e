package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/content"
)

// HandleGetLocation returns a location with its gallery
func (cc *ContentController) HandleGetLocation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.GetLocation(id)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

// HandleCreateLocation creates a location from a multipart form
func (cc *ContentController) HandleCreateLocation(c *fiber.Ctx) error {
	var in content.LocationInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.CreateLocation(c.UserContext(), in, files.images)
	return cc.respond(c, fiber.StatusCreated, saved, err)
}

// HandleUpdateLocation updates a location, adding and removing gallery images
func (cc *ContentController) HandleUpdateLocation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	var in content.LocationInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.UpdateLocation(c.UserContext(), id, in, files.images, files.remove)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

func (cc *ContentController) HandleGetEvent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.GetEvent(id)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

func (cc *ContentController) HandleCreateEvent(c *fiber.Ctx) error {
	var in content.EventInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.CreateEvent(c.UserContext(), in, files.images)
	return cc.respond(c, fiber.StatusCreated, saved, err)
}

func (cc *ContentController) HandleUpdateEvent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	var in content.EventInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.UpdateEvent(c.UserContext(), id, in, files.images, files.remove)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

func (cc *ContentController) HandleGetHiking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.GetHiking(id)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

func (cc *ContentController) HandleCreateHiking(c *fiber.Ctx) error {
	var in content.HikingInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.CreateHiking(c.UserContext(), in, files.images)
	return cc.respond(c, fiber.StatusCreated, saved, err)
}

func (cc *ContentController) HandleUpdateHiking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	var in content.HikingInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.UpdateHiking(c.UserContext(), id, in, files.images, files.remove)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

func (cc *ContentController) HandleGetAd(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.GetAd(id)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

// HandleCreateAd creates an ad. Both banners are required.
func (cc *ContentController) HandleCreateAd(c *fiber.Ctx) error {
	var in content.AdInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.CreateAd(c.UserContext(), in, files.banners, files.images)
	return cc.respond(c, fiber.StatusCreated, saved, err)
}

// HandleUpdateAd updates an ad; banners that are not uploaded are kept
func (cc *ContentController) HandleUpdateAd(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return cc.handleError(c, err)
	}
	var in content.AdInput
	files, err := bindForm(c, &in)
	if err != nil {
		return cc.handleError(c, err)
	}
	saved, err := cc.svc.UpdateAd(c.UserContext(), id, in, files.banners, files.images, files.remove)
	return cc.respond(c, fiber.StatusOK, saved, err)
}

// HandleAddImages appends the uploaded images to an owner's gallery
func (cc *ContentController) HandleAddImages(kind assetpath.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		var none struct{}
		files, err := bindForm(c, &none)
		if err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.AddGalleryImages(c.UserContext(), kind, id, files.images)
		return cc.respond(c, fiber.StatusCreated, res, err)
	}
}

// HandleReplaceImage stores the uploaded "image" in place of one gallery image
func (cc *ContentController) HandleReplaceImage(kind assetpath.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		imageID, err := paramID(c, "imageId")
		if err != nil {
			return cc.handleError(c, err)
		}
		var none struct{}
		files, err := bindForm(c, &none)
		if err != nil {
			return cc.handleError(c, err)
		}
		up := files.image
		if up == nil && len(files.images) > 0 {
			up = &files.images[0]
		}
		if up == nil {
			up = &content.Upload{Filename: "image"}
		}
		res, err := cc.svc.ReplaceGalleryImage(c.UserContext(), kind, id, imageID, *up)
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}

// HandleDeleteImage removes one gallery image and its files
func (cc *ContentController) HandleDeleteImage(kind assetpath.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		imageID, err := paramID(c, "imageId")
		if err != nil {
			return cc.handleError(c, err)
		}
		if _, err := cc.svc.GalleryImage(kind, id, imageID); err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.DeleteGalleryImages(c.UserContext(), kind, imageID)
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}
