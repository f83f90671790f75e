package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/content"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

// ============================================================================
// CONTENT CONTROLLER - JSON API over content.Service
// ============================================================================

// ContentController handles the content API. Every mutation goes through the
// content service, so stored images follow their records.
type ContentController struct {
	svc *content.Service
}

// NewContentController creates a new content controller
func NewContentController(svc *content.Service) *ContentController {
	return &ContentController{svc: svc}
}

// formFiles holds the uploads and gallery edits of a multipart form
type formFiles struct {
	images  []content.Upload
	image   *content.Upload
	banners content.Banners
	remove  []uint
}

// bindForm parses the fields into in and collects the uploaded files. Requests
// that are not multipart carry fields only.
func bindForm(c *fiber.Ctx, in any) (*formFiles, error) {
	if err := c.BodyParser(in); err != nil {
		return nil, &upload.ValidationError{Field: "body", Message: "Could not read the form: " + err.Error()}
	}
	files := &formFiles{banners: content.Banners{}}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return files, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &upload.ValidationError{Field: "body", Message: "Could not read the form: " + err.Error()}
	}

	if files.images, err = readFiles(form.File["images"]); err != nil {
		return nil, err
	}
	if single, err := readFiles(form.File["image"]); err != nil {
		return nil, err
	} else if len(single) > 0 {
		files.image = &single[0]
	}
	for slot, spec := range upload.BannerSpecs {
		banner, err := readFiles(form.File[spec.Field])
		if err != nil {
			return nil, err
		}
		if len(banner) > 0 {
			files.banners[slot] = &banner[0]
		}
	}
	if files.remove, err = parseIDs("remove_images", form.Value["remove_images"]); err != nil {
		return nil, err
	}
	return files, nil
}

func readFiles(headers []*multipart.FileHeader) ([]content.Upload, error) {
	out := make([]content.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		out = append(out, content.Upload{Filename: fh.Filename, Data: data})
	}
	return out, nil
}

func parseIDs(field string, raw []string) ([]uint, error) {
	var ids []uint
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, &upload.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a valid id", part)}
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, c.Params(name), content.ErrNotFound)
	}
	return uint(id), nil
}

// bulkDeleteRequest is the JSON body of a bulk delete
type bulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

func bindIDs(c *fiber.Ctx) ([]uint, error) {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, &upload.ValidationError{Field: "ids", Message: "Expected a JSON body like {\"ids\": [1, 2]}"}
	}
	if len(req.IDs) == 0 {
		return nil, &upload.ValidationError{Field: "ids", Message: "This field is required"}
	}
	return req.IDs, nil
}

// respond writes payload with status, or maps err to its HTTP status
func (cc *ContentController) respond(c *fiber.Ctx, status int, payload any, err error) error {
	if err != nil {
		return cc.handleError(c, err)
	}
	return c.Status(status).JSON(payload)
}

// handleError is a helper method for consistent error handling. Validation
// errors are 422, unknown records 404, anything else is logged and 500.
func (cc *ContentController) handleError(c *fiber.Ctx, err error) error {
	var verr *upload.ValidationError
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"field": verr.Field, "error": verr.Message}
		if verr.Width > 0 {
			body["width"], body["height"] = verr.Width, verr.Height
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case errors.Is(err, content.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	default:
		log.Errorf("[ContentController] %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "The request could not be processed"})
	}
}

// HandleDelete deletes one record of kind
func (cc *ContentController) HandleDelete(kind assetpath.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.Delete(c.UserContext(), kind, id)
		if err == nil && res.Deleted == 0 {
			err = fmt.Errorf("%s %d: %w", kind, id, content.ErrNotFound)
		}
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}

// HandleBulkDelete deletes every record of kind listed in the JSON body.
// Unknown ids are skipped, but a request that removes nothing is a 404.
func (cc *ContentController) HandleBulkDelete(kind assetpath.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := bindIDs(c)
		if err != nil {
			return cc.handleError(c, err)
		}
		res, err := cc.svc.Delete(c.UserContext(), kind, ids...)
		if err == nil && res.Deleted == 0 {
			err = fmt.Errorf("%s %v: %w", kind, ids, content.ErrNotFound)
		}
		return cc.respond(c, fiber.StatusOK, res, err)
	}
}

// HandleShortLink redirects a locally issued short link to its ad
func (cc *ContentController) HandleShortLink(c *fiber.Ctx) error {
	link, err := cc.svc.FollowShortLink(c.UserContext(), c.Params("id"))
	if err != nil {
		return cc.handleError(c, err)
	}
	return c.Redirect(link, fiber.StatusFound)
}
