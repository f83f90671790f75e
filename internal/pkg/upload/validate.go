package upload

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
)

// MaxPixels bounds the decoded size of any upload (about 100 MP).
const MaxPixels = 100_000_000

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	// Note: SVG is intentionally excluded, it cannot be rasterized here
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ValidationError rejects an upload or form value before anything is stored.
type ValidationError struct {
	Field   string
	Message string
	// Width and Height are set for dimension mismatches
	Width  int
	Height int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
func ValidateImageBySniff(field, filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", &ValidationError{Field: field, Message: "Only JPG, JPEG, PNG, GIF, WEBP, BMP and TIFF images are supported"}
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", &ValidationError{Field: field, Message: "Invalid file type: HTML content is not allowed"}
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", &ValidationError{Field: field, Message: "SVG/XML files are not supported"}
	}

	// TIFF is reported as octet-stream by the sniffer; allow by extension
	if detected == "application/octet-stream" && (ext == ".tif" || ext == ".tiff") {
		return "image/tiff", nil
	}

	if allowedMime[detected] {
		return detected, nil
	}

	return "", &ValidationError{Field: field, Message: "The file type is not supported"}
}

// ValidateImage is the intake gate for gallery and brand uploads: type sniff
// plus a header read that rejects unreadable and oversized images.
func ValidateImage(field, filename string, data []byte) (imageprocessor.Dimensions, error) {
	if len(data) == 0 {
		return imageprocessor.Dimensions{}, &ValidationError{Field: field, Message: "This field is required"}
	}
	if _, err := ValidateImageBySniff(field, filename, head(data)); err != nil {
		return imageprocessor.Dimensions{}, err
	}
	dims, err := imageprocessor.Probe(data)
	if err != nil {
		return imageprocessor.Dimensions{}, &ValidationError{Field: field, Message: "Upload a valid image. The file you uploaded was either not an image or a corrupted image"}
	}
	if dims.Pixels() > MaxPixels {
		return dims, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Image is too large: %dx%d pixels", dims.Width, dims.Height),
			Width:   dims.Width,
			Height:  dims.Height,
		}
	}
	return dims, nil
}

// BannerSpec is the exact geometry a banner slot accepts.
type BannerSpec struct {
	Field  string
	Label  string
	Width  int
	Height int
}

// BannerSpecs maps each ad banner slot to its form field and size.
var BannerSpecs = map[assetpath.BannerSlot]BannerSpec{
	assetpath.BannerMobile: {Field: "image_mobile", Label: "Mobile", Width: 320, Height: 50},
	assetpath.BannerTablet: {Field: "image_tablet", Label: "Tablet", Width: 728, Height: 90},
}

// ValidateBanner requires the exact pixel size of slot. Only the header is read.
func ValidateBanner(slot assetpath.BannerSlot, filename string, data []byte) error {
	spec, ok := BannerSpecs[slot]
	if !ok {
		return fmt.Errorf("unknown banner slot %q", slot)
	}
	dims, err := ValidateImage(spec.Field, filename, data)
	if err != nil {
		return err
	}
	if dims.Width != spec.Width || dims.Height != spec.Height {
		return &ValidationError{
			Field: spec.Field,
			Message: fmt.Sprintf("%s image must be exactly %dx%d pixels. Uploaded: %dx%d",
				spec.Label, spec.Width, spec.Height, dims.Width, dims.Height),
			Width:  dims.Width,
			Height: dims.Height,
		}
	}
	return nil
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
