package upload

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	htmlPolicy   = bluemonday.UGCPolicy()
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report form field names, not Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateInput checks the `validate` tags of v and returns the first
// failing field as a ValidationError.
func ValidateInput(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: messageFor(fe)}
	}
	return err
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "url", "http_url":
		return "Enter a valid URL"
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters", fe.Param())
	case "datetime":
		return fmt.Sprintf("Enter a valid value in the format %s", fe.Param())
	case "latitude", "longitude":
		return "Enter a valid coordinate"
	case "gtfield", "gtefield":
		return fmt.Sprintf("Must not be before %s", strings.ToLower(fe.Param()))
	case "gte", "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
}

// SanitizeHTML strips everything from rich text that is not safe user content.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(htmlPolicy.Sanitize(s))
}

// GalleryLimits is the maximum number of gallery images per owner kind.
var GalleryLimits = map[assetpath.OwnerKind]int{
	assetpath.KindLocation: 10,
	assetpath.KindEvent:    10,
	assetpath.KindHiking:   10,
	assetpath.KindAd:       5,
}

// GalleryRequired lists the owner kinds that must keep at least one image.
var GalleryRequired = map[assetpath.OwnerKind]bool{
	assetpath.KindLocation: true,
	assetpath.KindEvent:    true,
	assetpath.KindHiking:   true,
}

// CheckGalleryCount validates the gallery size after a save that keeps
// `existing` images, adds `added` and removes `removed` of the existing ones.
func CheckGalleryCount(kind assetpath.OwnerKind, existing, added, removed int) error {
	total := existing - removed + added
	if limit, ok := GalleryLimits[kind]; ok && total > limit {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("Please submit at most %d images", limit)}
	}
	if GalleryRequired[kind] && total < 1 {
		if existing > 0 {
			return &ValidationError{Field: "images", Message: "Please keep or upload at least one image"}
		}
		return &ValidationError{Field: "images", Message: "Please upload at least one image"}
	}
	return nil
}
