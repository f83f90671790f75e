package imageprocessor

import (
	"fmt"
	"image"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

// Role is the asset class an upload belongs to.
type Role string

const (
	RoleGallery Role = "gallery"
	RoleBanner  Role = "banner"
	RoleBrand   Role = "brand"
)

// Derivative names
const (
	DerivativeMain   = "main"
	DerivativeMobile = "mobile"
	DerivativeBanner = "banner"
	DerivativeBrand  = "brand"
)

// Gallery and brand geometry
const (
	MainMaxWidth   = 1920
	MobileMaxWidth = 500
	BrandWidth     = 300
	BrandHeight    = 200
)

// Profile is one derivative to produce for a role. The first profile of a
// role is the primary one; without it the upload counts as failed.
type Profile struct {
	Name   string
	Policy Policy
}

// DefaultProfiles returns the derivative table used in production.
func DefaultProfiles() map[Role][]Profile {
	return map[Role][]Profile{
		RoleGallery: {
			{Name: DerivativeMain, Policy: CapWidth(MainMaxWidth)},
			{Name: DerivativeMobile, Policy: CapWidth(MobileMaxWidth)},
		},
		// Banner dimensions are validated at intake, so only re-encode.
		RoleBanner: {
			{Name: DerivativeBanner, Policy: CapWidth(0)},
		},
		RoleBrand: {
			{Name: DerivativeBrand, Policy: FitCrop(BrandWidth, BrandHeight)},
		},
	}
}

// Request is a validated upload plus what is needed to place its derivatives.
type Request struct {
	Role     Role
	Filename string
	Data     []byte

	// Gallery owner
	Kind    assetpath.OwnerKind
	OwnerID uint

	// Ad banner slot
	Slot assetpath.BannerSlot

	// Brand collection
	Collection assetpath.Collection
}

// Derivative is an encoded blob and the key it will be stored under.
type Derivative struct {
	Name   string
	Key    string
	Data   []byte
	Width  int
	Height int
}

// PartialDerivativeError lists secondary derivatives that could not be produced.
type PartialDerivativeError struct {
	Failed []string
	Errs   []error
}

func (e *PartialDerivativeError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for i, name := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Errs[i]))
	}
	return "partial derivatives: " + strings.Join(parts, "; ")
}

func (e *PartialDerivativeError) Unwrap() []error {
	return e.Errs
}

// DerivativeSet is the generator output for one upload.
type DerivativeSet struct {
	Role        Role
	Derivatives []Derivative
	// Shortfall is set when a secondary derivative failed.
	Shortfall *PartialDerivativeError
}

// Keys maps derivative name to storage key.
func (s *DerivativeSet) Keys() map[string]string {
	keys := make(map[string]string, len(s.Derivatives))
	for _, d := range s.Derivatives {
		keys[d.Name] = d.Key
	}
	return keys
}

// Generator runs the codec once per profile of a role.
type Generator struct {
	profiles map[Role][]Profile
	newID    func() string
}

// NewGenerator creates a generator with the production profiles.
func NewGenerator() *Generator {
	return NewGeneratorWithProfiles(DefaultProfiles())
}

// NewGeneratorWithProfiles creates a generator with a custom profile table.
func NewGeneratorWithProfiles(profiles map[Role][]Profile) *Generator {
	return &Generator{profiles: profiles, newID: uuid.NewString}
}

// WithIDFunc replaces the random id source used for banner keys.
func (g *Generator) WithIDFunc(fn func() string) *Generator {
	g.newID = fn
	return g
}

// Generate decodes the upload once and renders every profile of its role.
// A decode error or a failed primary profile returns an error and nothing else.
// A failed secondary profile is reported in the Shortfall of the returned set.
func (g *Generator) Generate(req Request) (*DerivativeSet, error) {
	profiles, ok := g.profiles[req.Role]
	if !ok || len(profiles) == 0 {
		return nil, fmt.Errorf("no derivative profiles for role %q", req.Role)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	src, err := Decode(req.Data)
	if err != nil {
		log.Warnf("[Derivatives] Could not decode %s upload %q: %v", req.Role, req.Filename, err)
		return nil, err
	}
	rgb := NormalizeRGB(src)
	basename := Basename(req.Filename)

	var bannerID string
	if req.Role == RoleBanner {
		bannerID = g.newID()
	}

	set := &DerivativeSet{Role: req.Role}
	shortfall := &PartialDerivativeError{}

	for i, p := range profiles {
		d, err := renderDerivative(rgb, req, p, basename, bannerID)
		if err != nil {
			if i == 0 {
				log.Errorf("[Derivatives] Primary derivative %s for %q failed: %v", p.Name, req.Filename, err)
				return nil, fmt.Errorf("derivative %s: %w", p.Name, err)
			}
			log.Warnf("[Derivatives] Derivative %s for %q failed, continuing without it: %v", p.Name, req.Filename, err)
			shortfall.Failed = append(shortfall.Failed, p.Name)
			shortfall.Errs = append(shortfall.Errs, err)
			continue
		}
		set.Derivatives = append(set.Derivatives, *d)
	}

	if len(shortfall.Failed) > 0 {
		set.Shortfall = shortfall
	}
	return set, nil
}

func renderDerivative(rgb image.Image, req Request, p Profile, basename, bannerID string) (*Derivative, error) {
	key, err := derivativeKey(req, p.Name, basename, bannerID)
	if err != nil {
		return nil, err
	}
	out, err := Render(rgb, req.Filename, p.Policy)
	if err != nil {
		return nil, err
	}
	return &Derivative{
		Name:   p.Name,
		Key:    key,
		Data:   out.Data,
		Width:  out.Width,
		Height: out.Height,
	}, nil
}

func derivativeKey(req Request, name, basename, bannerID string) (string, error) {
	switch req.Role {
	case RoleGallery:
		switch name {
		case DerivativeMain:
			return assetpath.GalleryMain(req.Kind, req.OwnerID, basename), nil
		case DerivativeMobile:
			return assetpath.GalleryMobile(req.Kind, req.OwnerID, basename), nil
		}
	case RoleBanner:
		return assetpath.Banner(req.Slot, bannerID), nil
	case RoleBrand:
		return assetpath.Brand(req.Collection, basename), nil
	}
	return "", fmt.Errorf("no key layout for %s derivative %q", req.Role, name)
}

func (r Request) validate() error {
	switch r.Role {
	case RoleGallery:
		if !r.Kind.Valid() || r.OwnerID == 0 {
			return fmt.Errorf("gallery upload needs an owner, got %q/%d", r.Kind, r.OwnerID)
		}
	case RoleBanner:
		if r.Slot != assetpath.BannerMobile && r.Slot != assetpath.BannerTablet {
			return fmt.Errorf("unknown banner slot %q", r.Slot)
		}
	case RoleBrand:
		if _, err := assetpath.ParseCollection(string(r.Collection)); err != nil {
			return err
		}
	}
	return nil
}
