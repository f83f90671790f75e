// Package assetpath maps an asset role and its owner to a storage key.
//
// Keys are always slash separated, independent of the backend that stores them:
//
//	locations/42/beach.jpg         gallery main
//	locations/42/mobile_beach.jpg  gallery mobile
//	ads/mobile/<uuid>.jpg          ad banner
//	partners/logo.jpg              brand image
package assetpath

import (
	"fmt"
	"path"
	"strings"
)

// MobilePrefix is prepended to the basename of the mobile gallery derivative.
const MobilePrefix = "mobile_"

// Ext is the extension of every stored derivative.
const Ext = ".jpg"

// OwnerKind identifies an entity that owns a gallery.
type OwnerKind string

const (
	KindLocation OwnerKind = "location"
	KindEvent    OwnerKind = "event"
	KindHiking   OwnerKind = "hiking"
	KindAd       OwnerKind = "ad"
)

// Kinds lists all gallery owner kinds.
var Kinds = []OwnerKind{KindLocation, KindEvent, KindHiking, KindAd}

// Plural returns the directory name used for the kind.
func (k OwnerKind) Plural() string {
	return string(k) + "s"
}

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind accepts both the singular and the plural spelling.
func ParseKind(s string) (OwnerKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == k.Plural() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown owner kind %q", s)
}

// BannerSlot is one of the two ad banner positions.
type BannerSlot string

const (
	BannerMobile BannerSlot = "mobile"
	BannerTablet BannerSlot = "tablet"
)

// BannerSlots lists the banner slots in a stable order.
var BannerSlots = []BannerSlot{BannerMobile, BannerTablet}

// Collection is the flat directory holding brand images.
type Collection string

const (
	CollectionPartners Collection = "partners"
	CollectionSponsors Collection = "sponsors"
)

// ParseCollection validates a brand collection name.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(s))); c {
	case CollectionPartners, CollectionSponsors:
		return c, nil
	default:
		return "", fmt.Errorf("unknown brand collection %q", s)
	}
}

// OwnerDir returns the directory holding every gallery derivative of one owner.
func OwnerDir(kind OwnerKind, ownerID uint) string {
	return fmt.Sprintf("%s/%d", kind.Plural(), ownerID)
}

func GalleryMain(kind OwnerKind, ownerID uint, basename string) string {
	return OwnerDir(kind, ownerID) + "/" + basename + Ext
}

func GalleryMobile(kind OwnerKind, ownerID uint, basename string) string {
	return OwnerDir(kind, ownerID) + "/" + MobilePrefix + basename + Ext
}

// Banner builds the key for an ad banner. randomID must be fresh for every save.
func Banner(slot BannerSlot, randomID string) string {
	return fmt.Sprintf("ads/%s/%s%s", slot, randomID, Ext)
}

func Brand(collection Collection, basename string) string {
	return string(collection) + "/" + basename + Ext
}

// Dir returns the parent directory of key, or "" for a top level key.
func Dir(key string) string {
	d := path.Dir(key)
	if d == "." || d == "/" {
		return ""
	}
	return d
}
