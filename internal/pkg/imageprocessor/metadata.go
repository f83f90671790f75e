package imageprocessor

import (
	"bytes"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// Metadata holds the EXIF fields kept on gallery images.
type Metadata struct {
	CameraModel *string
	TakenAt     *time.Time
	Latitude    *float64
	Longitude   *float64
}

// ExtractMetadata reads EXIF data from an uploaded source. Most uploads carry
// none, so a missing or broken EXIF block yields nil and no error.
func ExtractMetadata(data []byte) *Metadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := &Metadata{}
	found := false

	if m, err := x.Get(exif.Model); err == nil {
		if s := strings.TrimSpace(strings.Trim(m.String(), `"`)); s != "" {
			meta.CameraModel = &s
			found = true
		}
	}

	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
		found = true
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &long
		found = true
	}

	if !found {
		return nil
	}
	return meta
}
