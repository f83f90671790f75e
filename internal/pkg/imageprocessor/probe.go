package imageprocessor

import (
	"bytes"
	"errors"
	"image"
)

// Dimensions is what the image header declares, read without decoding pixels.
type Dimensions struct {
	Width  int
	Height int
	Format string
}

// Pixels returns the pixel count.
func (d Dimensions) Pixels() int64 {
	return int64(d.Width) * int64(d.Height)
}

// Probe reads the header of data.
func Probe(data []byte) (Dimensions, error) {
	if len(data) == 0 {
		return Dimensions{}, &DecodeError{Err: errors.New("empty input")}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, &DecodeError{Err: err}
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
