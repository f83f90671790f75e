package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"

	// Additional decoders next to the gif/jpeg/png ones imaging pulls in
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the fixed encoder quality of every derivative.
const JPEGQuality = 80

// ResizeMode selects the geometry step of a Policy.
type ResizeMode int

const (
	// ModeCapWidth downscales to a maximum width, keeping the aspect ratio.
	ModeCapWidth ResizeMode = iota
	// ModeFitCrop scales to cover the target box and center-crops to it exactly.
	ModeFitCrop
)

// Policy describes the geometry of one derivative.
type Policy struct {
	Mode   ResizeMode
	Width  int
	Height int
}

// CapWidth returns a cap-width policy. A width of 0 keeps the source geometry.
func CapWidth(width int) Policy {
	return Policy{Mode: ModeCapWidth, Width: width}
}

// FitCrop returns a policy producing exactly width x height pixels.
func FitCrop(width, height int) Policy {
	return Policy{Mode: ModeFitCrop, Width: width, Height: height}
}

// DecodeError is returned when the source bytes are not a readable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Output is an encoded derivative.
type Output struct {
	Filename string
	Data     []byte
	Width    int
	Height   int
}

// Decode reads any registered raster format. EXIF orientation is not applied.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty input")}
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Err: fmt.Errorf("invalid image bounds %v", b)}
	}
	return img, nil
}

// NormalizeRGB converts img into an opaque NRGBA image. Palette and gray images
// are expanded, the alpha channel is dropped without blending so the stored color
// values survive as they are.
func NormalizeRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Transform applies the geometry step of p.
func Transform(img image.Image, p Policy) (*image.NRGBA, error) {
	switch p.Mode {
	case ModeCapWidth:
		return capWidth(img, p.Width)
	case ModeFitCrop:
		return fitCrop(img, p.Width, p.Height)
	default:
		return nil, fmt.Errorf("unknown resize mode %d", p.Mode)
	}
}

func capWidth(img image.Image, maxWidth int) (*image.NRGBA, error) {
	if maxWidth < 0 {
		return nil, fmt.Errorf("invalid cap width %d", maxWidth)
	}
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if maxWidth == 0 || srcW <= maxWidth {
		return imaging.Clone(img), nil
	}
	// Truncate like the stored layout always did: 4000x3000 -> 1920x1440, 500x375
	height := int(int64(srcH) * int64(maxWidth) / int64(srcW))
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, maxWidth, height, imaging.Lanczos), nil
}

// fitCrop crops to the target aspect first and resizes afterwards, so a 1xN
// source never turns into a giant intermediate image.
func fitCrop(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid crop box %dx%d", width, height)
	}
	b := img.Bounds()
	srcW, srcH := int64(b.Dx()), int64(b.Dy())
	w, h := int64(width), int64(height)

	cropW, cropH := srcW, srcH
	if srcW*h > srcH*w {
		cropW = (srcH*w + h/2) / h
	} else {
		cropH = (srcW*h + w/2) / w
	}
	cropW = clamp(cropW, 1, srcW)
	cropH = clamp(cropH, 1, srcH)

	cropped := imaging.CropCenter(img, int(cropW), int(cropH))
	if cropped.Bounds().Dx() == width && cropped.Bounds().Dy() == height {
		return cropped, nil
	}
	return imaging.Resize(cropped, width, height, imaging.Lanczos), nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Encode writes img as JPEG at JPEGQuality.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Render transforms and encodes an already normalized image.
func Render(img image.Image, filename string, p Policy) (*Output, error) {
	out, err := Transform(img, p)
	if err != nil {
		return nil, err
	}
	data, err := Encode(out)
	if err != nil {
		return nil, err
	}
	return &Output{
		Filename: Basename(filename) + ".jpg",
		Data:     data,
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
	}, nil
}

// Process is the whole byte-in/byte-out pipeline for a single derivative.
func Process(data []byte, filename string, p Policy) (*Output, error) {
	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Render(NormalizeRGB(src), filename, p)
}

var invalidNameChars = regexp.MustCompile(`[^-\p{L}\p{N}_.]`)

// Basename strips directory and extension from an uploaded filename and drops
// characters that are not safe in a storage key.
func Basename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.Join(strings.Fields(name), "_")
	name = invalidNameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, ".")
	if name == "" {
		return "image"
	}
	return name
}
