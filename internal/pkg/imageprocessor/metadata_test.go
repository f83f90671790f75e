package imageprocessor_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
)

func TestExtractMetadataWithoutExif(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))

	assert.Nil(t, imageprocessor.ExtractMetadata(buf.Bytes()), "plain JPEG carries no EXIF block")
	assert.Nil(t, imageprocessor.ExtractMetadata(solidPNG(t, 8, 8)))
	assert.Nil(t, imageprocessor.ExtractMetadata([]byte("not an image")))
	assert.Nil(t, imageprocessor.ExtractMetadata(nil))
}
