package upload_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

type adForm struct {
	Link     string `form:"link" validate:"required,url"`
	Title    string `form:"title" validate:"max=10"`
	Latitude string `form:"latitude" validate:"omitempty,latitude"`
	Country  string `form:"country" validate:"omitempty,len=2"`
	OpenFrom string `form:"open_from" validate:"omitempty,datetime=15:04"`
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	require.NoError(t, upload.ValidateInput(adForm{Link: "https://example.com"}))

	tests := []struct {
		in        adForm
		wantField string
		wantMsg   string
	}{
		{adForm{}, "link", "This field is required"},
		{adForm{Link: "not a url"}, "link", "Enter a valid URL"},
		{adForm{Link: "https://example.com", Title: "far too long title"}, "title", "Ensure this value has at most 10 characters"},
		{adForm{Link: "https://example.com", Latitude: "123"}, "latitude", "Enter a valid coordinate"},
		{adForm{Link: "https://example.com", Country: "TUN"}, "country", "Ensure this value has exactly 2 characters"},
		{adForm{Link: "https://example.com", OpenFrom: "9am"}, "open_from", "Enter a valid value in the format 15:04"},
	}
	for _, tc := range tests {
		err := upload.ValidateInput(tc.in)
		var verr *upload.ValidationError
		require.True(t, errors.As(err, &verr), "input %+v", tc.in)
		assert.Equal(t, tc.wantField, verr.Field)
		assert.Equal(t, tc.wantMsg, verr.Message)
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	out := upload.SanitizeHTML(`<p onclick="x()">Medina <b>walk</b><script>alert(1)</script></p>`)
	assert.Equal(t, `<p>Medina <b>walk</b></p>`, out)
}

func TestCheckGalleryCount(t *testing.T) {
	t.Parallel()

	assert.NoError(t, upload.CheckGalleryCount(assetpath.KindLocation, 0, 1, 0))
	assert.NoError(t, upload.CheckGalleryCount(assetpath.KindLocation, 10, 0, 0))
	assert.NoError(t, upload.CheckGalleryCount(assetpath.KindAd, 0, 0, 0))

	err := upload.CheckGalleryCount(assetpath.KindLocation, 0, 0, 0)
	var verr *upload.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Please upload at least one image", verr.Message)

	err = upload.CheckGalleryCount(assetpath.KindHiking, 2, 0, 2)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Please keep or upload at least one image", verr.Message)

	err = upload.CheckGalleryCount(assetpath.KindAd, 4, 2, 0)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Please submit at most 5 images", verr.Message)
}
