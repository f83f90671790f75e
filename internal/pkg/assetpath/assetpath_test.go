package assetpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/internal/pkg/assetpath"
)

func TestGalleryKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind       assetpath.OwnerKind
		ownerID    uint
		wantMain   string
		wantMobile string
	}{
		{assetpath.KindLocation, 42, "locations/42/beach.jpg", "locations/42/mobile_beach.jpg"},
		{assetpath.KindEvent, 7, "events/7/beach.jpg", "events/7/mobile_beach.jpg"},
		{assetpath.KindHiking, 1, "hikings/1/beach.jpg", "hikings/1/mobile_beach.jpg"},
		{assetpath.KindAd, 3, "ads/3/beach.jpg", "ads/3/mobile_beach.jpg"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantMain, assetpath.GalleryMain(tc.kind, tc.ownerID, "beach"))
			assert.Equal(t, tc.wantMobile, assetpath.GalleryMobile(tc.kind, tc.ownerID, "beach"))
			assert.Equal(t, assetpath.OwnerDir(tc.kind, tc.ownerID), assetpath.Dir(tc.wantMain))
		})
	}
}

func TestBannerAndBrandKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ads/mobile/abc.jpg", assetpath.Banner(assetpath.BannerMobile, "abc"))
	assert.Equal(t, "ads/tablet/abc.jpg", assetpath.Banner(assetpath.BannerTablet, "abc"))
	assert.Equal(t, "partners/logo.jpg", assetpath.Brand(assetpath.CollectionPartners, "logo"))
	assert.Equal(t, "sponsors/logo.jpg", assetpath.Brand(assetpath.CollectionSponsors, "logo"))
	assert.Equal(t, "sponsors", assetpath.Dir("sponsors/logo.jpg"))
	assert.Equal(t, "", assetpath.Dir("logo.jpg"))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := assetpath.ParseKind("Locations")
	require.NoError(t, err)
	assert.Equal(t, assetpath.KindLocation, k)

	k, err = assetpath.ParseKind("hiking")
	require.NoError(t, err)
	assert.Equal(t, assetpath.KindHiking, k)

	_, err = assetpath.ParseKind("partners")
	assert.Error(t, err)

	c, err := assetpath.ParseCollection("sponsors")
	require.NoError(t, err)
	assert.Equal(t, assetpath.CollectionSponsors, c)
}
