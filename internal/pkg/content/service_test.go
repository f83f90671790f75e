package content_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/app/repository"
	"github.com/fielmedina/backend/internal/pkg/assetpath"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/content"
	"github.com/fielmedina/backend/internal/pkg/database"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/shortener"
	"github.com/fielmedina/backend/internal/pkg/storage"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

var errInjected = errors.New("injected failure")

// failingBackend fails Put for the keys in failPut.
type failingBackend struct {
	storage.Backend

	mu      sync.Mutex
	failPut map[string]bool
}

func (b *failingBackend) Put(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	fail := b.failPut[key]
	b.mu.Unlock()
	if fail {
		return errInjected
	}
	return b.Backend.Put(ctx, key, data)
}

func (b *failingBackend) failOn(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPut[key] = true
}

type env struct {
	svc     *content.Service
	repos   *repository.Repositories
	backend *failingBackend
	root    string
	ledger  *assets.MemoryOrphanLedger
}

func newEnv(t *testing.T, opts ...content.Option) *env {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	root := t.TempDir()
	local, err := storage.NewLocalBackend(root)
	require.NoError(t, err)
	backend := &failingBackend{Backend: local, failPut: map[string]bool{}}

	ledger := assets.NewMemoryOrphanLedger()
	manager := assets.NewManager(storage.NewStorageManager(backend), imageprocessor.NewGenerator(), ledger)
	factory := repository.NewFactory(db)
	return &env{
		svc:     content.NewService(factory, manager, opts...),
		repos:   factory.GetRepositories(),
		backend: backend,
		root:    root,
		ledger:  ledger,
	}
}

func (e *env) exists(key string) bool {
	_, err := os.Stat(filepath.Join(e.root, filepath.FromSlash(key)))
	return err == nil
}

func (e *env) dims(t *testing.T, key string) imageprocessor.Dimensions {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(key)))
	require.NoError(t, err)
	d, err := imageprocessor.Probe(data)
	require.NoError(t, err)
	return d
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill := color.NRGBA{R: 30, G: 120, B: 200, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upl(t *testing.T, name string, w, h int) content.Upload {
	t.Helper()
	return content.Upload{Filename: name, Data: pngOf(t, w, h)}
}

func locationInput() content.LocationInput {
	return content.LocationInput{
		NameEn:   "Sidi Bou Said",
		NameFr:   "Sidi Bou Saïd",
		Category: "village",
		Country:  "tn",
		City:     "Tunis",
		StoryEn:  "<p>Blue and white.</p>",
		StoryFr:  "<p>Bleu et blanc.</p>",
	}
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *upload.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
}

func TestCreateLocationStoresGalleryDerivatives(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	saved, err := e.svc.CreateLocation(context.Background(), locationInput(), []content.Upload{upl(t, "beach.png", 4000, 3000)})
	require.NoError(t, err)
	require.Len(t, saved.Results, 1)
	assert.Equal(t, assets.StatusOK, saved.Results[0].Status)
	assert.Equal(t, "TN", saved.Record.Country)

	id := saved.Record.ID
	require.Len(t, saved.Images, 1)
	img := saved.Images[0]
	assert.Equal(t, assetpath.GalleryMain(assetpath.KindLocation, id, "beach"), img.MainKey)
	require.NotNil(t, img.MobileKey)
	assert.Equal(t, assetpath.GalleryMobile(assetpath.KindLocation, id, "beach"), *img.MobileKey)

	main := e.dims(t, img.MainKey)
	assert.Equal(t, 1920, main.Width)
	assert.Equal(t, 1440, main.Height)
	assert.Equal(t, "jpeg", main.Format)
	mobile := e.dims(t, *img.MobileKey)
	assert.Equal(t, 500, mobile.Width)
	assert.Equal(t, 375, mobile.Height)
}

func TestCreateLocationRequiresAnImage(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.svc.CreateLocation(context.Background(), locationInput(), nil)
	requireValidation(t, err, "images")

	count, err := e.repos.Location.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateLocationRejectsFieldErrorsBeforeStoring(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	in := locationInput()
	in.Country = "TUN"
	_, err := e.svc.CreateLocation(context.Background(), in, []content.Upload{upl(t, "beach.png", 80, 60)})
	requireValidation(t, err, "country")
	assert.False(t, e.exists("locations"))
}

func TestCreateLocationKeepsFieldsWhenDecodeFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	// The header stays intact, so intake accepts it; decoding runs out of data.
	data := pngOf(t, 800, 600)
	broken := content.Upload{Filename: "broken.png", Data: data[:len(data)/2]}

	saved, err := e.svc.CreateLocation(context.Background(), locationInput(), []content.Upload{broken})
	require.NoError(t, err)
	require.Len(t, saved.Results, 1)
	assert.Equal(t, assets.StatusFailed, saved.Results[0].Status)
	var decodeErr *imageprocessor.DecodeError
	assert.ErrorAs(t, saved.Results[0].Err, &decodeErr)

	loaded, err := e.svc.GetLocation(saved.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sidi Bou Said", loaded.Record.NameEn)
	assert.Empty(t, loaded.Images)
	assert.False(t, e.exists(assetpath.OwnerDir(assetpath.KindLocation, saved.Record.ID)))
}

func TestDeleteLocationsRemovesFilesAndDirectories(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"beach.png", "medina.png"} {
		saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{upl(t, name, 80, 60)})
		require.NoError(t, err)
		ids = append(ids, saved.Record.ID)
	}

	res, err := e.svc.DeleteLocations(ctx, append(ids, 999)...)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Deleted)
	assert.Len(t, res.Files.Deleted, 4)
	assert.True(t, res.Files.Clean())

	for _, id := range ids {
		assert.False(t, e.exists(assetpath.OwnerDir(assetpath.KindLocation, id)))
		images, err := e.repos.Gallery.ListByOwner(assetpath.KindLocation, id)
		require.NoError(t, err)
		assert.Empty(t, images)
	}
}

func TestUpdateLocationRemovesListedImages(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{
		upl(t, "beach.png", 80, 60),
		upl(t, "port.png", 80, 60),
	})
	require.NoError(t, err)
	require.Len(t, saved.Images, 2)
	drop, keep := saved.Images[0], saved.Images[1]

	in := locationInput()
	in.NameEn = "Sidi Bou"
	updated, err := e.svc.UpdateLocation(ctx, saved.Record.ID, in, []content.Upload{upl(t, "cafe.png", 80, 60)}, []uint{drop.ID})
	require.NoError(t, err)
	assert.Equal(t, "Sidi Bou", updated.Record.NameEn)
	require.Len(t, updated.Images, 2)
	require.NotNil(t, updated.Removed)
	assert.ElementsMatch(t, []string{drop.MainKey, *drop.MobileKey}, updated.Removed.Deleted)

	assert.False(t, e.exists(drop.MainKey))
	assert.True(t, e.exists(keep.MainKey))
	assert.True(t, e.exists(assetpath.GalleryMain(assetpath.KindLocation, saved.Record.ID, "cafe")))
}

func TestUpdateLocationCannotRemoveLastImage(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{upl(t, "beach.png", 80, 60)})
	require.NoError(t, err)

	_, err = e.svc.UpdateLocation(ctx, saved.Record.ID, locationInput(), nil, []uint{saved.Images[0].ID})
	requireValidation(t, err, "images")
	assert.True(t, e.exists(saved.Images[0].MainKey))
}

func TestUpdateUnknownLocation(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.svc.UpdateLocation(context.Background(), 404, locationInput(), nil, nil)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestReplaceGalleryImageKeepsOldFileOnWriteFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{upl(t, "beach.png", 80, 60)})
	require.NoError(t, err)
	id, img := saved.Record.ID, saved.Images[0]

	e.backend.failOn(assetpath.GalleryMain(assetpath.KindLocation, id, "sunset"))
	res, err := e.svc.ReplaceGalleryImage(ctx, assetpath.KindLocation, id, img.ID, upl(t, "sunset.png", 80, 60))
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, assets.StatusFailed, res.Results[0].Status)
	var werr *assets.StorageWriteError
	assert.ErrorAs(t, res.Results[0].Err, &werr)

	row, err := e.svc.GalleryImage(assetpath.KindLocation, id, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.MainKey, row.MainKey)
	assert.True(t, e.exists(img.MainKey))
	assert.False(t, e.exists(assetpath.GalleryMobile(assetpath.KindLocation, id, "sunset")))
}

func TestReplaceGalleryImageSwapsFiles(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{upl(t, "beach.png", 80, 60)})
	require.NoError(t, err)
	id, img := saved.Record.ID, saved.Images[0]

	res, err := e.svc.ReplaceGalleryImage(ctx, assetpath.KindLocation, id, img.ID, upl(t, "sunset.png", 80, 60))
	require.NoError(t, err)
	assert.Equal(t, assets.StatusOK, res.Results[0].Status)
	require.Len(t, res.Images, 1)
	assert.Equal(t, assetpath.GalleryMain(assetpath.KindLocation, id, "sunset"), res.Images[0].MainKey)
	assert.False(t, e.exists(img.MainKey))
	assert.False(t, e.exists(*img.MobileKey))
}

func TestGalleryImageOfOtherOwnerIsNotFound(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	saved, err := e.svc.CreateLocation(context.Background(), locationInput(), []content.Upload{upl(t, "beach.png", 80, 60)})
	require.NoError(t, err)

	_, err = e.svc.GalleryImage(assetpath.KindLocation, saved.Record.ID+1, saved.Images[0].ID)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestDeleteGalleryImagesPrunesOwnerDir(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateLocation(ctx, locationInput(), []content.Upload{upl(t, "beach.png", 80, 60)})
	require.NoError(t, err)

	res, err := e.svc.DeleteGalleryImages(ctx, assetpath.KindLocation, saved.Images[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)
	assert.Contains(t, res.Files.Pruned, assetpath.OwnerDir(assetpath.KindLocation, saved.Record.ID))
}

func TestCreateEventChecksDatesAndLocation(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	in := content.EventInput{
		NameEn:        "Jazz night",
		NameFr:        "Soirée jazz",
		DescriptionEn: "Live music",
		DescriptionFr: "Musique live",
		Category:      "music",
		StartDate:     "2026-07-10",
		EndDate:       "2026-07-09",
	}
	_, err := e.svc.CreateEvent(ctx, in, []content.Upload{upl(t, "stage.png", 80, 60)})
	requireValidation(t, err, "end_date")

	in.EndDate = "2026-07-12"
	missing := uint(77)
	in.LocationID = &missing
	_, err = e.svc.CreateEvent(ctx, in, []content.Upload{upl(t, "stage.png", 80, 60)})
	requireValidation(t, err, "location_id")

	in.LocationID = nil
	saved, err := e.svc.CreateEvent(ctx, in, []content.Upload{upl(t, "stage.png", 80, 60)})
	require.NoError(t, err)
	require.NotNil(t, saved.Record.EndDate)
	assert.Equal(t, 12, saved.Record.EndDate.Day())
}

type fakeShortener struct {
	err error
}

func (f fakeShortener) Shorten(_ context.Context, link string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "https://s.example/abc", "abc", nil
}

func banners(t *testing.T) content.Banners {
	return content.Banners{
		assetpath.BannerMobile: {Filename: "mobile.png", Data: pngOf(t, 320, 50)},
		assetpath.BannerTablet: {Filename: "tablet.png", Data: pngOf(t, 728, 90)},
	}
}

func TestCreateAdRejectsWrongBannerSizeBeforeStoring(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	b := banners(t)
	b[assetpath.BannerMobile] = &content.Upload{Filename: "mobile.png", Data: pngOf(t, 319, 50)}
	_, err := e.svc.CreateAd(context.Background(), content.AdInput{Link: "https://example.com", IsActive: true}, b, nil)

	var verr *upload.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image_mobile", verr.Field)
	assert.Equal(t, 319, verr.Width)

	count, err := e.repos.Ad.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, e.exists("ads"))
}

func TestCreateAdStoresBannersWhenShortenerFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t, content.WithLinkShortener(fakeShortener{err: errInjected}))

	saved, err := e.svc.CreateAd(context.Background(), content.AdInput{Link: "https://example.com", IsActive: true}, banners(t), nil)
	require.NoError(t, err)
	assert.Empty(t, saved.Record.ShortLink)
	require.Len(t, saved.Results, 2)
	for _, res := range saved.Results {
		assert.Equal(t, assets.StatusOK, res.Status, res.Slot)
	}

	mobile := saved.Record.BannerKey(assetpath.BannerMobile)
	tablet := saved.Record.BannerKey(assetpath.BannerTablet)
	assert.Regexp(t, `^ads/mobile/[0-9a-f-]+\.jpg$`, mobile)
	assert.Regexp(t, `^ads/tablet/[0-9a-f-]+\.jpg$`, tablet)
	assert.Equal(t, 320, e.dims(t, mobile).Width)
	assert.Equal(t, 90, e.dims(t, tablet).Height)
}

func TestUpdateAdReplacesBannerAndShortensNewLink(t *testing.T) {
	t.Parallel()
	e := newEnv(t, content.WithLinkShortener(fakeShortener{}))
	ctx := context.Background()

	saved, err := e.svc.CreateAd(ctx, content.AdInput{Link: "https://example.com"}, banners(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", saved.Record.ShortID)
	oldMobile := saved.Record.BannerKey(assetpath.BannerMobile)
	oldTablet := saved.Record.BannerKey(assetpath.BannerTablet)

	update := content.Banners{assetpath.BannerMobile: {Filename: "new.png", Data: pngOf(t, 320, 50)}}
	updated, err := e.svc.UpdateAd(ctx, saved.Record.ID, content.AdInput{Link: "https://example.org", IsActive: true}, update, nil, nil)
	require.NoError(t, err)

	newMobile := updated.Record.BannerKey(assetpath.BannerMobile)
	assert.NotEqual(t, oldMobile, newMobile)
	assert.Equal(t, oldTablet, updated.Record.BannerKey(assetpath.BannerTablet))
	assert.False(t, e.exists(oldMobile))
	assert.True(t, e.exists(newMobile))
	assert.True(t, e.exists(oldTablet))
	assert.Equal(t, "https://example.org", updated.Record.Link)
}

func TestDeleteAdsRemovesBanners(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	saved, err := e.svc.CreateAd(ctx, content.AdInput{Link: "https://example.com"}, banners(t), []content.Upload{upl(t, "promo.png", 80, 60)})
	require.NoError(t, err)

	res, err := e.svc.Delete(ctx, assetpath.KindAd, saved.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)
	assert.Len(t, res.Files.Deleted, 4)
	assert.False(t, e.exists(saved.Record.BannerKey(assetpath.BannerMobile)))
	assert.False(t, e.exists(assetpath.OwnerDir(assetpath.KindAd, saved.Record.ID)))
}

func TestCreatePartnerCropsToBrandBox(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	logo := upl(t, "Hotel Dar.png", 1000, 100)
	saved, err := e.svc.CreateBrand(context.Background(), assetpath.CollectionPartners, content.BrandInput{Name: "Hotel Dar", IsActive: true}, &logo)
	require.NoError(t, err)
	assert.Equal(t, "partners/Hotel_Dar.jpg", saved.Record.Image())

	d := e.dims(t, saved.Record.Image())
	assert.Equal(t, 300, d.Width)
	assert.Equal(t, 200, d.Height)
}

func TestCreateBrandRequiresImage(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.svc.CreateBrand(context.Background(), assetpath.CollectionSponsors, content.BrandInput{Name: "Airline"}, nil)
	requireValidation(t, err, "image")
}

func TestDeleteBrandKeepsImageSharedByAnotherBrand(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"Dar", "Dar Annex"} {
		logo := upl(t, "logo.png", 600, 400)
		saved, err := e.svc.CreateBrand(ctx, assetpath.CollectionPartners, content.BrandInput{Name: name}, &logo)
		require.NoError(t, err)
		require.Equal(t, "partners/logo.jpg", saved.Record.Image())
		ids = append(ids, saved.Record.ID)
	}

	res, err := e.svc.DeleteBrands(ctx, assetpath.CollectionPartners, ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)
	assert.Equal(t, []string{"partners/logo.jpg"}, res.Files.Kept)
	assert.True(t, e.exists("partners/logo.jpg"))

	res, err = e.svc.DeleteBrands(ctx, assetpath.CollectionPartners, ids[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"partners/logo.jpg"}, res.Files.Deleted)
	assert.False(t, e.exists("partners/logo.jpg"))
}

func TestUpdateBrandWithoutImageKeepsIt(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	logo := upl(t, "logo.png", 600, 400)
	saved, err := e.svc.CreateBrand(ctx, assetpath.CollectionSponsors, content.BrandInput{Name: "Airline"}, &logo)
	require.NoError(t, err)

	updated, err := e.svc.UpdateBrand(ctx, assetpath.CollectionSponsors, saved.Record.ID, content.BrandInput{Name: "Airline Co", IsActive: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Results)
	assert.Equal(t, "sponsors/logo.jpg", updated.Record.Image())
	assert.True(t, updated.Record.IsActive)
}

func TestPages(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	page, err := e.svc.CreatePage(ctx, content.PageInput{Slug: "About-Us", IsActive: true, TitleEn: "About", TitleFr: "À propos"})
	require.NoError(t, err)
	assert.Equal(t, "about-us", page.Slug)

	_, err = e.svc.CreatePage(ctx, content.PageInput{Slug: "about-us", TitleEn: "x", TitleFr: "x"})
	requireValidation(t, err, "slug")
	_, err = e.svc.CreatePage(ctx, content.PageInput{Slug: "about us", TitleEn: "x", TitleFr: "x"})
	requireValidation(t, err, "slug")

	draft, err := e.svc.CreatePage(ctx, content.PageInput{Slug: "terms", TitleEn: "Terms", TitleFr: "Conditions"})
	require.NoError(t, err)
	_, err = e.svc.GetPage("terms")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = e.svc.UpdatePage(ctx, page.ID, content.PageInput{Slug: "about-us", IsActive: true, TitleEn: "About us", TitleFr: "À propos"})
	require.NoError(t, err)

	pages, err := e.svc.ListPages()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "About us", pages[0].TitleEn)

	res, err := e.svc.DeletePages(ctx, page.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Deleted)
}

func TestFollowShortLinkCountsClicks(t *testing.T) {
	t.Parallel()
	e := newEnv(t, content.WithLinkShortener(shortener.NewLocal("https://fielmedina.test")))
	ctx := context.Background()

	saved, err := e.svc.CreateAd(ctx, content.AdInput{Link: "https://example.com/offer", IsActive: true}, banners(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://fielmedina.test/s/"+saved.Record.ShortID, saved.Record.ShortLink)

	for i := 0; i < 2; i++ {
		link, err := e.svc.FollowShortLink(ctx, saved.Record.ShortID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/offer", link)
	}
	ad, err := e.svc.GetAd(saved.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ad.Record.Clicks)

	_, err = e.svc.FollowShortLink(ctx, "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)
}
