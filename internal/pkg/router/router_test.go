package router_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/app/controllers"
	"github.com/fielmedina/backend/app/repository"
	"github.com/fielmedina/backend/internal/pkg/assets"
	"github.com/fielmedina/backend/internal/pkg/content"
	"github.com/fielmedina/backend/internal/pkg/database"
	"github.com/fielmedina/backend/internal/pkg/imageprocessor"
	"github.com/fielmedina/backend/internal/pkg/router"
	"github.com/fielmedina/backend/internal/pkg/storage"
)

func newApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	root := t.TempDir()
	local, err := storage.NewLocalBackend(root)
	require.NoError(t, err)

	files := storage.NewStorageManager(local)
	manager := assets.NewManager(files, imageprocessor.NewGenerator(), assets.NewMemoryOrphanLedger())
	svc := content.NewService(repository.NewFactory(db), manager)

	app := fiber.New()
	router.InstallRouter(app, router.Deps{
		Content:   controllers.NewContentController(svc),
		Files:     files,
		DB:        db,
		MediaRoot: root,
	})
	return app, root
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, image.White)))
	return buf.Bytes()
}

type part struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, method, url string, fields map[string]string, files ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

var locationFields = map[string]string{
	"name_en":  "Medina",
	"name_fr":  "Médina",
	"category": "heritage",
	"country":  "TN",
	"city":     "Tunis",
	"story_en": "Old town",
	"story_fr": "Vieille ville",
}

type savedResponse struct {
	Record struct {
		ID uint `json:"id"`
	} `json:"record"`
	Images []struct {
		ID    uint   `json:"id"`
		Image string `json:"image"`
	} `json:"images"`
	Results []struct {
		Status string `json:"status"`
	} `json:"results"`
}

func TestLocationLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	app, root := newApp(t)

	req := multipartRequest(t, fiber.MethodPost, "/api/v1/locations", locationFields,
		part{"images", "medina.png", pngBytes(t, 64, 48)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var saved savedResponse
	decode(t, resp, &saved)
	require.Len(t, saved.Images, 1)
	assert.Equal(t, "ok", saved.Results[0].Status)
	key := saved.Images[0].Image
	assert.True(t, strings.HasSuffix(key, "/medina.jpg"), key)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/upload/"+key, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := strings.NewReader(`{"ids": [` + jsonID(saved.Record.ID) + `, 999]}`)
	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/locations/bulk-delete", body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var deleted struct {
		Deleted int `json:"deleted"`
	}
	decode(t, resp, &deleted)
	assert.Equal(t, 1, deleted.Deleted)
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/locations/"+jsonID(saved.Record.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBannerSizeIsRejectedWith422(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	req := multipartRequest(t, fiber.MethodPost, "/api/v1/ads", map[string]string{"link": "https://example.com"},
		part{"image_mobile", "m.png", pngBytes(t, 319, 50)},
		part{"image_tablet", "t.png", pngBytes(t, 728, 90)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "image_mobile", body["field"])
	assert.Equal(t, "Mobile image must be exactly 320x50 pixels. Uploaded: 319x50", body["error"])
}

func TestBulkDeleteRequiresIDs(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/partners/bulk-delete", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBulkDeleteOfUnknownIDsIs404(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	for _, path := range []string{"/api/v1/locations/bulk-delete", "/api/v1/partners/bulk-delete"} {
		req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(`{"ids": [999, 1000]}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func jsonID(id uint) string {
	data, _ := json.Marshal(id)
	return string(data)
}
