package assets_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fielmedina/backend/internal/pkg/storage"
)

var errInjected = errors.New("injected failure")

// faultyBackend wraps a local backend, records the order of mutating calls
// and fails the keys it is told to.
type faultyBackend struct {
	storage.Backend

	mu         sync.Mutex
	ops        []string
	failPut    map[string]bool
	failDelete map[string]bool
}

func newFaultyBackend(t *testing.T) *faultyBackend {
	t.Helper()
	local, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	return &faultyBackend{
		Backend:    local,
		failPut:    map[string]bool{},
		failDelete: map[string]bool{},
	}
}

func (b *faultyBackend) record(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, op)
}

func (b *faultyBackend) Ops() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.ops...)
}

func (b *faultyBackend) Put(ctx context.Context, key string, data []byte) error {
	b.record("put " + key)
	if b.failPut[key] {
		return errInjected
	}
	return b.Backend.Put(ctx, key, data)
}

func (b *faultyBackend) Delete(ctx context.Context, key string) error {
	b.record("delete " + key)
	if b.failDelete[key] {
		return errInjected
	}
	return b.Backend.Delete(ctx, key)
}

func (b *faultyBackend) RemoveDir(ctx context.Context, dir string) error {
	b.record("rmdir " + dir)
	return b.Backend.RemoveDir(ctx, dir)
}

func (b *faultyBackend) exists(t *testing.T, key string) bool {
	t.Helper()
	ok, err := b.Backend.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (b *faultyBackend) list(t *testing.T, dir string) []string {
	t.Helper()
	names, err := b.Backend.List(context.Background(), dir)
	require.NoError(t, err)
	return names
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
