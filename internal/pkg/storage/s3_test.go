package storage

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in memory and implements just enough of the
// ListObjectsV2 delimiter semantics.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)

	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if i := strings.Index(rest, delim); delim != "" && i >= 0 {
			p := prefix + rest[:i+1]
			if !seen[p] {
				seen[p] = true
				out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(p)})
			}
			continue
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3BackendRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeS3()
	b := newS3Backend(fake, "media", "/prod/")

	require.NoError(t, b.Put(ctx, "locations/42/beach.jpg", []byte("main")))
	require.NoError(t, b.Put(ctx, "locations/42/mobile_beach.jpg", []byte("mobile")))
	require.NoError(t, b.Put(ctx, "locations/43/x.jpg", []byte("other")))
	assert.Contains(t, fake.objects, "prod/locations/42/beach.jpg")

	ok, err := b.Exists(ctx, "locations/42/beach.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	names, err := b.List(ctx, "locations/42")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach.jpg", "mobile_beach.jpg"}, names)

	names, err = b.List(ctx, "locations")
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "43"}, names)

	require.NoError(t, b.Delete(ctx, "locations/42/beach.jpg"))
	err = b.Delete(ctx, "locations/42/beach.jpg")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, fake.deletes, "missing keys are not sent to S3")

	ok, err = b.Exists(ctx, "locations/42/beach.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, b.RemoveDir(ctx, "locations/42"))
}

func TestS3BackendListEmptyPrefix(t *testing.T) {
	t.Parallel()
	b := newS3Backend(newFakeS3(), "media", "")

	names, err := b.List(context.Background(), "partners")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, "partners/logo.jpg", b.objectKey("/partners/logo.jpg"))
}
