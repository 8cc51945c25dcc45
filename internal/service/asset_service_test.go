package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	data        []byte
	contentType string
	writes      int
}

type fakeObjectStore struct {
	objects  map[string]*storedObject
	writeErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]*storedObject{}}
}

func (f *fakeObjectStore) Write(_ context.Context, key string, r io.Reader, contentType string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	obj, ok := f.objects[key]
	if !ok {
		obj = &storedObject{}
		f.objects[key] = obj
	}
	obj.data = data
	obj.contentType = contentType
	obj.writes++
	return nil
}

func (f *fakeObjectStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("object not found")
	}
	return fmt.Sprintf("https://signed.example.com/%s?expires=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func TestThumbnailPathDeterminism(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000042")
	assert.Equal(t, "products/"+id.String()+".jpg", ThumbnailPath(id, "JPG"))
	assert.Equal(t, ThumbnailPath(id, "jpg"), ThumbnailPath(id, "JPG"))
}

func TestPutThumbnail(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewAssetService(store, nil)
	id := uuid.New()

	path, err := svc.PutThumbnail(context.Background(), id, strings.NewReader("img-bytes"), "image/jpeg", "photo.JPG")

	require.NoError(t, err)
	assert.Equal(t, "products/"+id.String()+".jpg", path)

	obj := store.objects[path]
	require.NotNil(t, obj)
	assert.Equal(t, []byte("img-bytes"), obj.data)
	assert.Equal(t, "image/jpeg", obj.contentType)
}

func TestPutThumbnailOverwritesSameSlot(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewAssetService(store, nil)
	id := uuid.New()

	first, err := svc.PutThumbnail(context.Background(), id, strings.NewReader("v1"), "image/jpeg", "photo.JPG")
	require.NoError(t, err)
	second, err := svc.PutThumbnail(context.Background(), id, bytes.NewReader([]byte("v2")), "image/jpeg", "photo.jpg")
	require.NoError(t, err)

	// Same logical slot, replaced not duplicated
	assert.Equal(t, first, second)
	assert.Len(t, store.objects, 1)
	assert.Equal(t, []byte("v2"), store.objects[first].data)
	assert.Equal(t, 2, store.objects[first].writes)
}

func TestPutThumbnailRejectsUnknownExtension(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewAssetService(store, nil)

	_, err := svc.PutThumbnail(context.Background(), uuid.New(), strings.NewReader("x"), "application/pdf", "doc.pdf")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, store.objects, "rejected before any write attempt")
}

func TestPutThumbnailRejectsMissingExtension(t *testing.T) {
	svc := NewAssetService(newFakeObjectStore(), nil)

	_, err := svc.PutThumbnail(context.Background(), uuid.New(), strings.NewReader("x"), "image/png", "photo")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPutThumbnailWrapsStorageFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.writeErr = errors.New("bucket unavailable")
	svc := NewAssetService(store, nil)

	_, err := svc.PutThumbnail(context.Background(), uuid.New(), strings.NewReader("x"), "image/png", "p.png")

	var sErr *StorageWriteError
	require.ErrorAs(t, err, &sErr)
	assert.ErrorIs(t, err, store.writeErr)
}

func TestSignedThumbnailURL(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewAssetService(store, nil)
	id := uuid.New()

	path, err := svc.PutThumbnail(context.Background(), id, strings.NewReader("x"), "image/png", "p.png")
	require.NoError(t, err)

	url, err := svc.SignedThumbnailURL(context.Background(), path, 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, path)
}

func TestDeleteThumbnail(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewAssetService(store, nil)
	id := uuid.New()

	path, err := svc.PutThumbnail(context.Background(), id, strings.NewReader("x"), "image/png", "p.png")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteThumbnail(context.Background(), path))
	assert.Empty(t, store.objects)
}
