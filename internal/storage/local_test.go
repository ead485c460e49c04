package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"skymarket_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (storage.Storage, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := storage.NewStorage(storage.Config{BasePath: dir, BaseURL: "/images"})
	require.NoError(t, err)
	return st, dir
}

func TestLocalStorage_SaveAndGet(t *testing.T) {
	st, dir := newTestStorage(t)
	ctx := context.Background()

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	require.NoError(t, st.Save(ctx, "ads/img_1.jpg", bytes.NewReader(payload), "image/jpeg"))

	// файл лежит в подпапке под basePath
	_, err := os.Stat(filepath.Join(dir, "ads", "img_1.jpg"))
	require.NoError(t, err)

	reader, err := st.Get(ctx, "ads/img_1.jpg")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	st, _ := newTestStorage(t)

	_, err := st.Get(context.Background(), "ads/absent.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalStorage_Delete(t *testing.T) {
	st, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "avatars/a.png", bytes.NewReader([]byte("png")), "image/png"))
	require.NoError(t, st.Delete(ctx, "avatars/a.png"))

	exists, err := st.Exists(ctx, "avatars/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// удаление отсутствующего файла не считается ошибкой
	assert.NoError(t, st.Delete(ctx, "avatars/a.png"))
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	st, err := storage.NewStorage(storage.Config{BasePath: filepath.Join(dir, "uploads"), BaseURL: "/images"})
	require.NoError(t, err)
	ctx := context.Background()

	// файл рядом с корнем хранилища, но вне его
	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("credentials"), 0o600))

	_, err = st.Get(ctx, "../secret.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.Error(t, st.Save(ctx, "../evil.jpg", bytes.NewReader([]byte{1}), "image/jpeg"))
	_, statErr := os.Stat(filepath.Join(dir, "evil.jpg"))
	assert.True(t, os.IsNotExist(statErr))

	require.Error(t, st.Delete(ctx, "../secret.txt"))
	_, statErr = os.Stat(secret)
	assert.NoError(t, statErr)

	_, err = st.Exists(ctx, "ads/../../secret.txt")
	require.Error(t, err)
	_, err = st.GetSize(ctx, "..")
	require.Error(t, err)
}

func TestLocalStorage_SizeAndURL(t *testing.T) {
	st, _ := newTestStorage(t)
	ctx := context.Background()

	payload := []byte("0123456789")
	require.NoError(t, st.Save(ctx, "ads/sized.jpg", bytes.NewReader(payload), "image/jpeg"))

	size, err := st.GetSize(ctx, "ads/sized.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), size)

	url, err := st.GetURL(ctx, "ads/sized.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/images/ads/sized.jpg", url)
}
