package filestorage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"devmart/internal/storage"
	"devmart/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T, maxSize int64) *filestorage.LocalFileStorage {
	t.Helper()

	fs, err := filestorage.NewLocalFileStorage(t.TempDir(), "http://test.local/uploads/", maxSize)
	require.NoError(t, err)

	return fs
}

func TestLocalFileStorage_Put(t *testing.T) {
	fs := setupFileStorage(t, 0)
	ctx := context.Background()

	t.Run("successful put", func(t *testing.T) {
		url, err := fs.Put(ctx, "media/2024/test file.txt", strings.NewReader("test content"), "text/plain")
		require.NoError(t, err)

		assert.Equal(t, "http://test.local/uploads/media/2024/test%20file.txt", url)

		data, err := os.ReadFile(fs.GetFullPath("media/2024/test file.txt"))
		require.NoError(t, err)
		assert.Equal(t, "test content", string(data))
	})

	t.Run("key cannot escape base dir", func(t *testing.T) {
		_, err := fs.Put(ctx, "../../etc/passwd", strings.NewReader("x"), "text/plain")
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(fs.GetBaseDir(), "etc", "passwd"))
		assert.NoError(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := fs.Put(ctx, "", strings.NewReader("x"), "text/plain")
		assert.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fs.Put(ctx, "cancelled.txt", strings.NewReader("x"), "text/plain")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalFileStorage_PutTooLarge(t *testing.T) {
	fs := setupFileStorage(t, 4)

	_, err := fs.Put(context.Background(), "big.bin", strings.NewReader("0123456789"), "application/octet-stream")
	assert.ErrorIs(t, err, storage.ErrFileTooLarge)

	_, statErr := os.Stat(fs.GetFullPath("big.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs := setupFileStorage(t, 0)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		_, err := fs.Put(ctx, "to_delete.txt", strings.NewReader("content"), "text/plain")
		require.NoError(t, err)

		require.NoError(t, fs.Delete(ctx, "to_delete.txt"))

		_, err = os.Stat(fs.GetFullPath("to_delete.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete non-existent file is a no-op", func(t *testing.T) {
		assert.NoError(t, fs.Delete(ctx, "nonexistent.txt"))
	})
}

func TestLocalFileStorage_BaseURL(t *testing.T) {
	fs := setupFileStorage(t, 0)
	assert.Equal(t, "http://test.local/uploads", fs.BaseURL())
}

func TestConcurrentPuts(t *testing.T) {
	fs := setupFileStorage(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fs.Put(ctx, filepath.Join("concurrent", string(rune('a'+i))+".txt"), strings.NewReader("data"), "text/plain")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
