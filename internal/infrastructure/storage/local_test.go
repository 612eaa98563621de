package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/storage"
)

func newLocalStorage(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, dir
}

func TestLocalStorage_PutGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips bytes", func(t *testing.T) {
		s, dir := newLocalStorage(t)
		data := []byte("raw image bytes")

		require.NoError(t, s.Put(ctx, "abc_cat.png", data, "image/png"))

		got, err := s.Get(ctx, "abc_cat.png")
		require.NoError(t, err)
		assert.Equal(t, data, got)

		onDisk, err := os.ReadFile(filepath.Join(dir, "abc_cat.png"))
		require.NoError(t, err)
		assert.Equal(t, data, onDisk)
	})

	t.Run("last write wins", func(t *testing.T) {
		s, _ := newLocalStorage(t)

		require.NoError(t, s.Put(ctx, "bw_abc_cat.png", []byte("first"), "image/png"))
		require.NoError(t, s.Put(ctx, "bw_abc_cat.png", []byte("second"), "image/png"))

		got, err := s.Get(ctx, "bw_abc_cat.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		s, dir := newLocalStorage(t)

		require.NoError(t, s.Put(ctx, "abc_cat.png", []byte("data"), "image/png"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "abc_cat.png", entries[0].Name())
	})

	t.Run("returns not found for missing id", func(t *testing.T) {
		s, _ := newLocalStorage(t)

		_, err := s.Get(ctx, "missing.png")

		assert.ErrorIs(t, err, domain.ErrImageNotFound)
	})

	t.Run("rejects traversal identifiers", func(t *testing.T) {
		s, _ := newLocalStorage(t)

		for _, id := range []string{"", "..", "../secret.png", "a/b.png", `a\b.png`, ".hidden"} {
			_, err := s.Get(ctx, id)
			assert.ErrorIs(t, err, domain.ErrInvalidIdentifier, id)

			err = s.Put(ctx, id, []byte("x"), "image/png")
			assert.ErrorIs(t, err, domain.ErrInvalidIdentifier, id)
		}
	})

	t.Run("does not follow links out of the root", func(t *testing.T) {
		s, dir := newLocalStorage(t)
		outside := filepath.Join(t.TempDir(), "outside.png")
		require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
		if err := os.Symlink(outside, filepath.Join(dir, "link.png")); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}

		got, err := s.Get(ctx, "link.png")

		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		s, _ := newLocalStorage(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.Put(cctx, "abc_cat.png", []byte("x"), "image/png")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalStorage_Exists(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocalStorage(t)

	require.NoError(t, s.Put(ctx, "abc_cat.png", []byte("x"), "image/png"))

	ok, err := s.Exists(ctx, "abc_cat.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "other.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, s.Dir())
}
