package testutil

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem(t *testing.T) {
	fsys := NewMemoryFileSystem()
	require.NoError(t, fsys.MkdirAll("/a/b"))

	t.Run("write requires directory", func(t *testing.T) {
		err := fsys.WriteFile("/missing/file", []byte("x"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("rename keeps mod time", func(t *testing.T) {
		stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, fsys.WriteFile("/a/b/f1", []byte("data")))
		fsys.Touch("/a/b/f1", stamp)
		require.NoError(t, fsys.Rename("/a/b/f1", "/a/f2"))

		assert.False(t, fsys.Exists("/a/b/f1"))
		entries, err := fsys.ReadDir("/a")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "f2", entries[0].Name)
		assert.Equal(t, stamp, entries[0].ModTime)
	})

	t.Run("injected failure", func(t *testing.T) {
		boom := errors.New("disk full")
		fsys.FailOn(OpWriteFile, "/a/b/f3", boom)

		err := fsys.WriteFile("/a/b/f3", []byte("x"))
		assert.ErrorIs(t, err, boom)
		assert.False(t, fsys.Exists("/a/b/f3"))
	})

	t.Run("read hook runs once before the read", func(t *testing.T) {
		require.NoError(t, fsys.WriteFile("/a/b/f4", []byte("before")))

		calls := 0
		fsys.OnReadFile("/a/b/f4", func() {
			calls++
			require.NoError(t, fsys.WriteFile("/a/b/f4", []byte("after")))
		})

		data, err := fsys.ReadFile("/a/b/f4")
		require.NoError(t, err)
		assert.Equal(t, "after", string(data))

		_, err = fsys.ReadFile("/a/b/f4")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("remove missing", func(t *testing.T) {
		assert.ErrorIs(t, fsys.Remove("/a/b/none"), fs.ErrNotExist)
	})
}
