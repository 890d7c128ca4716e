package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keyrotator/internal/errors"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	"github.com/allisson/keyrotator/internal/testutil"
)

var _ FileSystem = (*testutil.MemoryFileSystem)(nil)

func writeKeySet(t *testing.T, store *FileKeyStore, stage keysetDomain.Stage, id string) {
	t.Helper()
	wrapped, public, private := keysetDomain.CanonicalFiles(id)
	require.NoError(t, store.WriteFile(stage, wrapped, []byte("wrapped-"+id)))
	require.NoError(t, store.WriteFile(stage, public, []byte("public-"+id)))
	require.NoError(t, store.WriteFile(stage, private, []byte("private-"+id)))
}

func TestFileKeyStore_OSFileSystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "keys")
	store := NewFileKeyStore(NewOSFileSystem(), root)
	require.NoError(t, store.EnsureLayout())

	for _, stage := range keysetDomain.Stages {
		info, err := os.Stat(store.Dir(stage))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(DirPermissions), info.Mode().Perm())
	}

	writeKeySet(t, store, keysetDomain.StageStaging, "AbCd1234")

	t.Run("files are written with restricted permissions", func(t *testing.T) {
		info, err := os.Stat(filepath.Join(store.Dir(keysetDomain.StageStaging), "AbCd1234.private.pem"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(FilePermissions), info.Mode().Perm())
	})

	t.Run("temp files are not listed", func(t *testing.T) {
		tempPath := filepath.Join(store.Dir(keysetDomain.StageStaging), "AbCd1234.der.tmp")
		require.NoError(t, os.WriteFile(tempPath, []byte("partial"), FilePermissions))
		defer func() { _ = os.Remove(tempPath) }()

		entries, err := store.List(keysetDomain.StageStaging)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("find staged key set", func(t *testing.T) {
		keySet, err := store.FindKeySet("AbCd1234", keysetDomain.StageStaging)
		require.NoError(t, err)
		assert.Equal(t, "AbCd1234", keySet.ID)
		assert.False(t, keySet.CreatedAt.IsZero())
		assert.Equal(t, filepath.Join(root, "update", "AbCd1234.der"), keySet.WrappedKeyPath())
	})

	t.Run("move and read back", func(t *testing.T) {
		err := store.Move(keysetDomain.Move{
			From:   keysetDomain.StageStaging,
			To:     keysetDomain.StageActive,
			Name:   "AbCd1234.der",
			Target: "AbCd1234.der",
		})
		require.NoError(t, err)

		data, err := store.ReadFile(keysetDomain.StageActive, "AbCd1234.der")
		require.NoError(t, err)
		assert.Equal(t, []byte("wrapped-AbCd1234"), data)

		_, err = store.FindKeySet("AbCd1234", keysetDomain.StageStaging)
		assert.ErrorIs(t, err, keysetDomain.ErrKeySetNotFound)
	})

	t.Run("remove missing file succeeds", func(t *testing.T) {
		assert.NoError(t, store.Remove(keysetDomain.StageStaging, "AbCd1234.der"))
	})
}

func TestFileKeyStore_FindKeySet(t *testing.T) {
	fsys := testutil.NewMemoryFileSystem()
	store := NewFileKeyStore(fsys, "/keys")
	require.NoError(t, store.EnsureLayout())

	writeKeySet(t, store, keysetDomain.StageActive, "Active01")
	writeKeySet(t, store, keysetDomain.StageRetired, "Retire01")

	t.Run("found in active", func(t *testing.T) {
		keySet, err := store.FindKeySet("Active01", keysetDomain.StageActive)
		require.NoError(t, err)
		assert.Equal(t, keysetDomain.StageActive, keySet.Stage)
		assert.Equal(t, "/keys/current", keySet.Dir)
	})

	t.Run("not found in wrong stage", func(t *testing.T) {
		_, err := store.FindKeySet("Retire01", keysetDomain.StageActive)
		assert.ErrorIs(t, err, keysetDomain.ErrKeySetNotFound)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("fallback through stages", func(t *testing.T) {
		keySet, err := store.FindKeySetIn("Retire01", keysetDomain.StageActive, keysetDomain.StageRetired)
		require.NoError(t, err)
		assert.Equal(t, keysetDomain.StageRetired, keySet.Stage)

		_, err = store.FindKeySetIn("Missing1", keysetDomain.StageActive, keysetDomain.StageRetired)
		assert.ErrorIs(t, err, keysetDomain.ErrKeySetNotFound)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		_, err := store.FindKeySet("bad.name", keysetDomain.StageActive)
		assert.ErrorIs(t, err, keysetDomain.ErrInvalidIdentifier)
	})

	t.Run("missing directory counts as empty", func(t *testing.T) {
		empty := NewFileKeyStore(testutil.NewMemoryFileSystem(), "/nowhere")
		_, err := empty.FindKeySet("Active01", keysetDomain.StageRetired)
		assert.ErrorIs(t, err, keysetDomain.ErrKeySetNotFound)
	})

	t.Run("listing failure is a storage error", func(t *testing.T) {
		fsys.FailOn(testutil.OpReadDir, "/keys/history", errors.New("permission denied"))
		defer fsys.FailOn(testutil.OpReadDir, "/keys/history", nil)

		_, err := store.FindKeySet("Retire01", keysetDomain.StageRetired)
		assert.ErrorIs(t, err, keysetDomain.ErrKeyStoreUnavailable)
		assert.True(t, apperrors.Is(err, apperrors.ErrStorageFailure))
	})
}

func TestFileKeyStore_ListKeySets(t *testing.T) {
	fsys := testutil.NewMemoryFileSystem()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := NewFileKeyStore(fsys, "/keys")
	require.NoError(t, store.EnsureLayout())

	fsys.SetClock(func() time.Time { return base.Add(time.Hour) })
	writeKeySet(t, store, keysetDomain.StageRetired, "Newer001")
	fsys.SetClock(func() time.Time { return base })
	writeKeySet(t, store, keysetDomain.StageRetired, "Older001")
	require.NoError(t, store.WriteFile(keysetDomain.StageRetired, "Orphan01.der", []byte("x")))

	keySets, rejected, err := store.ListKeySets(keysetDomain.StageRetired)
	require.NoError(t, err)
	require.Len(t, keySets, 2)
	assert.Equal(t, "Older001", keySets[0].ID)
	assert.Equal(t, "Newer001", keySets[1].ID)
	require.Len(t, rejected, 1)
	assert.Equal(t, "Orphan01", rejected[0].Token)

	_, _, err = store.ListKeySets("archive")
	assert.ErrorIs(t, err, keysetDomain.ErrInvalidStage)
}
