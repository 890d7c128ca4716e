package repository

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// FileKeyStore reads and moves key set files in the stage directories below
// root. Key set metadata is derived from a directory scan on every call.
type FileKeyStore struct {
	fs   FileSystem
	root string
	now  func() time.Time
}

// NewFileKeyStore creates a key store rooted at root.
func NewFileKeyStore(fs FileSystem, root string) *FileKeyStore {
	return &FileKeyStore{fs: fs, root: filepath.Clean(root), now: time.Now}
}

// Root returns the key directory root.
func (s *FileKeyStore) Root() string {
	return s.root
}

// Dir returns the directory of stage.
func (s *FileKeyStore) Dir(stage keysetDomain.Stage) string {
	return filepath.Join(s.root, stage.Dir())
}

// EnsureLayout creates the root and the three stage directories.
func (s *FileKeyStore) EnsureLayout() error {
	for _, stage := range keysetDomain.Stages {
		if err := s.fs.MkdirAll(s.Dir(stage)); err != nil {
			return storageError(fmt.Sprintf("failed to create %s directory", stage), err)
		}
	}
	return nil
}

// List returns the files of stage.
func (s *FileKeyStore) List(stage keysetDomain.Stage) ([]keysetDomain.FileEntry, error) {
	if !stage.Valid() {
		return nil, keysetDomain.ErrInvalidStage
	}
	entries, err := s.fs.ReadDir(s.Dir(stage))
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to list %s directory", stage), err)
	}
	return entries, nil
}

// FindKeySet returns the complete key set named id in stage. A missing
// directory counts as an empty one.
func (s *FileKeyStore) FindKeySet(id string, stage keysetDomain.Stage) (*keysetDomain.KeySet, error) {
	if err := keysetDomain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if !stage.Valid() {
		return nil, keysetDomain.ErrInvalidStage
	}

	entries, err := s.fs.ReadDir(s.Dir(stage))
	if isNotExist(err) {
		return nil, keysetDomain.ErrKeySetNotFound
	}
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to list %s directory", stage), err)
	}

	keySet, ok := keysetDomain.MatchKeySet(stage, s.Dir(stage), id, entries, s.now())
	if !ok {
		return nil, keysetDomain.ErrKeySetNotFound
	}
	return &keySet, nil
}

// FindKeySetIn searches stages in order and returns the first match.
func (s *FileKeyStore) FindKeySetIn(id string, stages ...keysetDomain.Stage) (*keysetDomain.KeySet, error) {
	for _, stage := range stages {
		keySet, err := s.FindKeySet(id, stage)
		if err == nil {
			return keySet, nil
		}
		if !errors.Is(err, keysetDomain.ErrKeySetNotFound) {
			return nil, err
		}
	}
	return nil, keysetDomain.ErrKeySetNotFound
}

// ListKeySets returns the complete key sets in stage sorted by creation time,
// together with groups that are not complete.
func (s *FileKeyStore) ListKeySets(
	stage keysetDomain.Stage,
) ([]keysetDomain.KeySet, []keysetDomain.RejectedGroup, error) {
	entries, err := s.List(stage)
	if err != nil {
		return nil, nil, err
	}
	candidates, rejected := keysetDomain.GroupCandidates(stage, s.Dir(stage), entries)
	return candidates, rejected, nil
}

// ReadFile returns the contents of name in stage.
func (s *FileKeyStore) ReadFile(stage keysetDomain.Stage, name string) ([]byte, error) {
	data, err := s.fs.ReadFile(filepath.Join(s.Dir(stage), name))
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to read %s/%s", stage.Dir(), name), err)
	}
	return data, nil
}

// WriteFile atomically writes name into stage.
func (s *FileKeyStore) WriteFile(stage keysetDomain.Stage, name string, data []byte) error {
	if err := s.fs.WriteFile(filepath.Join(s.Dir(stage), name), data); err != nil {
		return storageError(fmt.Sprintf("failed to write %s/%s", stage.Dir(), name), err)
	}
	return nil
}

// Move performs one planned file move, replacing the target if it exists.
func (s *FileKeyStore) Move(move keysetDomain.Move) error {
	from := filepath.Join(s.Dir(move.From), move.Name)
	to := filepath.Join(s.Dir(move.To), move.Target)
	if err := s.fs.Rename(from, to); err != nil {
		return storageError(
			fmt.Sprintf("failed to move %s/%s to %s/%s", move.From.Dir(), move.Name, move.To.Dir(), move.Target),
			err,
		)
	}
	return nil
}

// Remove deletes name from stage. Removing a file that is already gone succeeds.
func (s *FileKeyStore) Remove(stage keysetDomain.Stage, name string) error {
	err := s.fs.Remove(filepath.Join(s.Dir(stage), name))
	if err != nil && !isNotExist(err) {
		return storageError(fmt.Sprintf("failed to remove %s/%s", stage.Dir(), name), err)
	}
	return nil
}

func storageError(message string, cause error) error {
	return fmt.Errorf("%w: %s: %v", keysetDomain.ErrKeyStoreUnavailable, message, cause)
}
