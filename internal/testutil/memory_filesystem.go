package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// Op names a FileSystem operation for failure injection.
type Op string

const (
	OpReadDir   Op = "readdir"
	OpReadFile  Op = "readfile"
	OpWriteFile Op = "writefile"
	OpRename    Op = "rename"
	OpRemove    Op = "remove"
)

type memFile struct {
	data    []byte
	modTime time.Time
}

// MemoryFileSystem is an in-memory key store FileSystem for tests. Directories
// must be created with MkdirAll before files are written into them. Failures
// can be injected per operation and path with FailOn, and OnReadFile runs a
// hook before a read so tests can interleave other operations.
type MemoryFileSystem struct {
	mu       sync.Mutex
	dirs     map[string]bool
	files    map[string]memFile
	failures map[Op]map[string]error
	hooks    map[string]func()
	clock    func() time.Time
}

// NewMemoryFileSystem creates an empty MemoryFileSystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		dirs:     make(map[string]bool),
		files:    make(map[string]memFile),
		failures: make(map[Op]map[string]error),
		hooks:    make(map[string]func()),
		clock:    time.Now,
	}
}

// SetClock replaces the clock used to stamp written files.
func (m *MemoryFileSystem) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// FailOn makes op fail with err whenever it touches path. For Rename, path is
// the source. A nil err clears the failure.
func (m *MemoryFileSystem) FailOn(op Op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[op] == nil {
		m.failures[op] = make(map[string]error)
	}
	m.failures[op][filepath.Clean(path)] = err
}

// OnReadFile runs hook once, outside the lock, before the next ReadFile of path.
func (m *MemoryFileSystem) OnReadFile(path string, hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[filepath.Clean(path)] = hook
}

// Exists reports whether path is a file.
func (m *MemoryFileSystem) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Touch sets the modification time of path.
func (m *MemoryFileSystem) Touch(path string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if f, ok := m.files[path]; ok {
		f.modTime = modTime
		m.files[path] = f
	}
}

// MkdirAll records dir and its parents.
func (m *MemoryFileSystem) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		m.dirs[d] = true
		if filepath.Dir(d) == d {
			break
		}
	}
	return nil
}

// ReadDir lists files directly inside dir sorted by name.
func (m *MemoryFileSystem) ReadDir(dir string) ([]keysetDomain.FileEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	if err := m.failure(OpReadDir, dir); err != nil {
		return nil, err
	}
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	var entries []keysetDomain.FileEntry
	for path, f := range m.files {
		if filepath.Dir(path) == dir {
			entries = append(entries, keysetDomain.FileEntry{Name: filepath.Base(path), ModTime: f.modTime})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ReadFile returns a copy of the contents of path.
func (m *MemoryFileSystem) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)

	m.mu.Lock()
	hook := m.hooks[path]
	delete(m.hooks, path)
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpReadFile, path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

// WriteFile stores a copy of data at path.
func (m *MemoryFileSystem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.failure(OpWriteFile, path); err != nil {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	m.files[path] = memFile{data: append([]byte(nil), data...), modTime: m.clock()}
	return nil
}

// Rename moves from to to, keeping the modification time.
func (m *MemoryFileSystem) Rename(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to = filepath.Clean(from), filepath.Clean(to)
	if err := m.failure(OpRename, from); err != nil {
		return err
	}
	f, ok := m.files[from]
	if !ok {
		return &fs.PathError{Op: "rename", Path: from, Err: fs.ErrNotExist}
	}
	if !m.dirs[filepath.Dir(to)] {
		return &fs.PathError{Op: "rename", Path: to, Err: fs.ErrNotExist}
	}
	delete(m.files, from)
	m.files[to] = f
	return nil
}

// Remove deletes path.
func (m *MemoryFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.failure(OpRemove, path); err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, path)
	return nil
}

func (m *MemoryFileSystem) failure(op Op, path string) error {
	if err := m.failures[op][path]; err != nil {
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	return nil
}
