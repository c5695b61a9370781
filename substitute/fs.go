package substitute

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tsawler/edlkit/format"
)

// FileSystem is the storage the engine reads displays from and writes
// rewritten displays to
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	Exists(name string) bool
}

// OSFS is the local file system. Writes are atomic and keep the file mode.
type OSFS struct{}

func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFS) WriteFile(name string, data []byte) error {
	return format.WriteFileAtomic(name, data)
}

func (OSFS) Exists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// MemFS is an in-memory file system keyed by cleaned path
type MemFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes []string
}

// NewMemFS creates a file system holding the given files
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{files: make(map[string][]byte, len(files))}
	for name, data := range files {
		m.files[filepath.Clean(name)] = []byte(data)
	}
	return m
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFS) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = filepath.Clean(name)
	m.files[name] = append([]byte(nil), data...)
	m.writes = append(m.writes, name)
	return nil
}

func (m *MemFS) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(name)]
	return ok
}

// File returns the current content of a file
func (m *MemFS) File(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.files[filepath.Clean(name)])
}

// Writes returns the paths written so far, in order
func (m *MemFS) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// Names returns all file names, sorted
func (m *MemFS) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
