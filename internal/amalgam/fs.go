package amalgam

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// FileSystem is the storage the inliner reads headers from and writes the
// combined output to.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFile replaces path with data, creating missing parent directories.
	WriteFile(ctx context.Context, path string, data []byte) error
}

// AFS is a FileSystem backed by an afs.Service.
// Relative paths are made absolute against the working directory.
type AFS struct {
	service afs.Service
}

// NewAFS wraps service. A nil service uses afs.New().
func NewAFS(service afs.Service) *AFS {
	if service == nil {
		service = afs.New()
	}
	return &AFS{service: service}
}

// ReadFile returns the content of path.
// A missing file yields an error matching os.ErrNotExist.
func (a *AFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	location, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	ok, err := a.service.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	data, err := a.service.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WriteFile uploads data to path.
func (a *AFS) WriteFile(ctx context.Context, path string, data []byte) error {
	location, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	parent := filepath.Dir(location)
	ok, err := a.service.Exists(ctx, parent)
	if err != nil {
		return fmt.Errorf("checking %s: %w", parent, err)
	}
	if !ok {
		if err := a.service.Create(ctx, parent, file.DefaultDirOsMode, true); err != nil {
			return fmt.Errorf("creating %s: %w", parent, err)
		}
	}
	if err := a.service.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MemoryFS keeps files in a map keyed by cleaned path.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFS creates a MemoryFS seeded with files (path -> content).
func NewMemoryFS(files map[string]string) *MemoryFS {
	m := &MemoryFS{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[filepath.Clean(path)] = []byte(content)
	}
	return m
}

func (m *MemoryFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return bytes.Clone(data), nil
}

func (m *MemoryFS) WriteFile(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = bytes.Clone(data)
	return nil
}

// File returns the content stored at path.
func (m *MemoryFS) File(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

// Paths lists stored paths in sorted order.
func (m *MemoryFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
