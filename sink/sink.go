// Package sink provides output destinations for generated Java files.
package sink

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
)

// Sink receives generated file content. Paths are slash separated and
// relative; the sink decides where they land. Implementations must be safe
// for concurrent use, since components are written in parallel.
type Sink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Remover is implemented by sinks that can take a written file back. A
// component that fails halfway through writing removes its earlier files.
type Remover interface {
	Remove(ctx context.Context, path string) error
}

// FilesystemSink writes below a root directory.
type FilesystemSink struct {
	Root string
	Mode os.FileMode
	// Overwrite false makes existing files an error.
	Overwrite bool
}

// NewFilesystemSink returns a sink that overwrites files under root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{
		Root:      root,
		Mode:      config.DefaultFilePermissions,
		Overwrite: true,
	}
}

// WriteFile writes content through a temp file and a rename, so readers
// never see a partial file.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return errors.Wrap(err, "failed to resolve output root")
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return errors.Wrap(err, "failed to resolve path")
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return errors.Newf("path escapes output root: %q", path)
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	mode := s.Mode
	if mode == 0 {
		mode = config.DefaultFilePermissions
	}

	tmp, err := os.CreateTemp(dir, ".javabind-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if writeErr != nil {
		cleanup()
		return errors.Wrap(writeErr, "failed to write temp file")
	}
	if closeErr != nil {
		cleanup()
		return errors.Wrap(closeErr, "failed to close temp file")
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return errors.Wrap(err, "failed to set file mode")
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, fullPath); err != nil {
			cleanup()
			return errors.Wrap(err, "failed to rename temp file")
		}
		return nil
	}

	// Link fails when the target exists, without a stat/rename race.
	if err := os.Link(tmpPath, fullPath); err != nil {
		cleanup()
		if errors.Is(err, os.ErrExist) {
			return errors.WithHint(errors.Newf("file already exists: %q", path), "remove it or allow overwriting")
		}
		return errors.Wrap(err, "failed to create file")
	}
	cleanup()
	return nil
}

// Remove deletes a file written earlier. A missing file is not an error.
func (s *FilesystemSink) Remove(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to remove %s", path)
	}
	return nil
}

// MemorySink keeps files in memory. Used by tests and by --dry-run.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data := make([]byte, len(content))
	copy(data, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *MemorySink) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// Get returns a copy of one file, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path]
	if !ok {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// Paths returns the written paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of files.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// ValidatePath checks that path is relative, clean, slash separated and
// stays inside the root.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return errors.New("absolute paths not allowed")
	}
	if len(path) >= 2 && path[1] == ':' {
		return errors.New("absolute paths not allowed")
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return errors.Newf("path is not clean (expected %q)", cleaned)
	}
	return nil
}
