// Package localdisk implements storageengine.Engine over a directory on
// the local filesystem, the spec-mandated storage backend.
package localdisk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/marmos91/nsfs/pkg/storageengine"
)

// Engine roots every path at a local directory. Every operation holds a
// single exclusive guard for its duration: the naming server's path-level
// locks already serialize most cross-client contention, but this guard
// still prevents a second request racing on the same host.
type Engine struct {
	mu   sync.Mutex
	root string
}

// New creates an Engine rooted at root. The directory is created if it
// does not already exist.
func New(root string) (*Engine, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", root, err)
	}
	return &Engine{root: filepath.Clean(root)}, nil
}

func (e *Engine) absolute(path nspath.Path) string {
	return filepath.Join(e.root, filepath.FromSlash(path.String()))
}

// ========================================================================
// Size
// ========================================================================

func (e *Engine) Size(path nspath.Path) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size(path)
}

func (e *Engine) size(path nspath.Path) (int64, error) {
	info, err := os.Stat(e.absolute(path))
	if err != nil || info.IsDir() {
		return 0, errs.Newf(errs.NotFound, path.String(), "file not found")
	}
	return info.Size(), nil
}

// ========================================================================
// Read
// ========================================================================

func (e *Engine) Read(path nspath.Path, offset, length int64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	size, err := e.size(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > size {
		return nil, errs.Newf(errs.OutOfRange, path.String(), "read out of range")
	}

	f, err := os.Open(e.absolute(path))
	if err != nil {
		return nil, errs.Newf(errs.IO, path.String(), err.Error())
	}
	defer f.Close()

	buf := make([]byte, length)
	if length > 0 {
		if _, err := f.ReadAt(buf, offset); err != nil && err != io.EOF {
			return nil, errs.Newf(errs.IO, path.String(), err.Error())
		}
	}
	return buf, nil
}

// ========================================================================
// Write
// ========================================================================

func (e *Engine) Write(path nspath.Path, offset int64, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if offset < 0 {
		return errs.Newf(errs.OutOfRange, path.String(), "negative offset")
	}

	abs := e.absolute(path)
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return errs.Newf(errs.NotFound, path.String(), "file not found")
	}

	f, err := os.OpenFile(abs, os.O_WRONLY, 0644)
	if err != nil {
		return errs.Newf(errs.IO, path.String(), err.Error())
	}
	defer f.Close()

	if _, err := f.WriteAt(data, offset); err != nil {
		return errs.Newf(errs.IO, path.String(), err.Error())
	}
	return nil
}

// ========================================================================
// Create
// ========================================================================

func (e *Engine) Create(path nspath.Path) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if path.IsRoot() {
		return false, nil
	}

	abs := e.absolute(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return false, nil
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		// Already exists, or some other failure creating it.
		return false, nil
	}
	f.Close()
	return true, nil
}

// ========================================================================
// Delete
// ========================================================================

func (e *Engine) Delete(path nspath.Path) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if path.IsRoot() {
		return false, nil
	}

	abs := e.absolute(path)
	if err := os.RemoveAll(abs); err != nil {
		return false, nil
	}

	// Prune now-empty ancestors up to, but not including, the root.
	dir := filepath.Dir(abs)
	for dir != e.root && strings.HasPrefix(dir, e.root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			return false, nil
		}
		dir = filepath.Dir(dir)
	}

	return true, nil
}

// ========================================================================
// Copy
// ========================================================================

func (e *Engine) Copy(path nspath.Path, source storageengine.Source) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if path.IsRoot() {
		return false, nil
	}

	size, err := source.Size(path)
	if err != nil {
		return false, err
	}
	data, err := source.Read(path, 0, size)
	if err != nil {
		return false, err
	}

	abs := e.absolute(path)
	_ = os.Remove(abs)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return false, errs.Newf(errs.IO, path.String(), err.Error())
	}
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return false, errs.Newf(errs.IO, path.String(), err.Error())
	}
	defer f.Close()
	if _, err := f.WriteAt(data, 0); err != nil {
		return false, errs.Newf(errs.IO, path.String(), err.Error())
	}
	return true, nil
}

// ListLocalFiles walks the engine's root and returns every regular file's
// path, relative to the root. Used at storage-server startup to reconcile
// against the naming server during registration.
func (e *Engine) ListLocalFiles() ([]nspath.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var paths []nspath.Path
	err := filepath.Walk(e.root, func(walked string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(e.root, walked)
		if err != nil {
			return err
		}
		p, err := nspath.Parse("/" + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing local files under %s: %w", e.root, err)
	}
	return paths, nil
}
