// Package storageengine defines the per-host file operations a storage
// server performs against its backing store.
//
// Engine is implemented by localdisk (the spec-mandated local filesystem
// root) and by s3backend (an alternate object-storage-backed engine). Both
// satisfy the same contract: size/read/write/create/delete/copy over a
// rooted namespace. localdisk holds a host-level exclusive guard for the
// duration of each call so a second request never races on the same host;
// s3backend takes no such guard and sends each call straight to the bucket.
package storageengine

import "github.com/marmos91/nsfs/pkg/nspath"

// Source is queried by Copy to pull a file's bytes from another storage
// server. It is satisfied by a Storage RPC client stub and, in tests, by an
// Engine directly.
type Source interface {
	Size(path nspath.Path) (int64, error)
	Read(path nspath.Path, offset, length int64) ([]byte, error)
}

// Engine is the set of operations a storage server performs against its
// local root on behalf of the naming server (create/delete/copy) and
// clients (size/read/write).
type Engine interface {
	// Size returns the byte length of the file at path. Fails NotFound if
	// path is missing or is a directory.
	Size(path nspath.Path) (int64, error)

	// Read returns exactly length bytes starting at offset. Fails NotFound
	// as Size does; fails OutOfRange if offset or length is negative, or if
	// offset+length exceeds the current size.
	Read(path nspath.Path, offset, length int64) ([]byte, error)

	// Write performs a random-access write, extending the file if needed.
	// Fails NotFound if path is missing or is a directory; fails
	// OutOfRange if offset is negative.
	Write(path nspath.Path, offset int64, data []byte) error

	// Create makes an empty regular file, creating missing ancestor
	// directories as needed. Returns false (with no error) if path is the
	// root or if the file already exists.
	Create(path nspath.Path) (bool, error)

	// Delete recursively removes the file or directory subtree at path,
	// then prunes now-empty ancestor directories up to (but not including)
	// the root. Returns false if path is root or any removal fails.
	Delete(path nspath.Path) (bool, error)

	// Copy pulls path's bytes from source, replacing any local copy.
	// Returns false if path is root.
	Copy(path nspath.Path, source Source) (bool, error)
}
