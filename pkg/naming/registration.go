package naming

import (
	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/fsnode"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// Register onboards a storage server. It rejects a stub pair already
// known to the registry, then holds the root's exclusive lock for the
// whole call: this both serializes registration against itself and, per
// spec.md §9's resolved open question, against every structural mutation
// (CreateFile, CreateDirectory, Delete), which each take at least a
// shared root lock.
//
// declaredFiles lists every file the storage server already has on local
// disk. A path whose last component already exists in the tree is
// reported back as a duplicate and left untouched; the caller is expected
// to delete its own local copy of every duplicate so that exactly one
// replica of each file survives registration.
func (t *Tree) Register(client ClientStub, command CommandStub, declaredFiles []nspath.Path) ([]nspath.Path, error) {
	if client == nil || command == nil {
		return nil, errs.New(errs.Argument, "register: stub must not be nil")
	}
	if t.registry.HasStub(client, command) {
		return nil, errs.New(errs.State, "register: duplicate stub")
	}

	t.root.Lock(true)
	defer func() { _ = t.root.Unlock(true) }()

	index := t.registry.Append(client, command)

	var duplicates []nspath.Path
	for _, path := range declaredFiles {
		if path.IsRoot() {
			continue
		}
		parentPath, err := path.Parent()
		if err != nil {
			return nil, err
		}
		name, err := path.Last()
		if err != nil {
			return nil, err
		}

		parent, err := t.ensureDirectoryChain(parentPath)
		if err != nil {
			return nil, err
		}
		if _, err := parent.Find(name); err == nil {
			duplicates = append(duplicates, path)
			continue
		}
		if err := parent.InsertChild(name, fsnode.NewFile(index)); err != nil {
			return nil, err
		}
	}

	t.log.Info("registered storage server %s (index %d), %d duplicate(s)", client.Address(), index, len(duplicates))
	return duplicates, nil
}

// ensureDirectoryChain walks from the root along path's components,
// creating any missing directory node along the way, and fails argument if
// an existing component along the way is a file rather than a directory.
// The caller must already hold the root's exclusive lock.
func (t *Tree) ensureDirectoryChain(path nspath.Path) (*fsnode.Node, error) {
	cur := t.root
	for _, c := range path.Components() {
		next, err := cur.Find(c)
		if err != nil {
			next = fsnode.NewDirectory()
			if err := cur.InsertChild(c, next); err != nil {
				return nil, err
			}
		} else if !next.IsDirectory() {
			return nil, errs.Newf(errs.Argument, path.String(), "path component is a file, not a directory")
		}
		cur = next
	}
	return cur, nil
}
