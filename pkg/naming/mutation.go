package naming

import (
	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/fsnode"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// resolveChainLocked resolves path and locks every ancestor shared,
// root-to-parent, to make resolution safe — the target's own lock is not
// taken here. spec.md §5 says these routine reads "rely on the caller
// having invoked lock(path, …) beforehand"; taking the target's lock a
// second time here would either double-count a shared hold pointlessly or,
// worse, deadlock against a caller already holding it exclusively. Locking
// only the ancestors is the explicit version of the resolution-path
// locking spec.md §5 asks implementations to add.
func (t *Tree) resolveChainLocked(path nspath.Path) ([]*fsnode.Node, error) {
	nodes, err := t.resolveChain(path)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes[:len(nodes)-1] {
		n.Lock(false)
	}
	return nodes, nil
}

func (t *Tree) releaseChain(nodes []*fsnode.Node) {
	for i := len(nodes) - 2; i >= 0; i-- {
		_ = nodes[i].Unlock(false)
	}
}

// IsDirectory resolves path and reports whether it names a directory.
func (t *Tree) IsDirectory(path nspath.Path) (bool, error) {
	nodes, err := t.resolveChainLocked(path)
	if err != nil {
		return false, err
	}
	defer t.releaseChain(nodes)
	return nodes[len(nodes)-1].IsDirectory(), nil
}

// List resolves path as a directory and returns its children's names in
// unspecified order.
func (t *Tree) List(path nspath.Path) ([]string, error) {
	nodes, err := t.resolveChainLocked(path)
	if err != nil {
		return nil, err
	}
	defer t.releaseChain(nodes)

	target := nodes[len(nodes)-1]
	if !target.IsDirectory() {
		return nil, errs.Newf(errs.NotFound, path.String(), "not a directory")
	}
	return target.ChildNames(), nil
}

// GetStorage resolves path as a file and returns the client stub of its
// primary replica.
func (t *Tree) GetStorage(path nspath.Path) (ClientStub, error) {
	nodes, err := t.resolveChainLocked(path)
	if err != nil {
		return nil, err
	}
	defer t.releaseChain(nodes)

	target := nodes[len(nodes)-1]
	if target.IsDirectory() {
		return nil, errs.Newf(errs.NotFound, path.String(), "not a file")
	}
	return t.registry.Client(target.Primary()), nil
}

// lockParentForMutation locks the root and the parent directory of path in
// the mode a structural mutation needs: the root shared (so it cannot
// interleave with a Register call's root-exclusive hold, per spec.md §9's
// resolved open question), the parent exclusive (so it can gain or lose a
// child). When the parent is the root itself, a single exclusive hold on
// the root satisfies both requirements — taking a shared lock first would
// deadlock against sync.RWMutex's non-reentrance.
func (t *Tree) lockParentForMutation(parentPath nspath.Path) (parent *fsnode.Node, unlock func(), err error) {
	if parentPath.IsRoot() {
		t.root.Lock(true)
		return t.root, func() { _ = t.root.Unlock(true) }, nil
	}

	t.root.Lock(false)
	nodes, resolveErr := t.resolveChain(parentPath)
	if resolveErr != nil {
		_ = t.root.Unlock(false)
		return nil, nil, resolveErr
	}
	parent = nodes[len(nodes)-1]
	parent.Lock(true)
	return parent, func() {
		_ = parent.Unlock(true)
		_ = t.root.Unlock(false)
	}, nil
}

// CreateFile creates an empty file at path on a storage server chosen by
// the tree's placement policy. Returns false, without error, if path is
// root, if its parent already has a child of that name, or if the chosen
// server reports it could not create the file.
func (t *Tree) CreateFile(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	parentPath, err := path.Parent()
	if err != nil {
		return false, err
	}
	name, err := path.Last()
	if err != nil {
		return false, err
	}

	parent, unlock, err := t.lockParentForMutation(parentPath)
	if err != nil {
		return false, err
	}
	defer unlock()

	if !parent.IsDirectory() {
		return false, errs.Newf(errs.NotFound, parentPath.String(), "parent is not a directory")
	}
	if _, err := parent.Find(name); err == nil {
		return false, nil
	}

	index, err := t.placement.Select(t.registry)
	if err != nil {
		return false, errs.Newf(errs.State, path.String(), err.Error())
	}

	ok, err := t.registry.Command(index).Create(path)
	if err != nil {
		return false, errs.Newf(errs.Remote, path.String(), err.Error())
	}
	if !ok {
		return false, nil
	}

	if err := parent.InsertChild(name, fsnode.NewFile(index)); err != nil {
		return false, err
	}
	return true, nil
}

// CreateDirectory creates an empty directory at path. Analogous to
// CreateFile but never touches a storage server.
func (t *Tree) CreateDirectory(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	parentPath, err := path.Parent()
	if err != nil {
		return false, err
	}
	name, err := path.Last()
	if err != nil {
		return false, err
	}

	parent, unlock, err := t.lockParentForMutation(parentPath)
	if err != nil {
		return false, err
	}
	defer unlock()

	if !parent.IsDirectory() {
		return false, errs.Newf(errs.NotFound, parentPath.String(), "parent is not a directory")
	}
	if _, err := parent.Find(name); err == nil {
		return false, nil
	}
	if err := parent.InsertChild(name, fsnode.NewDirectory()); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes path, recursively, from the tree, commanding every
// storage server hosting a replica of any file under it to delete it
// locally. It returns the logical AND of those command results; a
// transport failure from any of them surfaces as a remote error instead.
func (t *Tree) Delete(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return false, nil
	}
	parentPath, err := path.Parent()
	if err != nil {
		return false, err
	}
	name, err := path.Last()
	if err != nil {
		return false, err
	}

	parent, unlock, err := t.lockParentForMutation(parentPath)
	if err != nil {
		return false, err
	}
	defer unlock()

	if !parent.IsDirectory() {
		return false, errs.Newf(errs.NotFound, parentPath.String(), "parent is not a directory")
	}
	child, err := parent.Find(name)
	if err != nil {
		return false, err
	}

	indices := map[int]struct{}{}
	child.EachFile(func(f *fsnode.Node) {
		for _, idx := range f.Replicas() {
			indices[idx] = struct{}{}
		}
	})

	result := true
	for idx := range indices {
		ok, err := t.registry.Command(idx).Delete(path)
		if err != nil {
			return false, errs.Newf(errs.Remote, path.String(), err.Error())
		}
		if !ok {
			result = false
		}
	}

	if err := parent.RemoveChild(name); err != nil {
		return false, err
	}
	return result, nil
}
