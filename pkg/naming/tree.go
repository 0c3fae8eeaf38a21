// Package naming implements the naming server's metadata engine: the
// directory tree, hierarchical locking, the replication policy, tree
// mutation, and storage-server registration.
package naming

import (
	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/internal/logger"
	"github.com/marmos91/nsfs/pkg/fsnode"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// Tree is the naming server's in-memory metadata store: a root fsnode.Node
// plus the storage registry and placement policy that give file nodes
// meaning. The tree itself is process-memory only, per spec.md's Non-goals
// on persistent metadata; it is rebuilt entirely from Register calls.
type Tree struct {
	root                 *fsnode.Node
	registry             *Registry
	placement            SelectionPolicy
	log                  *logger.Logger
	replicationThreshold int
}

// NewTree creates an empty tree backed by registry, placing new files with
// placement. The replication threshold defaults to 20 (spec.md §4.4.2);
// override it with SetReplicationThreshold.
func NewTree(registry *Registry, placement SelectionPolicy) *Tree {
	return &Tree{
		root:                 fsnode.NewDirectory(),
		registry:             registry,
		placement:            placement,
		log:                  logger.Named("naming-tree"),
		replicationThreshold: defaultReplicationThreshold,
	}
}

// SetReplicationThreshold overrides the read-count threshold that triggers
// replication. Not safe to call concurrently with Lock/Unlock.
func (t *Tree) SetReplicationThreshold(n int) {
	if n > 0 {
		t.replicationThreshold = n
	}
}

// resolveChain walks from the root following path's components, returning
// every node visited including the root and the target, in order. It does
// not acquire any locks; per spec.md §4.4.1, resolution happens before
// locking.
func (t *Tree) resolveChain(path nspath.Path) ([]*fsnode.Node, error) {
	nodes := make([]*fsnode.Node, 0, len(path.Components())+1)
	cur := t.root
	nodes = append(nodes, cur)
	for _, c := range path.Components() {
		next, err := cur.Find(c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, next)
		cur = next
	}
	return nodes, nil
}

// Lock implements hierarchical lock(path, exclusive): every ancestor is
// locked shared, root-to-target, before the target itself is locked in the
// requested mode. If the target is a file, the replication/invalidation
// policy of spec.md §4.4.2 runs while its lock is held.
func (t *Tree) Lock(path nspath.Path, exclusive bool) error {
	nodes, err := t.resolveChain(path)
	if err != nil {
		return err
	}
	ancestors, target := nodes[:len(nodes)-1], nodes[len(nodes)-1]

	for _, a := range ancestors {
		a.Lock(false)
	}
	target.Lock(exclusive)

	if target.Kind() == fsnode.KindFile {
		if err := t.applyFileLockPolicy(path, target, exclusive); err != nil {
			_ = target.Unlock(exclusive)
			unlockAncestors(ancestors)
			return err
		}
	}
	return nil
}

// Unlock implements hierarchical unlock(path, exclusive): the target is
// released first, then every ancestor, mirroring the acquisition order.
// Unlocking a path that was not locked, or with a mismatched mode,
// surfaces as an argument error.
func (t *Tree) Unlock(path nspath.Path, exclusive bool) error {
	nodes, err := t.resolveChain(path)
	if err != nil {
		return errs.Newf(errs.Argument, path.String(), "unlock: path does not resolve")
	}
	ancestors, target := nodes[:len(nodes)-1], nodes[len(nodes)-1]

	if err := target.Unlock(exclusive); err != nil {
		return err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if err := ancestors[i].Unlock(false); err != nil {
			return err
		}
	}
	return nil
}

func unlockAncestors(ancestors []*fsnode.Node) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		_ = ancestors[i].Unlock(false)
	}
}
