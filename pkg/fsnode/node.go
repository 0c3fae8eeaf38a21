// Package fsnode implements the naming server's in-memory directory-tree
// node: a directory-or-file tagged union, each instance owning its own
// reader/writer lock.
//
// A Node is created when its parent inserts it and destroyed when its
// parent removes it; it never exists detached from the tree it belongs to.
package fsnode

import (
	"sync"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// Kind discriminates the two node shapes. Deliberately not encoded as "one
// field nil, one set" — every Node carries exactly one of dir or file, never
// both, never neither.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

type dirPayload struct {
	children map[string]*Node
}

type filePayload struct {
	// replicas holds the storage-registry indices hosting this file.
	// replicas[0] is the primary; it is never removed.
	replicas []int
	// readCount counts shared locks taken since the last time the replica
	// list changed, either by addition (read replication) or reset to the
	// primary alone (write invalidation).
	readCount int
}

// Node is one entry of the naming tree: a directory with named children, or
// a file with a replica list. Every Node owns its own lock so that disjoint
// subtrees can be locked concurrently.
type Node struct {
	mu sync.RWMutex

	// stateMu guards exclusiveHeld/sharedCount, the holder bookkeeping that
	// lets Unlock detect a mismatched or redundant unlock and report it as
	// an argument error instead of either panicking (an unbalanced
	// sync.RWMutex unlock panics the whole process) or silently no-opping.
	stateMu       sync.Mutex
	exclusiveHeld bool
	sharedCount   int

	kind Kind
	dir  *dirPayload
	file *filePayload
}

// NewDirectory creates an empty directory node.
func NewDirectory() *Node {
	return &Node{kind: KindDirectory, dir: &dirPayload{children: make(map[string]*Node)}}
}

// NewFile creates a file node whose sole replica is primary.
func NewFile(primary int) *Node {
	return &Node{kind: KindFile, file: &filePayload{replicas: []int{primary}}}
}

// Kind reports whether the node is a directory or a file.
func (n *Node) Kind() Kind { return n.kind }

// IsDirectory reports whether the node is a directory.
func (n *Node) IsDirectory() bool { return n.kind == KindDirectory }

// Lock acquires the node's own lock, shared or exclusive.
func (n *Node) Lock(exclusive bool) {
	if exclusive {
		n.mu.Lock()
	} else {
		n.mu.RLock()
	}

	n.stateMu.Lock()
	if exclusive {
		n.exclusiveHeld = true
	} else {
		n.sharedCount++
	}
	n.stateMu.Unlock()
}

// Unlock releases the node's own lock, shared or exclusive. It reports an
// Argument error, and leaves the underlying lock untouched, if the node is
// not currently held in the requested mode — this covers both unlocking a
// path that was never locked and a mismatched shared/exclusive mode.
func (n *Node) Unlock(exclusive bool) error {
	n.stateMu.Lock()
	if exclusive {
		if !n.exclusiveHeld {
			n.stateMu.Unlock()
			return errs.New(errs.Argument, "unlock: node is not exclusively locked")
		}
		n.exclusiveHeld = false
	} else {
		if n.sharedCount == 0 {
			n.stateMu.Unlock()
			return errs.New(errs.Argument, "unlock: node is not shared locked")
		}
		n.sharedCount--
	}
	n.stateMu.Unlock()

	if exclusive {
		n.mu.Unlock()
	} else {
		n.mu.RUnlock()
	}
	return nil
}

// Find returns the named child of a directory node, or fails NotFound if
// the node is not a directory or has no such child.
func (n *Node) Find(name string) (*Node, error) {
	if n.kind != KindDirectory {
		return nil, errs.Newf(errs.NotFound, name, "not a directory")
	}
	child, ok := n.dir.children[name]
	if !ok {
		return nil, errs.Newf(errs.NotFound, name, "no such child")
	}
	return child, nil
}

// FindPath walks from n following path's components in turn, calling Find
// at each step.
func (n *Node) FindPath(path nspath.Path) (*Node, error) {
	cur := n
	for _, c := range path.Components() {
		next, err := cur.Find(c)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// FindTyped is FindPath followed by a kind check.
func (n *Node) FindTyped(path nspath.Path, wantDirectory bool) (*Node, error) {
	found, err := n.FindPath(path)
	if err != nil {
		return nil, err
	}
	if found.IsDirectory() != wantDirectory {
		return nil, errs.Newf(errs.NotFound, path.String(), "wrong node kind")
	}
	return found, nil
}

// insert adds child under the given name. The caller must hold n's
// exclusive lock and must already know n is a directory.
func (n *Node) insert(name string, child *Node) {
	n.dir.children[name] = child
}

// remove deletes the named child. The caller must hold n's exclusive lock.
func (n *Node) remove(name string) {
	delete(n.dir.children, name)
}

// has reports whether a child with the given name exists.
func (n *Node) has(name string) bool {
	_, ok := n.dir.children[name]
	return ok
}

// InsertChild adds child under name, failing argument if n is not a
// directory. The caller must hold n's exclusive lock.
func (n *Node) InsertChild(name string, child *Node) error {
	if n.kind != KindDirectory {
		return errs.Newf(errs.Argument, name, "cannot insert into a non-directory")
	}
	n.insert(name, child)
	return nil
}

// RemoveChild deletes the named child, failing not-found if it does not
// exist. The caller must hold n's exclusive lock.
func (n *Node) RemoveChild(name string) error {
	if n.kind != KindDirectory {
		return errs.Newf(errs.Argument, name, "cannot remove from a non-directory")
	}
	if !n.has(name) {
		return errs.Newf(errs.NotFound, name, "no such child")
	}
	n.remove(name)
	return nil
}

// ChildNames returns the directory's child names in unspecified order. The
// caller must hold at least a shared lock on n.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.dir.children))
	for name := range n.dir.children {
		names = append(names, name)
	}
	return names
}

// EachFile visits every file-node descendant of n in any order, including n
// itself if n is a file. The caller must hold at least a shared lock
// somewhere along the path to n sufficient to make this traversal safe;
// EachFile does not itself acquire node locks.
func (n *Node) EachFile(visit func(*Node)) {
	if n.kind == KindFile {
		visit(n)
		return
	}
	for _, child := range n.dir.children {
		child.EachFile(visit)
	}
}

// Replicas returns a copy of the file node's replica list. The caller must
// hold at least a shared lock on n.
func (n *Node) Replicas() []int {
	out := make([]int, len(n.file.replicas))
	copy(out, n.file.replicas)
	return out
}

// Primary returns the file node's primary replica index.
func (n *Node) Primary() int {
	return n.file.replicas[0]
}

// ReadCount returns the file node's current read counter.
func (n *Node) ReadCount() int {
	return n.file.readCount
}

// IncrementReadCount bumps the read counter and returns the new value. The
// caller must hold n's lock (shared, per the caller that is itself taking a
// shared lock on the file).
func (n *Node) IncrementReadCount() int {
	n.file.readCount++
	return n.file.readCount
}

// ResetReadCount zeroes the read counter.
func (n *Node) ResetReadCount() {
	n.file.readCount = 0
}

// AddReplica appends a new replica index. The caller must hold n's lock.
func (n *Node) AddReplica(index int) {
	n.file.replicas = append(n.file.replicas, index)
}

// RetainPrimaryOnly drops every replica but the primary, returning the
// dropped indices. The caller must hold n's lock.
func (n *Node) RetainPrimaryOnly() []int {
	dropped := n.file.replicas[1:]
	out := make([]int, len(dropped))
	copy(out, dropped)
	n.file.replicas = n.file.replicas[:1]
	return out
}
