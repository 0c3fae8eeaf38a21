package fsnode

import (
	"testing"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() *Node {
	root := NewDirectory()
	a := NewDirectory()
	root.insert("a", a)
	b := NewFile(0)
	a.insert("b", b)
	return root
}

func TestFindPath(t *testing.T) {
	root := buildTree()

	found, err := root.FindPath(nspath.MustParse("/a/b"))
	require.NoError(t, err)
	assert.Equal(t, KindFile, found.Kind())

	_, err = root.FindPath(nspath.MustParse("/a/missing"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.NotFound))

	// Finding through a file fails, since a file has no children.
	_, err = root.FindPath(nspath.MustParse("/a/b/c"))
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestFindTyped(t *testing.T) {
	root := buildTree()

	_, err := root.FindTyped(nspath.MustParse("/a"), true)
	require.NoError(t, err)

	_, err = root.FindTyped(nspath.MustParse("/a"), false)
	assert.True(t, errs.Is(err, errs.NotFound))

	_, err = root.FindTyped(nspath.MustParse("/a/b"), false)
	require.NoError(t, err)
}

func TestEachFile(t *testing.T) {
	root := NewDirectory()
	a := NewDirectory()
	root.insert("a", a)
	a.insert("f1", NewFile(0))
	a.insert("f2", NewFile(1))
	root.insert("f3", NewFile(0))

	var names []*Node
	root.EachFile(func(n *Node) { names = append(names, n) })
	assert.Len(t, names, 3)
}

func TestReplicaBookkeeping(t *testing.T) {
	f := NewFile(0)
	assert.Equal(t, []int{0}, f.Replicas())
	assert.Equal(t, 0, f.Primary())
	assert.Equal(t, 0, f.ReadCount())

	for i := 0; i < 20; i++ {
		f.IncrementReadCount()
	}
	assert.Equal(t, 20, f.ReadCount())

	f.AddReplica(1)
	f.ResetReadCount()
	assert.Equal(t, []int{0, 1}, f.Replicas())
	assert.Equal(t, 0, f.ReadCount())

	dropped := f.RetainPrimaryOnly()
	assert.Equal(t, []int{1}, dropped)
	assert.Equal(t, []int{0}, f.Replicas())
}

func TestLockUnlockModes(t *testing.T) {
	n := NewDirectory()

	n.Lock(false)
	n.Lock(false)
	require.NoError(t, n.Unlock(false))
	require.NoError(t, n.Unlock(false))

	n.Lock(true)
	require.NoError(t, n.Unlock(true))
}

func TestUnlockWithoutLockIsArgumentError(t *testing.T) {
	n := NewDirectory()

	err := n.Unlock(false)
	assert.True(t, errs.Is(err, errs.Argument))

	err = n.Unlock(true)
	assert.True(t, errs.Is(err, errs.Argument))
}

func TestUnlockModeMismatchIsArgumentError(t *testing.T) {
	n := NewDirectory()

	n.Lock(false)
	err := n.Unlock(true)
	assert.True(t, errs.Is(err, errs.Argument))
	require.NoError(t, n.Unlock(false))

	n.Lock(true)
	err = n.Unlock(false)
	assert.True(t, errs.Is(err, errs.Argument))
	require.NoError(t, n.Unlock(true))
}
