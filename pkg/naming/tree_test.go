package naming

import (
	"testing"

	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() (*Tree, *Registry) {
	registry := NewRegistry()
	return NewTree(registry, NewRoundRobin()), registry
}

// --- Scenario S3: register then duplicate ------------------------------

func TestRegisterThenDuplicate(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	s1 := newFakeStorage("host1:9000")

	dups, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/x"), nspath.MustParse("/y")})
	require.NoError(t, err)
	assert.Empty(t, dups)

	dups, err = tree.Register(s1, s1, []nspath.Path{nspath.MustParse("/y"), nspath.MustParse("/z")})
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.True(t, dups[0].Equal(nspath.MustParse("/y")))

	storage, err := tree.GetStorage(nspath.MustParse("/x"))
	require.NoError(t, err)
	assert.Equal(t, s0, storage)

	storage, err = tree.GetStorage(nspath.MustParse("/y"))
	require.NoError(t, err)
	assert.Equal(t, s0, storage, "duplicate registration must not overwrite the existing replica")

	storage, err = tree.GetStorage(nspath.MustParse("/z"))
	require.NoError(t, err)
	assert.Equal(t, s1, storage)
}

func TestRegisterRejectsDuplicateStub(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")

	_, err := tree.Register(s0, s0, nil)
	require.NoError(t, err)

	_, err = tree.Register(s0, s0, nil)
	assert.True(t, errs.Is(err, errs.State))
}

func TestRegisterCreatesMissingDirectories(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")

	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/a/b/c.txt")})
	require.NoError(t, err)

	isDir, err := tree.IsDirectory(nspath.MustParse("/a"))
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = tree.IsDirectory(nspath.MustParse("/a/b"))
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = tree.IsDirectory(nspath.MustParse("/a/b/c.txt"))
	require.NoError(t, err)
	assert.False(t, isDir)
}

// --- Lock / unlock -------------------------------------------------------

func TestLockUnlockDirectory(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/a/b.txt")})
	require.NoError(t, err)

	require.NoError(t, tree.Lock(nspath.MustParse("/a"), false))
	require.NoError(t, tree.Unlock(nspath.MustParse("/a"), false))
}

func TestUnlockWithoutLockIsArgumentError(t *testing.T) {
	tree, _ := newTestTree()
	err := tree.Unlock(nspath.Root, false)
	assert.True(t, errs.Is(err, errs.Argument))
}

func TestLockMissingPathIsNotFound(t *testing.T) {
	tree, _ := newTestTree()
	err := tree.Lock(nspath.MustParse("/missing"), false)
	assert.True(t, errs.Is(err, errs.NotFound))
}

// --- CreateFile / CreateDirectory / Delete ------------------------------

func TestCreateFileAndDuplicate(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	_, err := tree.Register(s0, s0, nil)
	require.NoError(t, err)

	ok, err := tree.CreateFile(nspath.MustParse("/x.txt"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.CreateFile(nspath.MustParse("/x.txt"))
	require.NoError(t, err)
	assert.False(t, ok, "creating an existing file must report false, not error")
}

func TestCreateFileRoot(t *testing.T) {
	tree, _ := newTestTree()
	ok, err := tree.CreateFile(nspath.Root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateFileNoStorageServersIsState(t *testing.T) {
	tree, _ := newTestTree()
	_, err := tree.CreateFile(nspath.MustParse("/x.txt"))
	assert.True(t, errs.Is(err, errs.State))
}

func TestCreateDirectoryIdempotence(t *testing.T) {
	tree, _ := newTestTree()

	ok, err := tree.CreateDirectory(nspath.MustParse("/a"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.CreateDirectory(nspath.MustParse("/a"))
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := tree.List(nspath.Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestDeleteThenNotFound(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/a/b.txt")})
	require.NoError(t, err)

	ok, err := tree.Delete(nspath.MustParse("/a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, s0.deletes, nspath.MustParse("/a"))

	_, err = tree.IsDirectory(nspath.MustParse("/a"))
	assert.True(t, errs.Is(err, errs.NotFound))
	_, err = tree.List(nspath.MustParse("/a"))
	assert.True(t, errs.Is(err, errs.NotFound))
	_, err = tree.GetStorage(nspath.MustParse("/a/b.txt"))
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestDeleteRoot(t *testing.T) {
	tree, _ := newTestTree()
	ok, err := tree.Delete(nspath.Root)
	require.NoError(t, err)
	assert.False(t, ok)
}

// --- Scenario S4/S5: replication and invalidation ------------------------

func TestReadTriggeredReplication(t *testing.T) {
	tree, registry := newTestTree()
	s0 := newFakeStorage("host0:9000")
	s1 := newFakeStorage("host1:9000")

	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/x")})
	require.NoError(t, err)
	_, err = tree.Register(s1, s1, nil)
	require.NoError(t, err)

	path := nspath.MustParse("/x")
	s0.files[path.String()] = []byte("payload")

	for i := 0; i < 19; i++ {
		require.NoError(t, tree.Lock(path, false))
		require.NoError(t, tree.Unlock(path, false))
	}
	assert.Empty(t, s1.copies, "replica must not be added before the 20th read")

	require.NoError(t, tree.Lock(path, false))
	require.NoError(t, tree.Unlock(path, false))

	assert.Equal(t, []nspath.Path{path}, s1.copies)

	storage, err := tree.GetStorage(path)
	require.NoError(t, err)
	assert.Equal(t, s0, storage)
	assert.Equal(t, 2, registry.Count())
}

func TestWriteInvalidation(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	s1 := newFakeStorage("host1:9000")

	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/x")})
	require.NoError(t, err)
	_, err = tree.Register(s1, s1, nil)
	require.NoError(t, err)

	path := nspath.MustParse("/x")
	s0.files[path.String()] = []byte("payload")

	for i := 0; i < 20; i++ {
		require.NoError(t, tree.Lock(path, false))
		require.NoError(t, tree.Unlock(path, false))
	}
	require.Len(t, s1.copies, 1, "20th read should have replicated to server 1")

	require.NoError(t, tree.Lock(path, true))
	require.NoError(t, tree.Unlock(path, true))

	assert.Contains(t, s1.deletes, path)
}

func TestSetReplicationThreshold(t *testing.T) {
	tree, _ := newTestTree()
	tree.SetReplicationThreshold(2)
	s0 := newFakeStorage("host0:9000")
	s1 := newFakeStorage("host1:9000")
	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/x")})
	require.NoError(t, err)
	_, err = tree.Register(s1, s1, nil)
	require.NoError(t, err)

	path := nspath.MustParse("/x")
	s0.files[path.String()] = []byte("payload")

	require.NoError(t, tree.Lock(path, false))
	require.NoError(t, tree.Unlock(path, false))
	assert.Empty(t, s1.copies)

	require.NoError(t, tree.Lock(path, false))
	require.NoError(t, tree.Unlock(path, false))
	assert.Equal(t, []nspath.Path{path}, s1.copies)
}

func TestReplicationSkippedWhenNoSpareServer(t *testing.T) {
	tree, _ := newTestTree()
	s0 := newFakeStorage("host0:9000")
	_, err := tree.Register(s0, s0, []nspath.Path{nspath.MustParse("/x")})
	require.NoError(t, err)

	path := nspath.MustParse("/x")
	for i := 0; i < 25; i++ {
		require.NoError(t, tree.Lock(path, false))
		require.NoError(t, tree.Unlock(path, false))
	}

	storage, err := tree.GetStorage(path)
	require.NoError(t, err)
	assert.Equal(t, s0, storage)
}
