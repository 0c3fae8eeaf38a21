package rpc

import (
	"testing"

	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/marmos91/nsfs/pkg/storageengine/localdisk"
	"github.com/stretchr/testify/require"
)

// testStorageServer starts a storage server's Storage and Command
// endpoints over real loopback TCP, rooted at a fresh temp directory.
type testStorageServer struct {
	engine  *localdisk.Engine
	storage *Endpoint
	command *Endpoint
}

func startTestStorageServer(t *testing.T) *testStorageServer {
	t.Helper()
	engine, err := localdisk.New(t.TempDir())
	require.NoError(t, err)

	storage, err := Listen("127.0.0.1:0", "Storage", WrapStorage(NewStorageServer(engine)))
	require.NoError(t, err)
	command, err := Listen("127.0.0.1:0", "Command", WrapCommand(NewCommandServer(engine)))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = storage.Stop()
		_ = command.Stop()
	})
	return &testStorageServer{engine: engine, storage: storage, command: command}
}

func startTestNamingServer(t *testing.T) (*naming.Tree, string, string) {
	t.Helper()
	tree := naming.NewTree(naming.NewRegistry(), naming.NewRoundRobin())

	service, err := Listen("127.0.0.1:0", "Service", WrapService(NewServiceServer(tree)))
	require.NoError(t, err)
	registration, err := Listen("127.0.0.1:0", "Registration", WrapRegistration(NewRegistrationServer(tree)))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = service.Stop()
		_ = registration.Stop()
	})
	return tree, service.Address(), registration.Address()
}

func TestEndToEndCreateWriteReadOverRPC(t *testing.T) {
	_, serviceAddr, registrationAddr := startTestNamingServer(t)
	s0 := startTestStorageServer(t)

	regClient, err := DialRegistration(registrationAddr)
	require.NoError(t, err)
	dups, err := regClient.Register(s0.storage.Address(), s0.command.Address(), nil)
	require.NoError(t, err)
	require.Empty(t, dups)

	svc, err := DialService(serviceAddr)
	require.NoError(t, err)

	path := nspath.MustParse("/hello.txt")
	ok, err := svc.CreateFile(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Lock(path, true))
	stub, err := svc.GetStorage(path)
	require.NoError(t, err)
	require.NoError(t, stub.Write(path, 0, []byte("hello, rpc")))
	require.NoError(t, svc.Unlock(path, true))

	require.NoError(t, svc.Lock(path, false))
	stub, err = svc.GetStorage(path)
	require.NoError(t, err)
	size, err := stub.Size(path)
	require.NoError(t, err)
	data, err := stub.Read(path, 0, size)
	require.NoError(t, err)
	require.NoError(t, svc.Unlock(path, false))

	require.Equal(t, "hello, rpc", string(data))
}

func TestRegistrationDuplicateOverRPC(t *testing.T) {
	_, _, registrationAddr := startTestNamingServer(t)
	s0 := startTestStorageServer(t)
	s1 := startTestStorageServer(t)

	regClient, err := DialRegistration(registrationAddr)
	require.NoError(t, err)

	_, err = regClient.Register(s0.storage.Address(), s0.command.Address(), []nspath.Path{nspath.MustParse("/x")})
	require.NoError(t, err)

	dups, err := regClient.Register(s1.storage.Address(), s1.command.Address(), []nspath.Path{nspath.MustParse("/x"), nspath.MustParse("/y")})
	require.NoError(t, err)
	require.Len(t, dups, 1)
	require.True(t, dups[0].Equal(nspath.MustParse("/x")))
}
