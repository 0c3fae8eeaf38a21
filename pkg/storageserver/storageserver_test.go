package storageserver

import (
	"testing"

	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/marmos91/nsfs/pkg/rpc"
	"github.com/marmos91/nsfs/pkg/storageengine/localdisk"
	"github.com/stretchr/testify/require"
)

func startNamingServer(t *testing.T) (serviceAddr, registrationAddr string) {
	t.Helper()
	tree := naming.NewTree(naming.NewRegistry(), naming.NewRoundRobin())

	service, err := rpc.Listen("127.0.0.1:0", "Service", rpc.WrapService(rpc.NewServiceServer(tree)))
	require.NoError(t, err)
	registration, err := rpc.Listen("127.0.0.1:0", "Registration", rpc.WrapRegistration(rpc.NewRegistrationServer(tree)))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = service.Stop()
		_ = registration.Stop()
	})
	return service.Address(), registration.Address()
}

func TestStartRegistersAndServes(t *testing.T) {
	_, registrationAddr := startNamingServer(t)

	engine, err := localdisk.New(t.TempDir())
	require.NoError(t, err)

	srv := New("host-a", engine)
	t.Cleanup(func() { _ = srv.Stop() })

	require.NoError(t, srv.Start("127.0.0.1:0", "127.0.0.1:0", registrationAddr))
	require.True(t, srv.Started())

	stub, err := rpc.DialClient(srv.ClientAddress())
	require.NoError(t, err)
	_, err = stub.Size(nspath.MustParse("/missing"))
	require.Error(t, err)
}

func TestStartDeletesDuplicatesReportedByNamingServer(t *testing.T) {
	serviceAddr, registrationAddr := startNamingServer(t)

	firstEngine, err := localdisk.New(t.TempDir())
	require.NoError(t, err)
	first := New("host-a", firstEngine)
	t.Cleanup(func() { _ = first.Stop() })
	require.NoError(t, first.Start("127.0.0.1:0", "127.0.0.1:0", registrationAddr))

	svc, err := rpc.DialService(serviceAddr)
	require.NoError(t, err)
	ok, err := svc.CreateFile(nspath.MustParse("/shared.txt"))
	require.NoError(t, err)
	require.True(t, ok)

	secondEngine, err := localdisk.New(t.TempDir())
	require.NoError(t, err)
	created, err := secondEngine.Create(nspath.MustParse("/shared.txt"))
	require.NoError(t, err)
	require.True(t, created)

	second := New("host-b", secondEngine)
	t.Cleanup(func() { _ = second.Stop() })
	require.NoError(t, second.Start("127.0.0.1:0", "127.0.0.1:0", registrationAddr))

	_, err = secondEngine.Size(nspath.MustParse("/shared.txt"))
	require.Error(t, err, "duplicate file declared by the late-joining server must be deleted locally")
}

func TestStopInvokesStoppedHook(t *testing.T) {
	_, registrationAddr := startNamingServer(t)
	engine, err := localdisk.New(t.TempDir())
	require.NoError(t, err)

	srv := New("host-c", engine)
	require.NoError(t, srv.Start("127.0.0.1:0", "127.0.0.1:0", registrationAddr))

	called := false
	srv.Stopped = func(err error) { called = true }
	require.NoError(t, srv.Stop())
	require.True(t, called)
	require.False(t, srv.Started())
}
