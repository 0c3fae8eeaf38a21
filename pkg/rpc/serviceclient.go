package rpc

import (
	"net/rpc"

	"github.com/marmos91/nsfs/pkg/nspath"
)

// ServiceClient is an end client's handle to the naming server's Service
// endpoint: lock/unlock, tree queries, and storage resolution.
type ServiceClient struct {
	client *rpc.Client
}

// DialService connects to the naming server's Service endpoint at address.
func DialService(address string) (*ServiceClient, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return &ServiceClient{client: c}, nil
}

func (s *ServiceClient) Lock(path nspath.Path, exclusive bool) error {
	var reply LockReply
	args := &LockArgs{Path: path.String(), Exclusive: exclusive}
	if err := s.client.Call("Service.Lock", args, &reply); err != nil {
		return err
	}
	return reply.Err.unwrap()
}

func (s *ServiceClient) Unlock(path nspath.Path, exclusive bool) error {
	var reply UnlockReply
	args := &UnlockArgs{Path: path.String(), Exclusive: exclusive}
	if err := s.client.Call("Service.Unlock", args, &reply); err != nil {
		return err
	}
	return reply.Err.unwrap()
}

func (s *ServiceClient) IsDirectory(path nspath.Path) (bool, error) {
	var reply IsDirectoryReply
	args := &IsDirectoryArgs{Path: path.String()}
	if err := s.client.Call("Service.IsDirectory", args, &reply); err != nil {
		return false, err
	}
	return reply.IsDirectory, reply.Err.unwrap()
}

func (s *ServiceClient) List(path nspath.Path) ([]string, error) {
	var reply ListReply
	args := &ListArgs{Path: path.String()}
	if err := s.client.Call("Service.List", args, &reply); err != nil {
		return nil, err
	}
	return reply.Names, reply.Err.unwrap()
}

func (s *ServiceClient) CreateFile(path nspath.Path) (bool, error) {
	var reply CreateFileReply
	args := &CreateFileArgs{Path: path.String()}
	if err := s.client.Call("Service.CreateFile", args, &reply); err != nil {
		return false, err
	}
	return reply.Created, reply.Err.unwrap()
}

func (s *ServiceClient) CreateDirectory(path nspath.Path) (bool, error) {
	var reply CreateDirectoryReply
	args := &CreateDirectoryArgs{Path: path.String()}
	if err := s.client.Call("Service.CreateDirectory", args, &reply); err != nil {
		return false, err
	}
	return reply.Created, reply.Err.unwrap()
}

func (s *ServiceClient) Delete(path nspath.Path) (bool, error) {
	var reply DeleteReply
	args := &DeleteArgs{Path: path.String()}
	if err := s.client.Call("Service.Delete", args, &reply); err != nil {
		return false, err
	}
	return reply.Deleted, reply.Err.unwrap()
}

// GetStorage resolves path to a storage server and returns a ClientStub
// dialed to its Storage endpoint.
func (s *ServiceClient) GetStorage(path nspath.Path) (*ClientStub, error) {
	var reply GetStorageReply
	args := &GetStorageArgs{Path: path.String()}
	if err := s.client.Call("Service.GetStorage", args, &reply); err != nil {
		return nil, err
	}
	if err := reply.Err.unwrap(); err != nil {
		return nil, err
	}
	return DialClient(reply.Address)
}
