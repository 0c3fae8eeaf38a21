package rpc

import (
	"net/rpc"

	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// ClientStub is the naming server's (or another storage server's) handle
// to a storage server's Storage (client-facing) interface. It satisfies
// both naming.ClientStub and storageengine.Source.
type ClientStub struct {
	address string
	client  *rpc.Client
}

// DialClient connects to the Storage endpoint at address.
func DialClient(address string) (*ClientStub, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return &ClientStub{address: address, client: c}, nil
}

func (s *ClientStub) Address() string { return s.address }

func (s *ClientStub) Size(path nspath.Path) (int64, error) {
	var reply SizeReply
	if err := s.client.Call("Storage.Size", &SizeArgs{Path: path.String()}, &reply); err != nil {
		return 0, err
	}
	return reply.Size, reply.Err.unwrap()
}

func (s *ClientStub) Read(path nspath.Path, offset, length int64) ([]byte, error) {
	var reply ReadReply
	args := &ReadArgs{Path: path.String(), Offset: offset, Length: length}
	if err := s.client.Call("Storage.Read", args, &reply); err != nil {
		return nil, err
	}
	return reply.Data, reply.Err.unwrap()
}

func (s *ClientStub) Write(path nspath.Path, offset int64, data []byte) error {
	var reply WriteReply
	args := &WriteArgs{Path: path.String(), Offset: offset, Data: data}
	if err := s.client.Call("Storage.Write", args, &reply); err != nil {
		return err
	}
	return reply.Err.unwrap()
}

// CommandStub is the naming server's handle to a storage server's Command
// (naming-facing) interface. It satisfies naming.CommandStub.
type CommandStub struct {
	address string
	client  *rpc.Client
}

// DialCommand connects to the Command endpoint at address.
func DialCommand(address string) (*CommandStub, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return &CommandStub{address: address, client: c}, nil
}

func (s *CommandStub) Address() string { return s.address }

func (s *CommandStub) Create(path nspath.Path) (bool, error) {
	var reply StorageCreateReply
	args := &StorageCreateArgs{Path: path.String()}
	if err := s.client.Call("Command.Create", args, &reply); err != nil {
		return false, err
	}
	return reply.Created, reply.Err.unwrap()
}

func (s *CommandStub) Delete(path nspath.Path) (bool, error) {
	var reply StorageDeleteReply
	args := &StorageDeleteArgs{Path: path.String()}
	if err := s.client.Call("Command.Delete", args, &reply); err != nil {
		return false, err
	}
	return reply.Deleted, reply.Err.unwrap()
}

func (s *CommandStub) Copy(path nspath.Path, source naming.ClientStub) (bool, error) {
	var reply CopyReply
	args := &CopyArgs{Path: path.String(), SourceAddress: source.Address()}
	if err := s.client.Call("Command.Copy", args, &reply); err != nil {
		return false, err
	}
	return reply.Copied, reply.Err.unwrap()
}
