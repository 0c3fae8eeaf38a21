package rpc

import (
	"github.com/marmos91/nsfs/pkg/storageengine"
)

// Command is a storage server's naming-facing RPC interface, spec.md §6.
type Command interface {
	Create(args *StorageCreateArgs, reply *StorageCreateReply) error
	Delete(args *StorageDeleteArgs, reply *StorageDeleteReply) error
	Copy(args *CopyArgs, reply *CopyReply) error
}

// RemoteCommand limits net/rpc's method scan to Command.
type RemoteCommand struct {
	Command
}

// WrapCommand mirrors WrapService for the Command interface.
func WrapCommand(c Command) Command {
	return &RemoteCommand{c}
}

type commandServer struct {
	engine storageengine.Engine
}

// NewCommandServer creates a storage server's naming-facing RPC handler.
func NewCommandServer(engine storageengine.Engine) Command {
	return &commandServer{engine: engine}
}

func (c *commandServer) Create(args *StorageCreateArgs, reply *StorageCreateReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	created, err := c.engine.Create(path)
	reply.Created = created
	reply.Err = wrapError(err)
	return nil
}

func (c *commandServer) Delete(args *StorageDeleteArgs, reply *StorageDeleteReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	deleted, err := c.engine.Delete(path)
	reply.Deleted = deleted
	reply.Err = wrapError(err)
	return nil
}

// Copy pulls path from the storage server at args.SourceAddress. The
// source is dialed as a plain Storage client stub, matching
// storageengine.Source's Size/Read shape.
func (c *commandServer) Copy(args *CopyArgs, reply *CopyReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	source, err := DialClient(args.SourceAddress)
	if err != nil {
		reply.Err = wrapError(err)
		return nil
	}
	copied, err := c.engine.Copy(path, source)
	reply.Copied = copied
	reply.Err = wrapError(err)
	return nil
}
