package rpc

import (
	"github.com/marmos91/nsfs/pkg/storageengine"
)

// Storage is a storage server's client-facing RPC interface, spec.md §6.
type Storage interface {
	Size(args *SizeArgs, reply *SizeReply) error
	Read(args *ReadArgs, reply *ReadReply) error
	Write(args *WriteArgs, reply *WriteReply) error
}

// RemoteStorage limits net/rpc's method scan to Storage.
type RemoteStorage struct {
	Storage
}

// WrapStorage mirrors WrapService for the Storage interface.
func WrapStorage(s Storage) Storage {
	return &RemoteStorage{s}
}

type storageServer struct {
	engine storageengine.Engine
}

// NewStorageServer creates a storage server's client-facing RPC handler.
func NewStorageServer(engine storageengine.Engine) Storage {
	return &storageServer{engine: engine}
}

func (s *storageServer) Size(args *SizeArgs, reply *SizeReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	size, err := s.engine.Size(path)
	reply.Size = size
	reply.Err = wrapError(err)
	return nil
}

func (s *storageServer) Read(args *ReadArgs, reply *ReadReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	data, err := s.engine.Read(path, args.Offset, args.Length)
	reply.Data = data
	reply.Err = wrapError(err)
	return nil
}

func (s *storageServer) Write(args *WriteArgs, reply *WriteReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	reply.Err = wrapError(s.engine.Write(path, args.Offset, args.Data))
	return nil
}
