package rpc

import (
	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// Service is the naming server's client-facing RPC interface, spec.md §6.
type Service interface {
	Lock(args *LockArgs, reply *LockReply) error
	Unlock(args *UnlockArgs, reply *UnlockReply) error
	IsDirectory(args *IsDirectoryArgs, reply *IsDirectoryReply) error
	List(args *ListArgs, reply *ListReply) error
	CreateFile(args *CreateFileArgs, reply *CreateFileReply) error
	CreateDirectory(args *CreateDirectoryArgs, reply *CreateDirectoryReply) error
	Delete(args *DeleteArgs, reply *DeleteReply) error
	GetStorage(args *GetStorageArgs, reply *GetStorageReply) error
}

// RemoteService is the net/rpc-registrable wrapper, following the
// cmu440-p2 rpc.Wrap pattern so only the intended method set is exposed.
type RemoteService struct {
	Service
}

// WrapService hides methods of tree beyond the Service interface from
// net/rpc's reflection-based method scan.
func WrapService(s Service) Service {
	return &RemoteService{s}
}

// serviceServer adapts a *naming.Tree to the Service interface.
type serviceServer struct {
	tree *naming.Tree
}

// NewServiceServer creates the naming server's client-facing RPC handler.
func NewServiceServer(tree *naming.Tree) Service {
	return &serviceServer{tree: tree}
}

func parsePath(s string) (nspath.Path, *ErrorInfo) {
	p, err := nspath.Parse(s)
	if err != nil {
		return nspath.Path{}, wrapError(err)
	}
	return p, nil
}

func (s *serviceServer) Lock(args *LockArgs, reply *LockReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	reply.Err = wrapError(s.tree.Lock(path, args.Exclusive))
	return nil
}

func (s *serviceServer) Unlock(args *UnlockArgs, reply *UnlockReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	reply.Err = wrapError(s.tree.Unlock(path, args.Exclusive))
	return nil
}

func (s *serviceServer) IsDirectory(args *IsDirectoryArgs, reply *IsDirectoryReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	isDir, err := s.tree.IsDirectory(path)
	reply.IsDirectory = isDir
	reply.Err = wrapError(err)
	return nil
}

func (s *serviceServer) List(args *ListArgs, reply *ListReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	names, err := s.tree.List(path)
	reply.Names = names
	reply.Err = wrapError(err)
	return nil
}

func (s *serviceServer) CreateFile(args *CreateFileArgs, reply *CreateFileReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	created, err := s.tree.CreateFile(path)
	reply.Created = created
	reply.Err = wrapError(err)
	return nil
}

func (s *serviceServer) CreateDirectory(args *CreateDirectoryArgs, reply *CreateDirectoryReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	created, err := s.tree.CreateDirectory(path)
	reply.Created = created
	reply.Err = wrapError(err)
	return nil
}

func (s *serviceServer) Delete(args *DeleteArgs, reply *DeleteReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	deleted, err := s.tree.Delete(path)
	reply.Deleted = deleted
	reply.Err = wrapError(err)
	return nil
}

func (s *serviceServer) GetStorage(args *GetStorageArgs, reply *GetStorageReply) error {
	path, perr := parsePath(args.Path)
	if perr != nil {
		reply.Err = perr
		return nil
	}
	stub, err := s.tree.GetStorage(path)
	if err != nil {
		reply.Err = wrapError(err)
		return nil
	}
	reply.Address = stub.Address()
	return nil
}
