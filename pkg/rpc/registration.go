package rpc

import (
	"github.com/marmos91/nsfs/internal/errs"
	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/nspath"
)

// Registration is the naming server's storage-facing RPC interface,
// spec.md §6.
type Registration interface {
	Register(args *RegisterArgs, reply *RegisterReply) error
}

// RemoteRegistration limits net/rpc's method scan to Registration.
type RemoteRegistration struct {
	Registration
}

// WrapRegistration mirrors WrapService for the Registration interface.
func WrapRegistration(r Registration) Registration {
	return &RemoteRegistration{r}
}

type registrationServer struct {
	tree *naming.Tree
}

// NewRegistrationServer creates the naming server's storage-facing RPC
// handler. The client/command addresses are dialed into a ClientStub and a
// CommandStub before being handed to the tree.
func NewRegistrationServer(tree *naming.Tree) Registration {
	return &registrationServer{tree: tree}
}

func (r *registrationServer) Register(args *RegisterArgs, reply *RegisterReply) error {
	client, err := DialClient(args.ClientAddress)
	if err != nil {
		reply.Err = wrapError(errs.Newf(errs.Remote, args.ClientAddress, err.Error()))
		return nil
	}
	command, err := DialCommand(args.CommandAddress)
	if err != nil {
		reply.Err = wrapError(errs.Newf(errs.Remote, args.CommandAddress, err.Error()))
		return nil
	}

	declared := make([]nspath.Path, 0, len(args.DeclaredPaths))
	for _, raw := range args.DeclaredPaths {
		p, perr := nspath.Parse(raw)
		if perr != nil {
			reply.Err = wrapError(perr)
			return nil
		}
		declared = append(declared, p)
	}

	duplicates, err := r.tree.Register(client, command, declared)
	if err != nil {
		reply.Err = wrapError(err)
		return nil
	}

	reply.Duplicates = make([]string, len(duplicates))
	for i, p := range duplicates {
		reply.Duplicates[i] = p.String()
	}
	return nil
}
