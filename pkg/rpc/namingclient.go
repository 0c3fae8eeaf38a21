package rpc

import (
	"net/rpc"

	"github.com/marmos91/nsfs/pkg/nspath"
)

// RegistrationClient is a storage server's handle to the naming server's
// Registration endpoint.
type RegistrationClient struct {
	client *rpc.Client
}

// DialRegistration connects to the naming server's Registration endpoint
// at address.
func DialRegistration(address string) (*RegistrationClient, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return &RegistrationClient{client: c}, nil
}

// Register announces a storage server's client/command addresses and its
// declared files, returning the paths the naming server already has
// elsewhere.
func (r *RegistrationClient) Register(clientAddress, commandAddress string, declared []nspath.Path) ([]nspath.Path, error) {
	paths := make([]string, len(declared))
	for i, p := range declared {
		paths[i] = p.String()
	}

	var reply RegisterReply
	args := &RegisterArgs{ClientAddress: clientAddress, CommandAddress: commandAddress, DeclaredPaths: paths}
	if err := r.client.Call("Registration.Register", args, &reply); err != nil {
		return nil, err
	}
	if err := reply.Err.unwrap(); err != nil {
		return nil, err
	}

	duplicates := make([]nspath.Path, 0, len(reply.Duplicates))
	for _, raw := range reply.Duplicates {
		p, err := nspath.Parse(raw)
		if err != nil {
			return nil, err
		}
		duplicates = append(duplicates, p)
	}
	return duplicates, nil
}
