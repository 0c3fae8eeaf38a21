package naming

import (
	"sync"

	"github.com/marmos91/nsfs/pkg/nspath"
)

// ClientStub is the naming server's handle to a storage server's
// client-facing (data-plane) interface.
type ClientStub interface {
	// Address identifies the storage server, used to detect a duplicate
	// registration.
	Address() string
	Size(path nspath.Path) (int64, error)
	Read(path nspath.Path, offset, length int64) ([]byte, error)
	Write(path nspath.Path, offset int64, data []byte) error
}

// CommandStub is the naming server's handle to a storage server's
// naming-facing (control-plane) interface.
type CommandStub interface {
	Address() string
	Create(path nspath.Path) (bool, error)
	Delete(path nspath.Path) (bool, error)
	Copy(path nspath.Path, source ClientStub) (bool, error)
}

// Registry is the naming server's process-wide, append-only storage
// registry: two parallel ordered lists, client stubs and command stubs,
// indexed by the replica indices stored in file nodes. An index always
// refers to the same server for the lifetime of the naming server.
//
// Entries are appended only while the caller holds the root node's
// exclusive lock (see Tree.Register); the registry's own mutex guards the
// backing slices themselves against concurrent append vs. indexed read,
// which the Go memory model requires even though appends never remove or
// reorder existing entries.
type Registry struct {
	mu       sync.RWMutex
	clients  []ClientStub
	commands []CommandStub
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// HasStub reports whether client or command is already registered,
// compared by address.
func (r *Registry) HasStub(client ClientStub, command CommandStub) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Address() == client.Address() {
			return true
		}
	}
	for _, c := range r.commands {
		if c.Address() == command.Address() {
			return true
		}
	}
	return false
}

// Append adds a new replica pair and returns its index.
func (r *Registry) Append(client ClientStub, command CommandStub) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients = append(r.clients, client)
	r.commands = append(r.commands, command)
	return len(r.clients) - 1
}

// Client returns the client stub at index.
func (r *Registry) Client(index int) ClientStub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[index]
}

// Command returns the command stub at index.
func (r *Registry) Command(index int) CommandStub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[index]
}

// Count returns the number of registered storage servers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
