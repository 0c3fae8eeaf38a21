// Package storageserver implements a storage server's process lifecycle,
// spec.md §4.6: start the client-facing Storage and naming-facing Command
// RPC endpoints, register with the naming server, and reconcile any files
// the naming server already knows about under a different replica.
package storageserver

import (
	"fmt"

	"github.com/marmos91/nsfs/internal/logger"
	"github.com/marmos91/nsfs/pkg/nspath"
	"github.com/marmos91/nsfs/pkg/rpc"
	"github.com/marmos91/nsfs/pkg/storageengine"
	"github.com/marmos91/nsfs/pkg/storageengine/localdisk"
)

// Server is a storage server process: a storageengine.Engine fronted by
// two RPC endpoints, registered with exactly one naming server.
type Server struct {
	engine   storageengine.Engine
	client   *rpc.Endpoint
	command  *rpc.Endpoint
	log      *logger.Logger
	started  bool
	hostname string

	// Stopped is called, if set, when Stop completes. err is nil on a
	// clean stop; a future version that detects the naming server
	// dropping the connection would report it here too.
	Stopped func(err error)
}

// New creates a Server over engine. Use localdisk.New, or any other
// storageengine.Engine, to build the engine beforehand.
func New(hostname string, engine storageengine.Engine) *Server {
	return &Server{engine: engine, hostname: hostname, log: logger.Named("storage[" + hostname + "]")}
}

// Start listens on clientAddr (Storage) and commandAddr (Command), then
// registers with the naming server at registrationAddr, declaring every
// file currently under the engine's local files (only meaningful for
// localdisk; other backends declare nothing and rely entirely on explicit
// naming-server-driven placement). Files the naming server reports as
// duplicates are deleted locally — the naming server's metadata is
// authoritative, per spec.md §4.5.
func (s *Server) Start(clientAddr, commandAddr, registrationAddr string) error {
	client, err := rpc.Listen(clientAddr, "Storage", rpc.WrapStorage(rpc.NewStorageServer(s.engine)))
	if err != nil {
		return fmt.Errorf("starting Storage endpoint: %w", err)
	}
	command, err := rpc.Listen(commandAddr, "Command", rpc.WrapCommand(rpc.NewCommandServer(s.engine)))
	if err != nil {
		_ = client.Stop()
		return fmt.Errorf("starting Command endpoint: %w", err)
	}
	s.client, s.command = client, command

	declared, err := s.declaredFiles()
	if err != nil {
		_ = s.Stop()
		return fmt.Errorf("listing local files: %w", err)
	}

	regClient, err := rpc.DialRegistration(registrationAddr)
	if err != nil {
		_ = s.Stop()
		return fmt.Errorf("dialing naming server at %s: %w", registrationAddr, err)
	}

	duplicates, err := regClient.Register(client.Address(), command.Address(), declared)
	if err != nil {
		_ = s.Stop()
		return fmt.Errorf("registering with naming server: %w", err)
	}

	for _, path := range duplicates {
		if _, err := s.engine.Delete(path); err != nil {
			s.log.Warn("failed to delete duplicate %s after registration: %v", path.String(), err)
		}
	}
	if len(duplicates) > 0 {
		s.log.Info("deleted %d duplicate file(s) reported by naming server", len(duplicates))
	}

	s.started = true
	s.log.Info("started: client=%s command=%s naming=%s", client.Address(), command.Address(), registrationAddr)
	return nil
}

// declaredFiles enumerates the files this server should declare at
// registration. Only localdisk can walk its own root this way; other
// backends (s3) declare nothing, relying entirely on files the naming
// server already placed here via Command.Create/Copy.
func (s *Server) declaredFiles() ([]nspath.Path, error) {
	local, ok := s.engine.(*localdisk.Engine)
	if !ok {
		return nil, nil
	}
	return local.ListLocalFiles()
}

// Stop stops both RPC endpoints. In-flight requests are not interrupted.
func (s *Server) Stop() error {
	var firstErr error
	if s.client != nil {
		if err := s.client.Stop(); err != nil {
			firstErr = err
		}
	}
	if s.command != nil {
		if err := s.command.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.started = false
	if s.Stopped != nil {
		s.Stopped(firstErr)
	}
	return firstErr
}

// Started reports whether the server has completed Start successfully.
func (s *Server) Started() bool { return s.started }

// ClientAddress returns the listen address of the client-facing Storage
// endpoint. Valid only after Start.
func (s *Server) ClientAddress() string { return s.client.Address() }

// CommandAddress returns the listen address of the naming-facing Command
// endpoint. Valid only after Start.
func (s *Server) CommandAddress() string { return s.command.Address() }
