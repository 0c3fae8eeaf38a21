package rpc

import (
	"net"
	"net/rpc"

	"github.com/marmos91/nsfs/internal/logger"
)

// Endpoint is a single net/rpc server bound to one listener. Unlike the
// net/rpc-over-HTTP convenience (rpc.HandleHTTP), a plain rpc.Server per
// listener needs no shared global mux, so a single process can run
// several endpoints — the naming server's Service and Registration, or a
// storage server's Storage and Command — without their path registrations
// colliding.
type Endpoint struct {
	listener net.Listener
	log      *logger.Logger
}

// Listen registers receiver under name on a new rpc.Server and starts
// accepting connections on addr in the background. Address() reports the
// actual listen address, useful when addr's port is ":0".
func Listen(addr, name string, receiver interface{}) (*Endpoint, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	server := rpc.NewServer()
	if err := server.RegisterName(name, receiver); err != nil {
		_ = listener.Close()
		return nil, err
	}

	e := &Endpoint{listener: listener, log: logger.Named("rpc")}
	go e.serve(server)
	return e, nil
}

func (e *Endpoint) serve(server *rpc.Server) {
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			// Closed by Stop; not an error worth logging.
			return
		}
		go server.ServeConn(conn)
	}
}

// Address returns the endpoint's listen address.
func (e *Endpoint) Address() string {
	return e.listener.Addr().String()
}

// Stop closes the listener, so new connections are refused. Connections
// already accepted stay open and keep serving calls, including calls made
// after Stop returns; in-flight calls are not interrupted.
func (e *Endpoint) Stop() error {
	return e.listener.Close()
}
