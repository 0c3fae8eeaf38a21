// Package errs defines the error kinds shared by the naming server and the
// storage server.
//
// These are domain errors (path not found, malformed path, offset out of
// range, ...) as opposed to infrastructure errors (network failure, disk
// error) — though a local disk failure is itself surfaced as the IO kind so
// callers on the other side of an RPC boundary have something stable to
// switch on.
package errs

import "errors"

// Code categorizes an Error.
type Code int

const (
	// NotFound indicates the target path does not exist, or exists but is
	// the wrong kind (file where a directory was expected, or vice versa).
	NotFound Code = iota

	// Argument indicates a malformed path, a nil argument, or a mismatched
	// unlock.
	Argument

	// OutOfRange indicates a read or write offset/length outside the file.
	OutOfRange

	// IO indicates a local filesystem failure on a storage host.
	IO

	// Remote indicates a transport failure on a cross-server RPC call.
	Remote

	// State indicates a protocol violation: a duplicate stub at
	// registration, no storage servers available at createFile time, or a
	// replica delete reporting false.
	State
)

func (c Code) String() string {
	switch c {
	case NotFound:
		return "not-found"
	case Argument:
		return "argument"
	case OutOfRange:
		return "out-of-range"
	case IO:
		return "io"
	case Remote:
		return "remote"
	case State:
		return "state"
	default:
		return "unknown"
	}
}

// Error is the domain error type returned across the naming and storage
// server APIs.
type Error struct {
	Code    Code
	Message string
	Path    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Code.String() + ": " + e.Message + ": " + e.Path
	}
	return e.Code.String() + ": " + e.Message
}

// New builds an Error with no associated path.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error scoped to a path.
func Newf(code Code, path, message string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// Is reports whether err carries the given code, unwrapping as needed.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
