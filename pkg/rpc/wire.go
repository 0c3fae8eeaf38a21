// Package rpc is the thin net/rpc transport binding spec.md §1 treats as an
// out-of-scope external collaborator, reduced to the smallest shape that
// lets the naming server, the storage servers, and clients talk to each
// other: Args/Reply structs plus the four interfaces of spec.md §6,
// grounded on cmu440-p2's tribserver/storageserver/libstore RPC shape.
//
// Domain errors travel inside the Reply, not as the Go error net/rpc's
// Call returns — that return is reserved for genuine transport failures.
// The client types in this package return such a failure unchanged, as a
// plain error rather than an errs.Error of the remote kind.
package rpc

import "github.com/marmos91/nsfs/internal/errs"

// ErrorInfo carries a domain error (internal/errs.Error) across the wire.
// A nil *ErrorInfo means the call succeeded.
type ErrorInfo struct {
	Code    int
	Message string
	Path    string
}

func wrapError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	if e, ok := err.(*errs.Error); ok {
		return &ErrorInfo{Code: int(e.Code), Message: e.Message, Path: e.Path}
	}
	return &ErrorInfo{Code: int(errs.IO), Message: err.Error()}
}

func (e *ErrorInfo) unwrap() error {
	if e == nil {
		return nil
	}
	return &errs.Error{Code: errs.Code(e.Code), Message: e.Message, Path: e.Path}
}

// --- Service (naming, client-facing) ---------------------------------

type LockArgs struct {
	Path      string
	Exclusive bool
}
type LockReply struct{ Err *ErrorInfo }

type UnlockArgs struct {
	Path      string
	Exclusive bool
}
type UnlockReply struct{ Err *ErrorInfo }

type IsDirectoryArgs struct{ Path string }
type IsDirectoryReply struct {
	IsDirectory bool
	Err         *ErrorInfo
}

type ListArgs struct{ Path string }
type ListReply struct {
	Names []string
	Err   *ErrorInfo
}

type CreateFileArgs struct{ Path string }
type CreateFileReply struct {
	Created bool
	Err     *ErrorInfo
}

type CreateDirectoryArgs struct{ Path string }
type CreateDirectoryReply struct {
	Created bool
	Err     *ErrorInfo
}

type DeleteArgs struct{ Path string }
type DeleteReply struct {
	Deleted bool
	Err     *ErrorInfo
}

type GetStorageArgs struct{ Path string }
type GetStorageReply struct {
	// Address is the storage server's client-facing (Storage) RPC
	// address; the caller dials it directly to perform byte I/O.
	Address string
	Err     *ErrorInfo
}

// --- Registration (naming, storage-facing) ----------------------------

type RegisterArgs struct {
	ClientAddress  string
	CommandAddress string
	DeclaredPaths  []string
}
type RegisterReply struct {
	Duplicates []string
	Err        *ErrorInfo
}

// --- Storage (per storage server, client-facing) -----------------------

type SizeArgs struct{ Path string }
type SizeReply struct {
	Size int64
	Err  *ErrorInfo
}

type ReadArgs struct {
	Path   string
	Offset int64
	Length int64
}
type ReadReply struct {
	Data []byte
	Err  *ErrorInfo
}

type WriteArgs struct {
	Path   string
	Offset int64
	Data   []byte
}
type WriteReply struct{ Err *ErrorInfo }

// --- Command (per storage server, naming-facing) ------------------------

type StorageCreateArgs struct{ Path string }
type StorageCreateReply struct {
	Created bool
	Err     *ErrorInfo
}

type StorageDeleteArgs struct{ Path string }
type StorageDeleteReply struct {
	Deleted bool
	Err     *ErrorInfo
}

type CopyArgs struct {
	Path          string
	SourceAddress string
}
type CopyReply struct {
	Copied bool
	Err    *ErrorInfo
}
