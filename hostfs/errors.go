package hostfs

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
)

// Operation names used in errors, logs and observer callbacks.
const (
	OpMount    = "mount"
	OpGetattr  = "getattr"
	OpSetattr  = "setattr"
	OpLookup   = "lookup"
	OpMknod    = "mknod"
	OpRename   = "rename"
	OpUnlink   = "unlink"
	OpRmdir    = "rmdir"
	OpReaddir  = "readdir"
	OpSymlink  = "symlink"
	OpReadlink = "readlink"
	OpOpen     = "open"
	OpClose    = "close"
	OpRead     = "read"
	OpWrite    = "write"
	OpLlseek   = "llseek"
	OpMmap     = "mmap"
	OpMsync    = "msync"
)

// convertError turns a host failure into an errno error.
//
// Not-supported becomes ENOSYS. A symbolic code is looked up in the errno
// table; a code missing from the table is a broken host contract and panics.
// Errors that are neither propagate unchanged.
func (fs *FS) convertError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var ns *host.NotSupportedError
	if errors.As(err, &ns) {
		return errno.New(errno.ENOSYS).Op(op).Path(path).Cause(err).Build()
	}

	var ce *host.CodeError
	if errors.As(err, &ce) {
		code, ok := errno.Lookup(ce.Code)
		if !ok {
			fs.log.Error("host reported an unknown error code",
				zap.String("op", op),
				zap.String("path", path),
				zap.String("code", ce.Code),
				zap.Error(err))
			panic(fmt.Sprintf("hostfs: unknown host error code %q from %s %s", ce.Code, op, path))
		}
		return errno.New(code).Op(op).Path(path).Cause(err).Build()
	}

	return err
}
