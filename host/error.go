package host

import (
	"errors"
	"io/fs"
	"syscall"

	experimentalsys "github.com/tetratelabs/wazero/experimental/sys"

	"github.com/wippyai/hostfs/errno"
)

// CodeError is a filesystem failure with a symbolic POSIX code.
type CodeError struct {
	Err  error
	Op   string
	Path string
	Code string
}

func (e *CodeError) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Code
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *CodeError) Unwrap() error { return e.Err }

// NotSupportedError signals an operation this platform does not provide.
type NotSupportedError struct {
	Err  error
	Op   string
	Path string
}

func (e *NotSupportedError) Error() string {
	return e.Op + " " + e.Path + ": operation not supported"
}

func (e *NotSupportedError) Unwrap() error { return e.Err }

// IsNotSupported reports whether err is a host not-supported signal.
func IsNotSupported(err error) bool {
	var ns *NotSupportedError
	return errors.As(err, &ns)
}

// Code returns the symbolic code of a host error, or "" if err carries none.
func Code(err error) string {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// wrapErr classifies an os-level error into the host error shapes.
func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.ErrUnsupported) {
		return &NotSupportedError{Op: op, Path: path, Err: err}
	}
	if code, ok := codeOf(err); ok {
		return &CodeError{Op: op, Path: path, Code: code, Err: err}
	}
	return err
}

func codeOf(err error) (string, bool) {
	var en syscall.Errno
	if errors.As(err, &en) {
		if name := errnoName(en); name != "" {
			if _, ok := errno.Lookup(name); ok {
				return name, true
			}
		}
		// Not a POSIX number (e.g. a Windows error code); let wazero
		// canonicalize it.
		if name, ok := wazeroCodes[experimentalsys.UnwrapOSError(en)]; ok {
			return name, true
		}
		return "EIO", true
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "ENOENT", true
	case errors.Is(err, fs.ErrExist):
		return "EEXIST", true
	case errors.Is(err, fs.ErrPermission):
		return "EPERM", true
	case errors.Is(err, fs.ErrClosed):
		return "EBADF", true
	case errors.Is(err, fs.ErrInvalid):
		return "EINVAL", true
	}
	return "", false
}

var wazeroCodes = map[experimentalsys.Errno]string{
	experimentalsys.EACCES:       "EACCES",
	experimentalsys.EAGAIN:       "EAGAIN",
	experimentalsys.EBADF:        "EBADF",
	experimentalsys.EEXIST:       "EEXIST",
	experimentalsys.EFAULT:       "EFAULT",
	experimentalsys.EINTR:        "EINTR",
	experimentalsys.EINVAL:       "EINVAL",
	experimentalsys.EIO:          "EIO",
	experimentalsys.EISDIR:       "EISDIR",
	experimentalsys.ELOOP:        "ELOOP",
	experimentalsys.ENAMETOOLONG: "ENAMETOOLONG",
	experimentalsys.ENOENT:       "ENOENT",
	experimentalsys.ENOSYS:       "ENOSYS",
	experimentalsys.ENOTDIR:      "ENOTDIR",
	experimentalsys.ERANGE:       "ERANGE",
	experimentalsys.ENOTEMPTY:    "ENOTEMPTY",
	experimentalsys.ENOTSOCK:     "ENOTSOCK",
	experimentalsys.ENOTSUP:      "ENOTSUP",
	experimentalsys.EPERM:        "EPERM",
	experimentalsys.EROFS:        "EROFS",
}
