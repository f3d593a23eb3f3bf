package errno

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a failure carrying a POSIX errno. It is the only error shape the
// virtual filesystem converts into a guest-visible return code.
type Error struct {
	Cause  error
	Op     string
	Path   string
	Detail string
	Errno  Errno
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Errno.String())
	b.WriteByte(']')

	if e.Op != "" {
		b.WriteByte(' ')
		b.WriteString(e.Op)
	}

	if e.Path != "" {
		b.WriteByte(' ')
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same errno. Both *Error and a bare
// Errno are accepted as targets.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *Error:
		return e.Errno == t.Errno
	case Errno:
		return e.Errno == t
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(code Errno) *Builder {
	return &Builder{err: Error{Errno: code}}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Path sets the affected path
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// From extracts the errno carried by err, if any.
func From(err error) (Errno, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Errno, true
	}
	var code Errno
	if errors.As(err, &code) {
		return code, true
	}
	return 0, false
}

// Is reports whether err carries the given errno.
func Is(err error, code Errno) bool {
	got, ok := From(err)
	return ok && got == code
}
