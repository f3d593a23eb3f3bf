package hostfs

import (
	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/vfs"
)

// ignoredFlags are accepted and dropped; the host open call has no equivalent.
const ignoredFlags = vfs.O_PATH |
	vfs.O_NONBLOCK |
	vfs.O_LARGEFILE |
	vfs.O_CLOEXEC |
	vfs.O_DIRECTORY |
	vfs.O_EXCL |
	vfs.O_NOCTTY |
	vfs.O_DSYNC |
	vfs.O_NOFOLLOW

type flagRule struct {
	apply func(*host.OpenOptions)
	mask  int
	value int
}

// openRules match when flags&mask == value. The access mode is a two-bit
// field, so O_RDONLY (zero) is matched against O_ACCMODE rather than as a bit.
var openRules = []flagRule{
	{mask: vfs.O_ACCMODE, value: vfs.O_RDONLY, apply: func(o *host.OpenOptions) { o.Read = true }},
	{mask: vfs.O_ACCMODE, value: vfs.O_WRONLY, apply: func(o *host.OpenOptions) { o.Write = true }},
	{mask: vfs.O_ACCMODE, value: vfs.O_RDWR, apply: func(o *host.OpenOptions) { o.Read, o.Write = true, true }},
	{mask: vfs.O_CREAT, value: vfs.O_CREAT, apply: func(o *host.OpenOptions) { o.Create = true }},
	{mask: vfs.O_TRUNC, value: vfs.O_TRUNC, apply: func(o *host.OpenOptions) { o.Truncate = true }},
	{mask: vfs.O_APPEND, value: vfs.O_APPEND, apply: func(o *host.OpenOptions) { o.Append = true }},
}

// openOptions translates POSIX open flags into host open options. Any bit
// left over after the rules are applied fails with EINVAL.
func openOptions(flags int) (host.OpenOptions, error) {
	var opts host.OpenOptions
	rest := flags &^ ignoredFlags
	for _, r := range openRules {
		if rest&r.mask == r.value {
			r.apply(&opts)
			rest &^= r.value
		}
	}
	if rest != 0 {
		return host.OpenOptions{}, errno.New(errno.EINVAL).
			Op(OpOpen).
			Detail("unsupported open flags %#o", rest).
			Build()
	}
	return opts, nil
}
