package host

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/tetratelabs/wazero/sys"
)

var (
	errNeedsWriteAccess = errors.New("creating or truncating a file requires write or append access")
	errAppendTruncate   = errors.New("truncate and append are mutually exclusive")
)

// OS implements FS over the os package.
type OS struct {
	platform Platform
}

// Option configures an OS host.
type Option func(*OS)

// WithPlatform forces the platform quirks to apply, regardless of the
// running GOOS. Emulating Windows on a POSIX host drops the POSIX-only stat
// fields and makes Chmod report not-supported.
func WithPlatform(p Platform) Option {
	return func(o *OS) {
		o.platform = p
	}
}

// NewOS creates a host over the process filesystem.
func NewOS(opts ...Option) *OS {
	o := &OS{platform: CurrentPlatform()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OS) Platform() Platform {
	return o.platform
}

func (o *OS) Open(path string, opts OpenOptions) (File, error) {
	flag, err := opts.osFlag()
	if err != nil {
		return nil, &CodeError{Op: "open", Path: path, Code: "EINVAL", Err: err}
	}
	f, err := os.OpenFile(path, flag, 0o666)
	if err != nil {
		return nil, wrapErr("open", path, err)
	}
	return &osFile{f: f, platform: o.platform}, nil
}

func (o *OS) Lstat(path string) (*FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, wrapErr("lstat", path, err)
	}
	return newFileInfo(info, o.platform), nil
}

func (o *OS) Chmod(path string, mode uint32) error {
	if o.platform == PlatformWindows {
		return &NotSupportedError{Op: "chmod", Path: path}
	}
	return wrapErr("chmod", path, os.Chmod(path, fs.FileMode(mode&0o777)))
}

func (o *OS) Truncate(path string, size int64) error {
	return wrapErr("truncate", path, os.Truncate(path, size))
}

func (o *OS) Mkdir(path string, mode uint32) error {
	return wrapErr("mkdir", path, os.Mkdir(path, fs.FileMode(mode&0o777)))
}

func (o *OS) Create(path string, mode uint32) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fs.FileMode(mode&0o777))
	if err != nil {
		return wrapErr("create", path, err)
	}
	return wrapErr("create", path, f.Close())
}

func (o *OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapErr("readfile", path, err)
	}
	return data, nil
}

func (o *OS) Remove(path string) error {
	return wrapErr("remove", path, os.Remove(path))
}

func (o *OS) Rename(oldPath, newPath string) error {
	return wrapErr("rename", oldPath, os.Rename(oldPath, newPath))
}

func (o *OS) Symlink(target, linkPath string) error {
	return wrapErr("symlink", linkPath, os.Symlink(target, linkPath))
}

func (o *OS) Readlink(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", wrapErr("readlink", path, err)
	}
	return target, nil
}

func (o *OS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapErr("readdir", path, err)
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		t := e.Type()
		out = append(out, DirEntry{
			Name:        e.Name(),
			IsFile:      t.IsRegular(),
			IsDirectory: t.IsDir(),
			IsSymlink:   t&fs.ModeSymlink != 0,
		})
	}
	return out, nil
}

func (opts OpenOptions) osFlag() (int, error) {
	write := opts.Write || opts.Append

	var flag int
	switch {
	case write && opts.Read:
		flag = os.O_RDWR
	case write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}

	if (opts.Create || opts.Truncate) && !write {
		return 0, errNeedsWriteAccess
	}
	if opts.Truncate && opts.Append && !opts.Write {
		return 0, errAppendTruncate
	}

	if opts.Append {
		flag |= os.O_APPEND
	}
	if opts.Create {
		flag |= os.O_CREATE
	}
	if opts.Truncate {
		flag |= os.O_TRUNC
	}
	return flag, nil
}

type osFile struct {
	f        *os.File
	platform Platform
}

func (f *osFile) Read(p []byte) (int, error) {
	n, err := f.f.Read(p)
	if err == io.EOF {
		return n, nil
	}
	return n, wrapErr("read", f.f.Name(), err)
}

func (f *osFile) Write(p []byte) (int, error) {
	n, err := f.f.Write(p)
	return n, wrapErr("write", f.f.Name(), err)
}

func (f *osFile) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.f.Seek(offset, whence)
	return pos, wrapErr("seek", f.f.Name(), err)
}

func (f *osFile) Stat() (*FileInfo, error) {
	info, err := f.f.Stat()
	if err != nil {
		return nil, wrapErr("fstat", f.f.Name(), err)
	}
	return newFileInfo(info, f.platform), nil
}

func (f *osFile) Close() error {
	return wrapErr("close", f.f.Name(), f.f.Close())
}

func newFileInfo(info fs.FileInfo, platform Platform) *FileInfo {
	st := sys.NewStat_t(info)
	mode := info.Mode()
	fi := &FileInfo{
		Size:        st.Size,
		Atime:       time.Unix(0, st.Atim),
		Mtime:       time.Unix(0, st.Mtim),
		Ctime:       time.Unix(0, st.Ctim),
		IsFile:      mode.IsRegular(),
		IsDirectory: mode.IsDir(),
		IsSymlink:   mode&fs.ModeSymlink != 0,
	}
	if platform == PlatformWindows {
		return fi
	}
	fi.Dev = st.Dev
	fi.Ino = st.Ino
	fi.Nlink = st.Nlink
	fi.Mode = posixMode(mode)
	fillPOSIX(fi, info)
	return fi
}

// posixMode converts Go file mode bits into a POSIX st_mode.
func posixMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	switch {
	case m.IsRegular():
		mode |= 0o100000
	case m.IsDir():
		mode |= 0o040000
	case m&fs.ModeSymlink != 0:
		mode |= 0o120000
	case m&fs.ModeNamedPipe != 0:
		mode |= 0o010000
	case m&fs.ModeSocket != 0:
		mode |= 0o140000
	case m&fs.ModeCharDevice != 0:
		mode |= 0o020000
	case m&fs.ModeDevice != 0:
		mode |= 0o060000
	}
	if m&fs.ModeSetuid != 0 {
		mode |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		mode |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		mode |= 0o1000
	}
	return mode
}
