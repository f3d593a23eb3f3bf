package hostfs

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/vfs"
)

// Open acquires a host descriptor for regular files. Directories and symlinks
// are served by node operations and need none.
func (fs *FS) Open(stream *vfs.Stream) (err error) {
	defer fs.observe(OpOpen, time.Now(), &err)

	if !vfs.IsFile(stream.Node.Mode) {
		return nil
	}
	opts, err := openOptions(stream.Flags)
	if err != nil {
		return err
	}
	path := realPath(stream.Node)
	f, err := fs.host.Open(path, opts)
	if err != nil {
		return fs.convertError(OpOpen, path, err)
	}
	stream.Private = f
	return nil
}

// Close releases the host descriptor, if the stream holds one.
func (fs *FS) Close(stream *vfs.Stream) (err error) {
	defer fs.observe(OpClose, time.Now(), &err)

	f, ok := stream.Private.(host.File)
	if !ok || f == nil {
		return nil
	}
	stream.Private = nil
	if err := f.Close(); err != nil {
		return fs.convertError(OpClose, realPath(stream.Node), err)
	}
	return nil
}

func (fs *FS) Read(stream *vfs.Stream, buf []byte, position int64) (n int, err error) {
	defer fs.observe(OpRead, time.Now(), &err)
	return fs.read(stream, buf, position)
}

func (fs *FS) Write(stream *vfs.Stream, buf []byte, position int64) (n int, err error) {
	defer fs.observe(OpWrite, time.Now(), &err)
	return fs.write(stream, buf, position)
}

func (fs *FS) read(stream *vfs.Stream, buf []byte, position int64) (int, error) {
	f, err := fs.descriptor(OpRead, stream)
	if err != nil {
		return 0, err
	}
	return fs.transfer(OpRead, stream, f, position, func() (int, error) {
		return f.Read(buf)
	})
}

func (fs *FS) write(stream *vfs.Stream, buf []byte, position int64) (int, error) {
	f, err := fs.descriptor(OpWrite, stream)
	if err != nil {
		return 0, err
	}
	return fs.transfer(OpWrite, stream, f, position, func() (int, error) {
		return f.Write(buf)
	})
}

// transfer runs do at position. An explicit position leaves the descriptor's
// own offset where it was; CurrentPosition uses and advances it.
func (fs *FS) transfer(op string, stream *vfs.Stream, f host.File, position int64, do func() (int, error)) (int, error) {
	if position == vfs.CurrentPosition {
		n, err := do()
		if err != nil {
			return n, fs.convertError(op, realPath(stream.Node), err)
		}
		return n, nil
	}
	if position < 0 {
		return 0, errno.New(errno.EINVAL).
			Op(op).
			Path(realPath(stream.Node)).
			Detail("negative position %d", position).
			Build()
	}

	saved, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fs.convertError(op, realPath(stream.Node), err)
	}
	if _, err := f.Seek(position, io.SeekStart); err != nil {
		return 0, fs.convertError(op, realPath(stream.Node), err)
	}
	n, ioErr := do()
	_, seekErr := f.Seek(saved, io.SeekStart)
	if ioErr != nil {
		return n, fs.convertError(op, realPath(stream.Node), ioErr)
	}
	if seekErr != nil {
		return n, fs.convertError(op, realPath(stream.Node), seekErr)
	}
	return n, nil
}

// descriptor returns the host descriptor held by stream.
func (fs *FS) descriptor(op string, stream *vfs.Stream) (host.File, error) {
	f, ok := stream.Private.(host.File)
	if ok && f != nil {
		return f, nil
	}
	code := errno.EBADF
	if vfs.IsDir(stream.Node.Mode) {
		code = errno.EISDIR
	}
	return nil, errno.New(code).Op(op).Path(realPath(stream.Node)).Build()
}

// Llseek computes the new stream position. SEEK_END asks the host for the
// current size of regular files; other nodes seek from zero.
func (fs *FS) Llseek(stream *vfs.Stream, offset int64, whence int) (position int64, err error) {
	defer fs.observe(OpLlseek, time.Now(), &err)

	switch whence {
	case vfs.SEEK_SET:
		position = offset
	case vfs.SEEK_CUR:
		position = stream.Position + offset
	case vfs.SEEK_END:
		position = offset
		if vfs.IsFile(stream.Node.Mode) {
			f, err := fs.descriptor(OpLlseek, stream)
			if err != nil {
				return 0, err
			}
			info, err := f.Stat()
			if err != nil {
				return 0, fs.convertError(OpLlseek, realPath(stream.Node), err)
			}
			position += info.Size
		}
	default:
		return 0, errno.New(errno.EINVAL).
			Op(OpLlseek).
			Detail("unknown whence %d", whence).
			Build()
	}

	if position < 0 {
		return 0, errno.New(errno.EINVAL).
			Op(OpLlseek).
			Path(realPath(stream.Node)).
			Detail("resulting position %d is negative", position).
			Build()
	}
	return position, nil
}

// Mmap allocates a fresh region and fills it by reading the file at position.
// Fixed addresses are not supported; the region is never shared with the file.
func (fs *FS) Mmap(stream *vfs.Stream, addr uint64, length int, position int64, prot, flags int) (m *vfs.Mapping, err error) {
	defer fs.observe(OpMmap, time.Now(), &err)

	if addr != 0 {
		return nil, errno.New(errno.EINVAL).
			Op(OpMmap).
			Detail("fixed address %#x not supported", addr).
			Build()
	}
	if length <= 0 {
		return nil, errno.New(errno.EINVAL).
			Op(OpMmap).
			Detail("invalid length %d", length).
			Build()
	}
	if !vfs.IsFile(stream.Node.Mode) {
		return nil, errno.New(errno.ENODEV).Op(OpMmap).Path(realPath(stream.Node)).Build()
	}

	region, err := fs.cfg.Allocator.Alloc(length)
	if err != nil {
		return nil, errno.New(errno.ENOMEM).
			Op(OpMmap).
			Path(realPath(stream.Node)).
			Cause(err).
			Build()
	}
	n, err := fs.read(stream, region.Data[:length], position)
	if err != nil {
		return nil, err
	}
	fs.log.Debug("mapped file region",
		zap.String("path", realPath(stream.Node)),
		zap.Int("length", length),
		zap.Int("read", n),
		zap.Uint64("addr", region.Addr),
		zap.Int("prot", prot),
		zap.Int("flags", flags))
	return &vfs.Mapping{Region: *region, Allocated: true}, nil
}

// Msync writes a mapped region back to the file. Private mappings are never
// written back.
func (fs *FS) Msync(stream *vfs.Stream, buf []byte, offset int64, length int, mmapFlags int) (err error) {
	defer fs.observe(OpMsync, time.Now(), &err)

	if !vfs.IsFile(stream.Node.Mode) {
		return errno.New(errno.ENODEV).Op(OpMsync).Path(realPath(stream.Node)).Build()
	}
	if mmapFlags&vfs.MAP_PRIVATE != 0 {
		return nil
	}
	if length < 0 || length > len(buf) {
		return errno.New(errno.EINVAL).
			Op(OpMsync).
			Path(realPath(stream.Node)).
			Detail("length %d outside buffer of %d bytes", length, len(buf)).
			Build()
	}
	_, err = fs.write(stream, buf[:length], offset)
	return err
}
