package hostfs

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/vfs"
)

// Mount creates the root node of m. The mount root is lstat'ed so its node
// carries the real directory mode.
func (fs *FS) Mount(m *vfs.Mount) (node *vfs.Node, err error) {
	defer fs.observe(OpMount, time.Now(), &err)

	mode, err := fs.getMode(OpMount, m.Root)
	if err != nil {
		return nil, err
	}
	node, err = fs.createNode(nil, "/", mode)
	if err != nil {
		return nil, err
	}
	node.Mount = m
	fs.log.Debug("mounted host directory",
		zap.String("root", m.Root),
		zap.String("mountpoint", m.Mountpoint),
		zap.Stringer("platform", fs.cfg.Platform))
	return node, nil
}

func (fs *FS) createNode(parent *vfs.Node, name string, mode uint32) (*vfs.Node, error) {
	if !vfs.IsDir(mode) && !vfs.IsFile(mode) && !vfs.IsLink(mode) {
		return nil, errno.New(errno.EINVAL).
			Op(OpMknod).
			Path(name).
			Detail("unsupported node type %#o", mode&vfs.S_IFMT).
			Build()
	}
	node := vfs.NewNode(parent, name, mode, 0)
	node.NodeOps = fs
	node.StreamOps = fs
	return node, nil
}

// getMode lstats path and returns its POSIX mode.
func (fs *FS) getMode(op, path string) (uint32, error) {
	info, err := fs.host.Lstat(path)
	if err != nil {
		return 0, fs.convertError(op, path, err)
	}
	return convertMode(fs.cfg.Platform, info), nil
}
