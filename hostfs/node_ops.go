package hostfs

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/vfs"
)

// Getattr lstats the node; symlinks are not followed.
func (fs *FS) Getattr(node *vfs.Node) (attr *vfs.Attr, err error) {
	defer fs.observe(OpGetattr, time.Now(), &err)

	path := realPath(node)
	info, err := fs.host.Lstat(path)
	if err != nil {
		return nil, fs.convertError(OpGetattr, path, err)
	}
	return convertAttr(fs.cfg.Platform, info), nil
}

// Setattr applies mode, timestamp and size changes in that order.
func (fs *FS) Setattr(node *vfs.Node, attr *vfs.SetAttr) (err error) {
	defer fs.observe(OpSetattr, time.Now(), &err)

	path := realPath(node)
	if attr.Mode != nil {
		if err := fs.host.Chmod(path, *attr.Mode); err != nil {
			if fs.cfg.Platform != host.PlatformWindows || !host.IsNotSupported(err) {
				return fs.convertError(OpSetattr, path, err)
			}
			fs.log.Debug("chmod not supported by host, keeping mode in memory", zap.String("path", path))
		}
		node.Mode = *attr.Mode
	}
	if attr.Timestamp != nil {
		// The host API has no utimes.
		fs.log.Debug("ignoring timestamp change", zap.String("path", path), zap.Time("timestamp", *attr.Timestamp))
	}
	if attr.Size != nil {
		if err := fs.host.Truncate(path, *attr.Size); err != nil {
			return fs.convertError(OpSetattr, path, err)
		}
	}
	return nil
}

// Lookup returns a fresh node for name; nodes are not cached here.
func (fs *FS) Lookup(parent *vfs.Node, name string) (node *vfs.Node, err error) {
	defer fs.observe(OpLookup, time.Now(), &err)

	if err := validName(OpLookup, name); err != nil {
		return nil, err
	}
	mode, err := fs.getMode(OpLookup, childPath(parent, name))
	if err != nil {
		return nil, err
	}
	return fs.createNode(parent, name, mode)
}

// Mknod creates a directory or an empty regular file. Symlinks go through
// Symlink; other types are rejected by createNode.
func (fs *FS) Mknod(parent *vfs.Node, name string, mode uint32, dev uint64) (node *vfs.Node, err error) {
	defer fs.observe(OpMknod, time.Now(), &err)

	if err := validName(OpMknod, name); err != nil {
		return nil, err
	}
	if vfs.IsLink(mode) {
		return nil, errno.New(errno.EINVAL).
			Op(OpMknod).
			Path(name).
			Detail("symlinks are created with symlink").
			Build()
	}
	node, err = fs.createNode(parent, name, mode)
	if err != nil {
		return nil, err
	}
	path := realPath(node)
	if vfs.IsDir(node.Mode) {
		err = fs.host.Mkdir(path, node.Mode)
	} else {
		err = fs.host.Create(path, node.Mode)
	}
	if err != nil {
		return nil, fs.convertError(OpMknod, path, err)
	}
	return node, nil
}

// Rename moves oldNode to newName inside newDir. Only the node's name is
// updated; the core relinks it under newDir.
func (fs *FS) Rename(oldNode *vfs.Node, newDir *vfs.Node, newName string) (err error) {
	defer fs.observe(OpRename, time.Now(), &err)

	if err := validName(OpRename, newName); err != nil {
		return err
	}
	oldPath := realPath(oldNode)
	newPath := childPath(newDir, newName)
	if err := fs.host.Rename(oldPath, newPath); err != nil {
		return fs.convertError(OpRename, oldPath, err)
	}
	oldNode.Name = newName
	return nil
}

func (fs *FS) Unlink(parent *vfs.Node, name string) (err error) {
	defer fs.observe(OpUnlink, time.Now(), &err)

	if err := validName(OpUnlink, name); err != nil {
		return err
	}
	path := childPath(parent, name)
	if err := fs.host.Remove(path); err != nil {
		return fs.convertError(OpUnlink, path, err)
	}
	return nil
}

func (fs *FS) Rmdir(parent *vfs.Node, name string) (err error) {
	defer fs.observe(OpRmdir, time.Now(), &err)

	if err := validName(OpRmdir, name); err != nil {
		return err
	}
	path := childPath(parent, name)
	if err := fs.host.Remove(path); err != nil {
		return fs.convertError(OpRmdir, path, err)
	}
	return nil
}

// Readdir lists entry names in host order. "." and ".." are not included.
func (fs *FS) Readdir(node *vfs.Node) (names []string, err error) {
	defer fs.observe(OpReaddir, time.Now(), &err)

	path := realPath(node)
	entries, err := fs.host.ReadDir(path)
	if err != nil {
		return nil, fs.convertError(OpReaddir, path, err)
	}
	names = make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Symlink creates newName in parent pointing at oldPath.
func (fs *FS) Symlink(parent *vfs.Node, newName, oldPath string) (err error) {
	defer fs.observe(OpSymlink, time.Now(), &err)

	if err := validName(OpSymlink, newName); err != nil {
		return err
	}
	newPath := childPath(parent, newName)
	if err := fs.host.Symlink(oldPath, newPath); err != nil {
		return fs.convertError(OpSymlink, newPath, err)
	}
	return nil
}

// Readlink returns the raw link target.
func (fs *FS) Readlink(node *vfs.Node) (target string, err error) {
	defer fs.observe(OpReadlink, time.Now(), &err)

	path := realPath(node)
	target, err = fs.host.Readlink(path)
	if err != nil {
		return "", fs.convertError(OpReadlink, path, err)
	}
	return target, nil
}
