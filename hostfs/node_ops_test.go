package hostfs

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/vfs"
)

func TestLookup(t *testing.T) {
	_, root, dir := mountTemp(t)
	writeHostFile(t, filepath.Join(dir, "f.txt"), "hello")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d"), 0o755))

	f, err := root.NodeOps.Lookup(root, "f.txt")
	require.NoError(t, err)
	assert.True(t, vfs.IsFile(f.Mode))
	assert.Same(t, root, f.Parent)

	d, err := root.NodeOps.Lookup(root, "d")
	require.NoError(t, err)
	assert.True(t, vfs.IsDir(d.Mode))

	_, err = root.NodeOps.Lookup(root, "nope")
	assert.True(t, errno.Is(err, errno.ENOENT), "got %v", err)
}

func TestGetattr(t *testing.T) {
	_, root, dir := mountTemp(t)
	writeHostFile(t, filepath.Join(dir, "f.txt"), "hello")

	f, err := root.NodeOps.Lookup(root, "f.txt")
	require.NoError(t, err)
	attr, err := f.NodeOps.Getattr(f)
	require.NoError(t, err)
	assert.Equal(t, int64(5), attr.Size)
	assert.True(t, vfs.IsFile(attr.Mode))
	assert.False(t, attr.Mtime.IsZero())
	if runtime.GOOS != "windows" {
		assert.NotZero(t, attr.Ino)
		assert.NotZero(t, attr.Nlink)
	}
}

func TestMknodExisting(t *testing.T) {
	_, root, dir := mountTemp(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d"), 0o755))
	writeHostFile(t, filepath.Join(dir, "f"), "data")

	_, err := root.NodeOps.Mknod(root, "d", vfs.S_IFDIR|0o755, 0)
	assert.True(t, errno.Is(err, errno.EEXIST), "got %v", err)

	_, err = root.NodeOps.Mknod(root, "f", vfs.S_IFREG|0o644, 0)
	assert.True(t, errno.Is(err, errno.EEXIST), "got %v", err)
	content, err := os.ReadFile(filepath.Join(dir, "f"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content), "existing file must keep its content")

	_, err = root.NodeOps.Mknod(root, "fifo", vfs.S_IFIFO|0o644, 0)
	assert.True(t, errno.Is(err, errno.EINVAL), "got %v", err)
	_, statErr := os.Lstat(filepath.Join(dir, "fifo"))
	assert.True(t, os.IsNotExist(statErr), "rejected mknod must not touch the host")
}

func TestMknodRegularFile(t *testing.T) {
	_, root, dir := mountTemp(t)

	f, err := root.NodeOps.Mknod(root, "new", vfs.S_IFREG|0o644, 0)
	require.NoError(t, err)
	assert.True(t, vfs.IsFile(f.Mode))
	info, err := os.Lstat(filepath.Join(dir, "new"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Zero(t, info.Size())
}

func TestMknodSymlinkRejected(t *testing.T) {
	_, root, dir := mountTemp(t)

	_, err := root.NodeOps.Mknod(root, "l", vfs.S_IFLNK|0o777, 0)
	assert.True(t, errno.Is(err, errno.EINVAL), "got %v", err)
	_, statErr := os.Lstat(filepath.Join(dir, "l"))
	assert.True(t, os.IsNotExist(statErr), "rejected mknod must not touch the host")
}

func TestNamesStayInsideMount(t *testing.T) {
	_, root, dir := mountTemp(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	victim := filepath.Join(dir, "victim")
	writeHostFile(t, victim, "keep")

	d, err := root.NodeOps.Lookup(root, "sub")
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../victim", "a/b"} {
		_, err := d.NodeOps.Lookup(d, name)
		assert.True(t, errno.Is(err, errno.EINVAL), "lookup %q: got %v", name, err)

		_, err = d.NodeOps.Mknod(d, name, vfs.S_IFREG|0o644, 0)
		assert.True(t, errno.Is(err, errno.EINVAL), "mknod %q: got %v", name, err)

		err = d.NodeOps.Unlink(d, name)
		assert.True(t, errno.Is(err, errno.EINVAL), "unlink %q: got %v", name, err)

		err = d.NodeOps.Rmdir(d, name)
		assert.True(t, errno.Is(err, errno.EINVAL), "rmdir %q: got %v", name, err)

		err = d.NodeOps.Symlink(d, name, "target")
		assert.True(t, errno.Is(err, errno.EINVAL), "symlink %q: got %v", name, err)
	}

	writeHostFile(t, filepath.Join(sub, "f"), "x")
	f, err := d.NodeOps.Lookup(d, "f")
	require.NoError(t, err)
	err = f.NodeOps.Rename(f, d, "../moved")
	assert.True(t, errno.Is(err, errno.EINVAL), "got %v", err)
	assert.Equal(t, "f", f.Name)

	content, err := os.ReadFile(victim)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(content))
	_, err = os.Lstat(filepath.Join(sub, "f"))
	assert.NoError(t, err)
	_, err = os.Lstat(filepath.Join(dir, "moved"))
	assert.True(t, os.IsNotExist(err))
}

func TestReaddir(t *testing.T) {
	_, root, dir := mountTemp(t)
	for _, name := range []string{"a", "b", "c"} {
		writeHostFile(t, filepath.Join(dir, name), name)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := root.NodeOps.Readdir(root)
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"a", "b", "c", "sub"}, names)

	f, err := root.NodeOps.Lookup(root, "a")
	require.NoError(t, err)
	_, err = f.NodeOps.Readdir(f)
	assert.True(t, errno.Is(err, errno.ENOTDIR), "got %v", err)
}

func TestRenameAcrossDirectories(t *testing.T) {
	_, root, dir := mountTemp(t)
	writeHostFile(t, filepath.Join(dir, "f"), "data")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dst"), 0o755))

	f, err := root.NodeOps.Lookup(root, "f")
	require.NoError(t, err)
	dst, err := root.NodeOps.Lookup(root, "dst")
	require.NoError(t, err)

	require.NoError(t, f.NodeOps.Rename(f, dst, "g"))
	assert.Equal(t, "g", f.Name)
	// The core relinks the node; the adapter only renames it.
	assert.Same(t, root, f.Parent)

	data, err := os.ReadFile(filepath.Join(dir, "dst", "g"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestRenameMissing(t *testing.T) {
	fsys, root, _ := mountTemp(t)
	ghost, err := fsys.createNode(root, "ghost", vfs.S_IFREG|0o644)
	require.NoError(t, err)

	err = root.NodeOps.Rename(ghost, root, "other")
	assert.True(t, errno.Is(err, errno.ENOENT), "got %v", err)
	assert.Equal(t, "ghost", ghost.Name)
}

func TestUnlinkRmdir(t *testing.T) {
	_, root, dir := mountTemp(t)
	writeHostFile(t, filepath.Join(dir, "f"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "full", "inner"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0o755))

	require.NoError(t, root.NodeOps.Unlink(root, "f"))
	require.NoError(t, root.NodeOps.Rmdir(root, "empty"))

	err := root.NodeOps.Rmdir(root, "full")
	assert.True(t, errno.Is(err, errno.ENOTEMPTY) || errno.Is(err, errno.EEXIST), "got %v", err)

	err = root.NodeOps.Unlink(root, "f")
	assert.True(t, errno.Is(err, errno.ENOENT), "got %v", err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "full", entries[0].Name())
}

func TestSymlinkReadlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	_, root, dir := mountTemp(t)
	writeHostFile(t, filepath.Join(dir, "target"), "x")

	require.NoError(t, root.NodeOps.Symlink(root, "link", "target"))

	link, err := root.NodeOps.Lookup(root, "link")
	require.NoError(t, err)
	assert.True(t, vfs.IsLink(link.Mode))

	attr, err := link.NodeOps.Getattr(link)
	require.NoError(t, err)
	assert.True(t, vfs.IsLink(attr.Mode), "getattr must not follow the final symlink")

	target, err := link.NodeOps.Readlink(link)
	require.NoError(t, err)
	// Returned verbatim, not rebased onto the mount root.
	assert.Equal(t, "target", target)

	abs := filepath.Join(dir, "target")
	require.NoError(t, root.NodeOps.Symlink(root, "abs", abs))
	absLink, err := root.NodeOps.Lookup(root, "abs")
	require.NoError(t, err)
	target, err = absLink.NodeOps.Readlink(absLink)
	require.NoError(t, err)
	assert.Equal(t, abs, target)

	err = root.NodeOps.Symlink(root, "link", "elsewhere")
	assert.True(t, errno.Is(err, errno.EEXIST), "got %v", err)

	f, err := root.NodeOps.Lookup(root, "target")
	require.NoError(t, err)
	_, err = f.NodeOps.Readlink(f)
	assert.True(t, errno.Is(err, errno.EINVAL), "got %v", err)
}

func TestSetattr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod is not supported on windows")
	}
	_, root, dir := mountTemp(t)
	path := filepath.Join(dir, "f")
	writeHostFile(t, path, "0123456789")

	f, err := root.NodeOps.Lookup(root, "f")
	require.NoError(t, err)

	mode := uint32(vfs.S_IFREG | 0o600)
	size := int64(4)
	ts := time.Unix(0, 0)
	require.NoError(t, f.NodeOps.Setattr(f, &vfs.SetAttr{Mode: &mode, Size: &size, Timestamp: &ts}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, int64(4), info.Size())
	assert.NotEqual(t, ts, info.ModTime(), "timestamps are not applied")
	assert.Equal(t, mode, f.Mode)
}

func TestSetattrWindowsSwallowsChmod(t *testing.T) {
	h := host.NewOS(host.WithPlatform(host.PlatformWindows))
	_, root, dir := mountHost(t, h)
	writeHostFile(t, filepath.Join(dir, "f"), "abc")

	f, err := root.NodeOps.Lookup(root, "f")
	require.NoError(t, err)

	mode := uint32(vfs.S_IFREG | 0o444)
	require.NoError(t, f.NodeOps.Setattr(f, &vfs.SetAttr{Mode: &mode}))
	assert.Equal(t, mode, f.Mode)
}

func TestSetattrNotSupportedOnPOSIX(t *testing.T) {
	h := &faultyHost{FS: host.NewOS()}
	_, root, dir := mountHost(t, h)
	writeHostFile(t, filepath.Join(dir, "f"), "abc")

	f, err := root.NodeOps.Lookup(root, "f")
	require.NoError(t, err)

	h.chmodErr = &host.NotSupportedError{Op: "chmod"}
	mode := uint32(vfs.S_IFREG | 0o600)
	err = f.NodeOps.Setattr(f, &vfs.SetAttr{Mode: &mode})
	assert.True(t, errno.Is(err, errno.ENOSYS), "got %v", err)
	assert.NotEqual(t, mode, f.Mode)
}
