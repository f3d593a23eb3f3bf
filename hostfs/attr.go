package hostfs

import (
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/vfs"
)

// defaultBlksize is reported when the host has no block size.
const defaultBlksize = 4096

// convertMode returns the POSIX mode of a host status record. Windows hosts
// report no mode, so one is synthesized from the entry type with all
// permission bits set.
func convertMode(platform host.Platform, info *host.FileInfo) uint32 {
	if platform != host.PlatformWindows {
		return info.Mode
	}
	var mode uint32
	switch {
	case info.IsFile:
		mode = vfs.S_IFREG
	case info.IsDirectory:
		mode = vfs.S_IFDIR
	case info.IsSymlink:
		mode = vfs.S_IFLNK
	}
	return mode | vfs.S_IRWXUGO
}

// convertAttr builds the stat record for a host status record.
func convertAttr(platform host.Platform, info *host.FileInfo) *vfs.Attr {
	attr := &vfs.Attr{
		Dev:     info.Dev,
		Ino:     info.Ino,
		Mode:    info.Mode,
		Nlink:   info.Nlink,
		UID:     info.UID,
		GID:     info.GID,
		Rdev:    info.Rdev,
		Size:    info.Size,
		Atime:   info.Atime,
		Mtime:   info.Mtime,
		Ctime:   info.Ctime,
		Blksize: info.Blksize,
		Blocks:  info.Blocks,
	}
	if platform != host.PlatformWindows {
		return attr
	}

	attr.Mode = convertMode(platform, info)
	attr.Nlink = 1
	attr.UID = 0
	attr.GID = 0
	attr.Rdev = 0
	if attr.Blksize == 0 {
		attr.Blksize = defaultBlksize
	}
	if attr.Blocks == 0 {
		attr.Blocks = (attr.Size + attr.Blksize - 1) / attr.Blksize
	}
	return attr
}
