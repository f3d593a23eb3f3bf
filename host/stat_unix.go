//go:build linux || darwin

package host

import (
	"io/fs"
	"syscall"
)

func fillPOSIX(fi *FileInfo, info fs.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	fi.Mode = uint32(st.Mode)
	fi.UID = st.Uid
	fi.GID = st.Gid
	fi.Rdev = uint64(st.Rdev)
	fi.Blksize = int64(st.Blksize)
	fi.Blocks = st.Blocks
}
