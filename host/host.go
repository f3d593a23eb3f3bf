package host

import (
	"runtime"
	"time"
)

// Platform selects which host quirks apply.
type Platform uint8

const (
	PlatformPOSIX Platform = iota
	PlatformWindows
)

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPOSIX
}

// ParsePlatform accepts "posix", "windows" or "auto"/"" for the running platform.
func ParsePlatform(s string) (Platform, bool) {
	switch s {
	case "", "auto":
		return CurrentPlatform(), true
	case "posix":
		return PlatformPOSIX, true
	case "windows":
		return PlatformWindows, true
	}
	return 0, false
}

func (p Platform) String() string {
	if p == PlatformWindows {
		return "windows"
	}
	return "posix"
}

// OpenOptions is the host equivalent of an open flag set.
type OpenOptions struct {
	Read     bool
	Write    bool
	Append   bool
	Create   bool
	Truncate bool
}

// FileInfo is the host status record. Fields a platform cannot supply are
// left zero; Mode is only meaningful on POSIX hosts.
type FileInfo struct {
	Atime       time.Time
	Mtime       time.Time
	Ctime       time.Time
	Dev         uint64
	Ino         uint64
	Nlink       uint64
	Rdev        uint64
	Size        int64
	Blksize     int64
	Blocks      int64
	Mode        uint32
	UID         uint32
	GID         uint32
	IsFile      bool
	IsDirectory bool
	IsSymlink   bool
}

// DirEntry is one entry yielded by ReadDir.
type DirEntry struct {
	Name        string
	IsFile      bool
	IsDirectory bool
	IsSymlink   bool
}

// File is an open host descriptor.
type File interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Stat() (*FileInfo, error)
	Close() error
}

// FS is the synchronous host filesystem API.
type FS interface {
	Platform() Platform
	Open(path string, opts OpenOptions) (File, error)
	Lstat(path string) (*FileInfo, error)
	Chmod(path string, mode uint32) error
	Truncate(path string, size int64) error
	Mkdir(path string, mode uint32) error
	// Create makes a new empty regular file and fails if path exists.
	Create(path string, mode uint32) error
	ReadFile(path string) ([]byte, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	Symlink(target, linkPath string) error
	Readlink(path string) (string, error)
	ReadDir(path string) ([]DirEntry, error)
}
