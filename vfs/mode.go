package vfs

// IsFile reports whether mode describes a regular file.
func IsFile(mode uint32) bool { return mode&S_IFMT == S_IFREG }

// IsDir reports whether mode describes a directory.
func IsDir(mode uint32) bool { return mode&S_IFMT == S_IFDIR }

// IsLink reports whether mode describes a symbolic link.
func IsLink(mode uint32) bool { return mode&S_IFMT == S_IFLNK }

// IsChrdev reports whether mode describes a character device.
func IsChrdev(mode uint32) bool { return mode&S_IFMT == S_IFCHR }

// IsFIFO reports whether mode describes a named pipe.
func IsFIFO(mode uint32) bool { return mode&S_IFMT == S_IFIFO }
