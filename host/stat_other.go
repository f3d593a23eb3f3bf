//go:build !linux && !darwin

package host

import "io/fs"

// Only the portable fields are known here; the mode derived from fs.FileMode
// is already set by newFileInfo.
func fillPOSIX(*FileInfo, fs.FileInfo) {}
