package hostfs

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/vfs"
)

// realPath rebuilds the host path of node from its names up to the mount root.
func realPath(node *vfs.Node) string {
	var parts []string
	for node.Parent != node {
		parts = append(parts, node.Name)
		node = node.Parent
	}
	parts = append(parts, node.Mount.Root)
	slices.Reverse(parts)
	return filepath.Join(parts...)
}

// childPath is the host path of name inside dir.
func childPath(dir *vfs.Node, name string) string {
	return filepath.Join(realPath(dir), name)
}

// validName rejects names that would resolve outside their parent directory.
func validName(op, name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return errno.New(errno.EINVAL).
			Op(op).
			Path(name).
			Detail("invalid entry name").
			Build()
	}
	return nil
}
