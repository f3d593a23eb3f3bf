package vfs

import (
	"sync/atomic"
	"time"
)

// Mount binds a host directory to a subtree of the virtual filesystem.
type Mount struct {
	// Root is the host directory backing the mount (opts.root).
	Root string
	// Mountpoint is where the subtree is attached in the virtual tree.
	Mountpoint string
}

// Node is one file, directory or symlink in the virtual tree.
//
// Parent is a back-pointer used to rebuild paths; the mount root is its own
// parent.
type Node struct {
	Parent    *Node
	Mount     *Mount
	NodeOps   NodeOps
	StreamOps StreamOps
	Name      string
	ID        uint64
	Mode      uint32
	Rdev      uint64
}

var nextNodeID atomic.Uint64

// NewNode creates a node under parent. A nil parent makes a mount root, whose
// parent is the node itself.
func NewNode(parent *Node, name string, mode uint32, rdev uint64) *Node {
	n := &Node{
		Parent: parent,
		Name:   name,
		Mode:   mode,
		Rdev:   rdev,
		ID:     nextNodeID.Add(1),
	}
	if parent == nil {
		n.Parent = n
	} else {
		n.Mount = parent.Mount
	}
	return n
}

// IsRoot reports whether n is the root of its mount.
func (n *Node) IsRoot() bool {
	return n.Parent == n
}

// Attr is the stat record returned by getattr.
type Attr struct {
	Atime   time.Time
	Mtime   time.Time
	Ctime   time.Time
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Mode    uint32
	UID     uint32
	GID     uint32
}

// SetAttr carries the fields a setattr call wants changed. Nil fields are left
// alone.
type SetAttr struct {
	Mode      *uint32
	Size      *int64
	Timestamp *time.Time
}
