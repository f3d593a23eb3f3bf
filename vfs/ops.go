package vfs

// NodeOps is the directory and metadata capability set of a backend.
type NodeOps interface {
	Getattr(node *Node) (*Attr, error)
	Setattr(node *Node, attr *SetAttr) error
	Lookup(parent *Node, name string) (*Node, error)
	Mknod(parent *Node, name string, mode uint32, dev uint64) (*Node, error)
	Rename(oldNode *Node, newDir *Node, newName string) error
	Unlink(parent *Node, name string) error
	Rmdir(parent *Node, name string) error
	Readdir(node *Node) ([]string, error)
	Symlink(parent *Node, newName, oldPath string) error
	Readlink(node *Node) (string, error)
}

// StreamOps is the open-file capability set of a backend.
//
// Read and Write take an explicit position, or CurrentPosition to use the
// stream's own file position.
type StreamOps interface {
	Open(stream *Stream) error
	Close(stream *Stream) error
	Read(stream *Stream, buf []byte, position int64) (int, error)
	Write(stream *Stream, buf []byte, position int64) (int, error)
	Llseek(stream *Stream, offset int64, whence int) (int64, error)
	Mmap(stream *Stream, addr uint64, length int, position int64, prot, flags int) (*Mapping, error)
	Msync(stream *Stream, buf []byte, offset int64, length int, mmapFlags int) error
}

// Stream is an open file handle over a node.
type Stream struct {
	Node *Node
	// Private is backend state, e.g. the host descriptor.
	Private  any
	Flags    int
	Position int64
}

// NewStream prepares a stream over node. The core calls StreamOps.Open on it
// before any I/O.
func NewStream(node *Node, flags int) *Stream {
	return &Stream{Node: node, Flags: flags}
}

// Region is a block of guest-addressable memory.
type Region struct {
	Data []byte
	Addr uint64
}

// Allocator hands out zero-filled regions for mmap emulation.
type Allocator interface {
	Alloc(length int) (*Region, error)
}

// Mapping is the result of a successful mmap.
type Mapping struct {
	Region
	Allocated bool
}
