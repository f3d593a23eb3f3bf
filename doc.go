// Package hostfs mounts host directories into a virtual POSIX filesystem.
//
// The virtual-filesystem core owns the node tree and the open-stream table;
// this module supplies the backend it dispatches to when a path under a host
// mount is touched.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	hostfs/              Module root (documentation only)
//	├── vfs/             Node, stream and attribute types, open/seek/mmap constants
//	├── errno/           POSIX errno values and the errno-carrying error type
//	├── host/            Host filesystem API and its os implementation
//	├── hostfs/          The adapter: node and stream operations over a host
//	├── memory/          Region allocators for mmap emulation (Go heap, wasm memory)
//	├── metrics/         Prometheus collector for adapter operations
//	├── loader/          Whole-file reads of program inputs, file:// and data: URIs
//	└── cmd/hostfs/      Command-line shell over a mount
//
// # Quick Start
//
// Mount a directory and look up a file:
//
//	fsys := hostfs.New(host.NewOS())
//	root, err := fsys.Mount(&vfs.Mount{Root: "/srv/data", Mountpoint: "/data"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	node, err := root.NodeOps.Lookup(root, "notes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream := vfs.NewStream(node, vfs.O_RDONLY)
//	if err := node.StreamOps.Open(stream); err != nil {
//	    log.Fatal(err)
//	}
//	defer node.StreamOps.Close(stream)
//
//	buf := make([]byte, 4096)
//	n, err := node.StreamOps.Read(stream, buf, 0)
//
// # Errors
//
// Every failure the adapter detects itself or receives from the host with a
// symbolic code is returned as *errno.Error; test it with errno.Is. Host
// failures with no code (runtime faults) are returned as they are.
//
// # Platforms
//
// On Windows the host reports no POSIX mode, owner or inode. Modes are
// synthesized from the entry type with 0777 permissions, chmod is accepted and
// ignored, and the missing fields read as zero (one for the link count). The
// same behavior can be forced on any host with host.WithPlatform.
//
// # Thread Safety
//
// The adapter keeps no shared mutable state of its own. A stream's host
// descriptor is only touched by operations on that stream, which the caller
// must serialize.
//
// # Memory Model
//
// mmap is emulated as an eager copy into a freshly allocated region; msync
// writes the region back unless the mapping is private. Regions allocated from
// WASM linear memory are never freed, since that memory can only grow.
package hostfs
