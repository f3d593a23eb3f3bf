// Package vfs holds the contracts shared between the virtual filesystem core
// and the backends it mounts.
//
// The core owns the node tree, the mount table, the descriptor table and the
// memory used for mappings. A backend such as hostfs only sees the pieces
// defined here: nodes, streams, attribute records, the numeric constants the
// guest libc was built with, and the NodeOps/StreamOps capability sets it
// implements.
package vfs
