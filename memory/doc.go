// Package memory provides the allocators backing mmap emulation.
//
// Heap hands out ordinary Go byte slices and is the default. Linear carves
// regions out of a WebAssembly linear memory through wazero, so a mapping is
// addressable by a guest module sharing that memory.
package memory
