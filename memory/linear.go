package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/hostfs/vfs"
)

// PageSize is the WebAssembly page size.
const PageSize = 65536

// memoryModule is a module with no code that exports one page of memory
// as "memory".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

// Linear allocates regions inside a wazero linear memory. Regions are carved
// from the end of the memory as it was when the allocator was created, growing
// it as needed, so existing guest data is never handed out. Regions are not
// freed.
type Linear struct {
	mem     api.Memory
	runtime wazero.Runtime
	next    uint64
	mu      sync.Mutex
}

// NewLinear allocates from mem, which is typically exported by a guest module.
func NewLinear(mem api.Memory) *Linear {
	return &Linear{mem: mem, next: uint64(mem.Size())}
}

// NewStandalone creates a runtime owning a single fresh memory and allocates
// from it. Close releases the runtime.
func NewStandalone(ctx context.Context) (*Linear, error) {
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryModule)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("memory module has no exported memory")
	}
	l := NewLinear(mem)
	l.runtime = rt
	return l, nil
}

// Alloc returns a zero-filled region of length bytes. Region.Data aliases the
// linear memory and is only valid until the memory next grows.
func (l *Linear) Alloc(length int) (*vfs.Region, error) {
	if length <= 0 {
		return nil, fmt.Errorf("invalid allocation length %d", length)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	addr := alignUp(l.next, regionAlign)
	end := addr + uint64(length)
	if end > uint64(^uint32(0)) {
		return nil, fmt.Errorf("allocation of %d bytes exceeds 32-bit address space", length)
	}
	if size := uint64(l.mem.Size()); end > size {
		pages := (end - size + PageSize - 1) / PageSize
		if _, ok := l.mem.Grow(uint32(pages)); !ok {
			return nil, fmt.Errorf("grow memory by %d pages failed", pages)
		}
	}

	data, ok := l.mem.Read(uint32(addr), uint32(length))
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", addr, length)
	}
	clear(data)
	l.next = end
	return &vfs.Region{Data: data, Addr: addr}, nil
}

// Read returns a view of length bytes at offset.
func (l *Linear) Read(offset, length uint32) ([]byte, error) {
	data, ok := l.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

// Write copies data into memory at offset.
func (l *Linear) Write(offset uint32, data []byte) error {
	if !l.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// Size returns the current memory size in bytes.
func (l *Linear) Size() uint32 {
	return l.mem.Size()
}

// Close releases the runtime created by NewStandalone. It is a no-op for
// allocators over a caller-owned memory.
func (l *Linear) Close(ctx context.Context) error {
	if l.runtime == nil {
		return nil
	}
	return l.runtime.Close(ctx)
}
