package memory

import (
	"fmt"
	"sync"

	"github.com/wippyai/hostfs/vfs"
)

// regionAlign is the alignment of every region address.
const regionAlign = 16

// Heap allocates regions on the Go heap. Addresses are synthetic and only
// unique per Heap.
type Heap struct {
	next uint64
	mu   sync.Mutex
}

// NewHeap creates a heap allocator. Address 0 is never handed out.
func NewHeap() *Heap {
	return &Heap{next: regionAlign}
}

// Alloc returns a zero-filled region of length bytes.
func (h *Heap) Alloc(length int) (*vfs.Region, error) {
	if length <= 0 {
		return nil, fmt.Errorf("invalid allocation length %d", length)
	}
	h.mu.Lock()
	addr := h.next
	h.next = alignUp(addr+uint64(length), regionAlign)
	h.mu.Unlock()

	return &vfs.Region{Data: make([]byte, length), Addr: addr}, nil
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
