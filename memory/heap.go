// File: memory/heap.go
// Author: momentics <momentics@gmail.com>

package memory

import (
	"fmt"

	"github.com/momentics/hioload-buffer/api"
)

// Heap allocates regions with make. Free leaves reclamation to the GC.
type Heap struct{}

var _ api.Allocator = Heap{}

// Alloc returns a zeroed slice of exactly size bytes.
func (Heap) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("heap alloc %d bytes: %w", size, api.ErrInvalidArgument)
	}
	if size == 0 {
		return nil, nil
	}
	return make([]byte, size), nil
}

// Free is a no-op.
func (Heap) Free([]byte) error { return nil }
