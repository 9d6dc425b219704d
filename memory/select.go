// File: memory/select.go
// Author: momentics <momentics@gmail.com>

package memory

import (
	"fmt"
	"strings"

	"github.com/momentics/hioload-buffer/api"
)

// Allocator kinds accepted by ByName.
const (
	KindHeap = "heap"
	KindMmap = "mmap"
)

// ByName resolves a configured allocator kind. An empty name selects the heap.
func ByName(name string, lock bool) (api.Allocator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KindHeap:
		return Heap{}, nil
	case KindMmap:
		if !MmapSupported() {
			return nil, fmt.Errorf("allocator %q: %w", name, api.ErrNotSupported)
		}
		return Mmap{Lock: lock}, nil
	default:
		return nil, fmt.Errorf("unknown allocator %q: %w", name, api.ErrInvalidArgument)
	}
}
