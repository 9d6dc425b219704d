//go:build !linux && !darwin && !freebsd

// File: memory/mmap_other.go
// Author: momentics <momentics@gmail.com>

package memory

import (
	"fmt"

	"github.com/momentics/hioload-buffer/api"
)

// Mmap is unavailable on this platform; Alloc always fails.
type Mmap struct {
	Lock bool
}

var _ api.Allocator = Mmap{}

func (Mmap) Alloc(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	return nil, fmt.Errorf("mmap %d bytes: %w", size, api.ErrNotSupported)
}

func (Mmap) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return api.ErrNotSupported
}

// MmapSupported reports whether Mmap is usable on this platform.
func MmapSupported() bool { return false }
