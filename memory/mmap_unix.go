//go:build linux || darwin || freebsd

// File: memory/mmap_unix.go
// Author: momentics <momentics@gmail.com>
//
// Anonymous mmap-backed regions via golang.org/x/sys/unix.

package memory

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-buffer/api"
)

// Mmap allocates regions as anonymous private mappings.
// With Lock set, each region is pinned with mlock(2) and unlocked on Free.
type Mmap struct {
	Lock bool
}

var _ api.Allocator = Mmap{}

// Alloc maps size bytes of zeroed, read/write memory.
func (m Mmap) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, api.ErrInvalidArgument)
	}
	if size == 0 {
		return nil, nil
	}
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w: %w", size, api.ErrAllocation, err)
	}
	if m.Lock {
		if err := unix.Mlock(region); err != nil {
			_ = unix.Munmap(region)
			return nil, fmt.Errorf("mlock %d bytes: %w: %w", size, api.ErrAllocation, err)
		}
	}
	return region, nil
}

// Free unmaps a region returned by Alloc.
func (m Mmap) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if m.Lock {
		// munmap drops the lock as well; an unlock failure is not fatal here.
		_ = unix.Munlock(region)
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", len(region), err)
	}
	return nil
}

// MmapSupported reports whether Mmap is usable on this platform.
func MmapSupported() bool { return true }
