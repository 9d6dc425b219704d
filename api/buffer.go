// Package api
// Author: momentics
//
// Backing memory contracts for ring buffers.
// Regions may be heap slices or anonymous mappings; a region is always
// returned to the allocator that produced it.

package api

// Allocator produces and releases fixed-size backing regions.
type Allocator interface {
	// Alloc returns a zeroed region of exactly size bytes.
	// A size of zero yields a nil region and no error.
	Alloc(size int) ([]byte, error)

	// Free releases a region obtained from Alloc. Freeing nil is a no-op.
	Free(region []byte) error
}

// Ownership records who owns the RingBuffer container itself.
type Ownership int

const (
	// Borrowed containers are supplied by the caller and only initialized.
	Borrowed Ownership = iota
	// Owned containers were allocated by the constructor.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}
