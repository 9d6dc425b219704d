// File: buffer/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

import (
	"fmt"
	"io"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/memory"
)

// RingBuffer is a circular byte queue over a fixed backing region.
//
// Live data is [lo, hi) when lo <= hi, otherwise [lo, size) followed by
// [0, hi).
type RingBuffer struct {
	data     []byte
	lo       int // read cursor
	hi       int // write cursor
	alloc    api.Allocator
	owner    api.Ownership
	released bool
}

var (
	_ api.ByteRing = (*RingBuffer)(nil)
	_ io.ReadWriter = (*RingBuffer)(nil)
)

// Option customizes ring construction.
type Option func(*options)

type options struct {
	alloc api.Allocator
}

// WithAllocator sets the allocator for the backing region. Compact uses the
// same allocator for its replacement region. A nil allocator is ignored.
func WithAllocator(a api.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// New allocates a RingBuffer owning both its container and a backing region
// of size bytes. A size of zero yields a permanently empty ring.
func New(size int, opts ...Option) (*RingBuffer, error) {
	rb := new(RingBuffer)
	if err := rb.init(size, api.Owned, opts); err != nil {
		return nil, err
	}
	return rb, nil
}

// Init initializes caller-provided storage as an empty ring of size bytes.
// Whatever *rb held before is overwritten, not freed. On error *rb is left
// untouched.
func Init(rb *RingBuffer, size int, opts ...Option) error {
	if rb == nil {
		return fmt.Errorf("init ring: nil container: %w", api.ErrInvalidArgument)
	}
	return rb.init(size, api.Borrowed, opts)
}

func (rb *RingBuffer) init(size int, owner api.Ownership, opts []Option) error {
	if size < 0 {
		return fmt.Errorf("init ring of %d bytes: %w", size, api.ErrInvalidArgument)
	}
	o := options{alloc: memory.Heap{}}
	for _, opt := range opts {
		opt(&o)
	}
	data, err := o.alloc.Alloc(size)
	if err != nil {
		return fmt.Errorf("init ring of %d bytes: %w", size, err)
	}
	*rb = RingBuffer{
		data:  data,
		alloc: o.alloc,
		owner: owner,
	}
	return nil
}

// Free releases the backing region and resets the ring to zero capacity.
// Calling Free again is a no-op. An owned ring is retired as well: it drops
// its allocator and reports Released. A borrowed container may be passed to
// Init again.
func (rb *RingBuffer) Free() error {
	if rb.released {
		return nil
	}
	data, alloc := rb.data, rb.alloc
	rb.data = nil
	rb.lo, rb.hi = 0, 0
	if rb.owner == api.Owned {
		rb.alloc = nil
		rb.released = true
	}
	if data == nil || alloc == nil {
		return nil
	}
	if err := alloc.Free(data); err != nil {
		return fmt.Errorf("free ring region: %w", err)
	}
	return nil
}

// Released reports whether an owned ring has been freed.
func (rb *RingBuffer) Released() bool { return rb.released }

// Ownership reports which constructor produced the container.
func (rb *RingBuffer) Ownership() api.Ownership { return rb.owner }

// Size returns the backing region length; usable capacity is Size()-1.
func (rb *RingBuffer) Size() int { return len(rb.data) }

// ReadCursor returns the index of the first buffered byte.
func (rb *RingBuffer) ReadCursor() int { return rb.lo }

// WriteCursor returns the index the next Put writes to.
func (rb *RingBuffer) WriteCursor() int { return rb.hi }

// Base returns the raw backing region. Its contents are only meaningful
// through the cursors.
func (rb *RingBuffer) Base() []byte { return rb.data }

// Flush drops all buffered data without touching the region.
func (rb *RingBuffer) Flush() {
	rb.lo, rb.hi = 0, 0
}

// Used returns the number of buffered bytes.
func (rb *RingBuffer) Used() int {
	if rb.hi >= rb.lo { // |_^....v_|
		return rb.hi - rb.lo
	}
	return len(rb.data) - rb.lo + rb.hi // |..v__^..|
}

// Available returns how many bytes Put can accept.
func (rb *RingBuffer) Available() int {
	if len(rb.data) == 0 {
		return 0
	}
	return len(rb.data) - rb.Used() - 1
}

// IsEmpty reports whether the ring holds no bytes.
func (rb *RingBuffer) IsEmpty() bool { return rb.lo == rb.hi }

// IsFull reports whether Put would accept nothing. A zero-capacity ring is
// never full, only empty.
func (rb *RingBuffer) IsFull() bool { return len(rb.data) > 0 && rb.Available() == 0 }

// IsWrapped reports whether the stored bytes span the region end, so Peek
// and Get need two copies.
func (rb *RingBuffer) IsWrapped() bool { return rb.lo > rb.hi }

// advance moves cursor i forward by n, wrapping at the region end.
// n never exceeds the region length, so one subtraction keeps the result in
// [0, size).
func (rb *RingBuffer) advance(i, n int) int {
	i += n
	if i >= len(rb.data) {
		i -= len(rb.data)
	}
	return i
}

// Put appends up to len(p) bytes and returns how many were stored.
// A short count means the ring is now full.
func (rb *RingBuffer) Put(p []byte) int {
	n := min(len(p), rb.Available())
	if n == 0 {
		return 0
	}
	// first run: hi up to the region end, or up to lo when wrapped
	end := len(rb.data)
	if rb.lo > rb.hi {
		end = rb.lo
	}
	top := copy(rb.data[rb.hi:end], p[:n])
	rb.hi = rb.advance(rb.hi, top)
	if rest := n - top; rest > 0 {
		copy(rb.data[rb.hi:], p[top:n])
		rb.hi = rb.advance(rb.hi, rest)
	}
	return n
}

// Slices returns the first min(n, Used()) buffered bytes as at most two
// contiguous views of the region. second is nil unless the data wraps.
// The views alias the ring and are valid until the next mutating call.
func (rb *RingBuffer) Slices(n int) (first, second []byte) {
	n = min(n, rb.Used())
	if n <= 0 {
		return nil, nil
	}
	if rb.lo < rb.hi {
		return rb.data[rb.lo : rb.lo+n], nil
	}
	top := len(rb.data) - rb.lo
	if n <= top {
		return rb.data[rb.lo : rb.lo+n], nil
	}
	return rb.data[rb.lo:], rb.data[:n-top]
}

// Peek copies up to len(p) bytes from the front without consuming them.
func (rb *RingBuffer) Peek(p []byte) int {
	first, second := rb.Slices(len(p))
	n := copy(p, first)
	n += copy(p[n:], second)
	return n
}

// Get removes up to len(p) bytes from the front into p.
func (rb *RingBuffer) Get(p []byte) int {
	n := rb.Peek(p)
	rb.lo = rb.advance(rb.lo, n)
	return n
}

// Skip discards up to n bytes from the front and returns how many were
// dropped.
func (rb *RingBuffer) Skip(n int) int {
	n = max(min(n, rb.Used()), 0)
	rb.lo = rb.advance(rb.lo, n)
	return n
}

// Compact moves the buffered bytes to offset zero, keeping their order.
// A wrapped ring gets a fresh region from its allocator; if that allocation
// fails the ring is left exactly as it was. An error from releasing the old
// region is returned after the ring has been compacted.
func (rb *RingBuffer) Compact() error {
	if rb.lo == 0 {
		return nil
	}
	used := rb.Used()
	if rb.lo <= rb.hi {
		copy(rb.data, rb.data[rb.lo:rb.hi])
		rb.lo, rb.hi = 0, used
		return nil
	}

	region, err := rb.alloc.Alloc(len(rb.data))
	if err != nil {
		return fmt.Errorf("compact ring: %w", err)
	}
	n := copy(region, rb.data[rb.lo:])
	copy(region[n:], rb.data[:rb.hi])

	old := rb.data
	rb.data = region
	rb.lo, rb.hi = 0, used
	if err := rb.alloc.Free(old); err != nil {
		return fmt.Errorf("compact ring: release old region: %w", err)
	}
	return nil
}

// Write implements io.Writer on top of Put. A truncated write returns
// io.ErrShortWrite.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	n := rb.Put(p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Read implements io.Reader on top of Get. An empty ring returns io.EOF.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if rb.IsEmpty() {
		return 0, io.EOF
	}
	return rb.Get(p), nil
}

func (rb *RingBuffer) String() string {
	return fmt.Sprintf("ring{size=%d lo=%d hi=%d used=%d}", len(rb.data), rb.lo, rb.hi, rb.Used())
}
