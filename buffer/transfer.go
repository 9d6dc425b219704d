// File: buffer/transfer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

// Copy duplicates up to n bytes from the front of src onto the back of dst
// and returns the count. src is left untouched.
func Copy(dst, src *RingBuffer, n int) int {
	return transfer(dst, src, n, false)
}

// Move transfers up to n bytes from the front of src onto the back of dst
// and consumes them from src.
func Move(dst, src *RingBuffer, n int) int {
	return transfer(dst, src, n, true)
}

// transfer feeds src's one or two live segments straight into dst.Put.
// The bound is min(n, dst.Available(), src.Used()), so both Puts always
// complete in full. dst and src may be the same ring: Put only writes into
// free space, which never overlaps the segments being read.
func transfer(dst, src *RingBuffer, n int, move bool) int {
	n = min(n, dst.Available(), src.Used())
	if n <= 0 {
		return 0
	}
	first, second := src.Slices(n)
	dst.Put(first)
	dst.Put(second)
	if move {
		src.lo = src.advance(src.lo, n)
	}
	return n
}
