// Package api
// Author: momentics@gmail.com
//
// Byte ring contract for single-owner producer/consumer staging.

package api

import "io"

// ByteRing is a fixed-capacity circular byte queue.
//
// Every transfer is partial by contract: a request larger than the free space
// (or the buffered data) is truncated and the returned count is the only
// signal of it.
type ByteRing interface {
	io.ReadWriter

	// Put appends up to len(p) bytes and returns how many were stored.
	Put(p []byte) int
	// Get removes up to len(p) bytes from the front into p.
	Get(p []byte) int
	// Peek copies up to len(p) bytes from the front without consuming them.
	Peek(p []byte) int
	// Skip discards up to n bytes from the front.
	Skip(n int) int
	// Flush drops all buffered data.
	Flush()
	// Compact moves buffered data to offset zero.
	Compact() error

	// Used returns the number of buffered bytes.
	Used() int
	// Available returns the number of bytes that can still be put.
	Available() int
	// Size returns the backing region length.
	Size() int
}
