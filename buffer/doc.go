// Package buffer implements a fixed-capacity circular byte buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A RingBuffer stages bytes between a producer and a consumer without
// blocking: Put appends, Get and Skip consume, Peek previews, and Copy/Move
// transfer directly between two rings. Requests larger than the free space
// or the buffered data are truncated and the returned count reports what was
// actually transferred.
//
// One slot of the backing region is always kept free, so a ring of size n
// holds at most n-1 bytes and an empty ring is exactly read == write.
//
// RingBuffer is not safe for concurrent use; callers synchronize externally.
package buffer
