package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-buffer/buffer"
)

func TestMoveBoundedByDestination(t *testing.T) {
	src := newRing(t, 8)
	dst := newRing(t, 4)
	require.Equal(t, 6, src.Put([]byte("abcdef")))

	n := buffer.Move(dst, src, 6)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, src.Used())
	assert.Equal(t, "abc", contents(dst))
	assert.Equal(t, "def", contents(src))
	assert.True(t, dst.IsFull())
}

func TestCopyLeavesSource(t *testing.T) {
	src := newRing(t, 8)
	dst := newRing(t, 16)
	src.Put([]byte("abcdef"))

	lo, hi := src.ReadCursor(), src.WriteCursor()
	assert.Equal(t, 6, buffer.Copy(dst, src, 100))
	assert.Equal(t, 6, src.Used())
	assert.Equal(t, lo, src.ReadCursor())
	assert.Equal(t, hi, src.WriteCursor())
	assert.Equal(t, "abcdef", contents(dst))
}

func TestTransferBoundedBySource(t *testing.T) {
	src := newRing(t, 8)
	dst := newRing(t, 16)
	src.Put([]byte("xy"))
	assert.Equal(t, 2, buffer.Move(dst, src, 10))
	assert.True(t, src.IsEmpty())
	assert.Zero(t, buffer.Move(dst, src, 10))
	assert.Zero(t, buffer.Copy(dst, src, -1))
}

func TestTransferBothWrapped(t *testing.T) {
	src := newRing(t, 8)
	src.Put([]byte("abcdef"))
	src.Skip(5)
	src.Put([]byte("ghijk"))
	require.True(t, src.IsWrapped())

	dst := newRing(t, 8)
	dst.Put([]byte("123456"))
	dst.Skip(6)
	dst.Put([]byte("7"))

	n := buffer.Move(dst, src, 10)
	assert.Equal(t, 6, n)
	assert.True(t, dst.IsWrapped())
	assert.Equal(t, "7fghijk", contents(dst))
	assert.True(t, src.IsEmpty())
}

func TestCopyForBroadcast(t *testing.T) {
	src := newRing(t, 32)
	outs := []*buffer.RingBuffer{newRing(t, 8), newRing(t, 16), newRing(t, 32)}
	src.Put([]byte("broadcast frame"))

	for _, out := range outs {
		buffer.Copy(out, src, src.Used())
	}
	assert.Equal(t, "broadca", contents(outs[0]))
	assert.Equal(t, "broadcast frame", contents(outs[1]))
	assert.Equal(t, "broadcast frame", contents(outs[2]))
	assert.Equal(t, 15, src.Used())
}

func TestMoveIntoSelfRotates(t *testing.T) {
	rb := newRing(t, 8)
	rb.Put([]byte("abcd"))

	assert.Equal(t, 2, buffer.Move(rb, rb, 2))
	assert.Equal(t, "cdab", contents(rb))
	assert.Equal(t, 3, buffer.Copy(rb, rb, 3))
	assert.Equal(t, "cdabcda", contents(rb))
}

func TestTransferZeroCapacity(t *testing.T) {
	empty := newRing(t, 0)
	src := newRing(t, 8)
	src.Put([]byte("abc"))
	assert.Zero(t, buffer.Move(empty, src, 3))
	assert.Zero(t, buffer.Copy(src, empty, 3))
	assert.Equal(t, 3, src.Used())
}
