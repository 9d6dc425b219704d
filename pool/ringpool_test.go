package pool_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/buffer"
	"github.com/momentics/hioload-buffer/logging"
	"github.com/momentics/hioload-buffer/memory"
	"github.com/momentics/hioload-buffer/pool"
)

func quietLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.NoEcho, logging.None, "")
	require.NoError(t, err)
	return l
}

func newPool(t *testing.T, cfg pool.Config) *pool.RingPool {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger(t)
	}
	p, err := pool.NewRingPool(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

type failingAllocator struct{}

func (failingAllocator) Alloc(int) ([]byte, error) { return nil, api.ErrAllocation }
func (failingAllocator) Free([]byte) error         { return nil }

func TestNewRingPoolValidates(t *testing.T) {
	for _, cfg := range []pool.Config{
		{Capacity: 1},
		{Capacity: 64, MaxIdle: -1},
		{Capacity: 64, MaxIdle: 2, Prealloc: 3},
	} {
		cfg.Logger = quietLogger(t)
		_, err := pool.NewRingPool(cfg)
		assert.ErrorIs(t, err, api.ErrInvalidArgument)
	}
}

func TestRingPoolReuse(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 64, MaxIdle: 4})

	rb, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 64, rb.Size())
	rb.Put([]byte("stale payload"))
	rb.Skip(3)
	require.NoError(t, p.Put(rb))

	again, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, rb, again)
	assert.True(t, again.IsEmpty())
	assert.Zero(t, again.ReadCursor())

	s := p.Stats()
	assert.Equal(t, int64(1), s.TotalAlloc)
	assert.Equal(t, int64(2), s.Gets)
	assert.Equal(t, int64(1), s.Puts)
	assert.Equal(t, int64(1), s.InUse)
	assert.Zero(t, s.Idle)
}

func TestRingPoolFIFOReuse(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 4, Prealloc: 2})
	assert.Equal(t, 2, p.Stats().Idle)

	a, _ := p.Get()
	b, _ := p.Get()
	require.NoError(t, p.Put(b))
	require.NoError(t, p.Put(a))

	first, _ := p.Get()
	assert.Same(t, b, first)
}

func TestRingPoolMaxIdleFrees(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 1})
	a, _ := p.Get()
	b, _ := p.Get()
	require.NoError(t, p.Put(a))
	require.NoError(t, p.Put(b))

	assert.True(t, b.Released())
	assert.False(t, a.Released())
	s := p.Stats()
	assert.Equal(t, 1, s.Idle)
	assert.Equal(t, int64(1), s.TotalFree)
}

func TestRingPoolForeignRing(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 4})
	foreign, err := buffer.New(32)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Put(foreign), api.ErrCapacityMismatch)
	assert.True(t, foreign.Released())
	assert.ErrorIs(t, p.Put(foreign), api.ErrReleased)
	assert.NoError(t, p.Put(nil))
}

func TestRingPoolRejectsDoubleReturn(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 4})
	rb, err := p.Get()
	require.NoError(t, err)
	require.NoError(t, p.Put(rb))
	assert.ErrorIs(t, p.Put(rb), api.ErrNotCheckedOut)

	first, err := p.Get()
	require.NoError(t, err)
	second, err := p.Get()
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	s := p.Stats()
	assert.Equal(t, int64(2), s.InUse)
	assert.Equal(t, int64(1), s.Puts)
	assert.Zero(t, s.Idle)
}

func TestRingPoolRejectsUnissuedRing(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 4})
	stray, err := buffer.New(16)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Put(stray), api.ErrNotCheckedOut)
	assert.False(t, stray.Released())
	assert.Zero(t, p.Stats().Idle)
	assert.Zero(t, p.Stats().Puts)
	require.NoError(t, stray.Free())
}

func TestRingPoolClose(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 4, Prealloc: 3})
	held, err := p.Get()
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Zero(t, p.Stats().Idle)
	assert.Equal(t, int64(2), p.Stats().TotalFree)

	_, err = p.Get()
	assert.ErrorIs(t, err, api.ErrPoolClosed)

	require.NoError(t, p.Put(held))
	assert.True(t, held.Released())
}

func TestRingPoolAllocationFailure(t *testing.T) {
	_, err := pool.NewRingPool(pool.Config{
		Capacity: 16, MaxIdle: 2, Prealloc: 1,
		Allocator: failingAllocator{}, Logger: quietLogger(t),
	})
	assert.ErrorIs(t, err, api.ErrAllocation)

	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 2, Allocator: failingAllocator{}})
	_, err = p.Get()
	assert.ErrorIs(t, err, api.ErrAllocation)
	assert.Zero(t, p.Stats().InUse)
}

func TestRingPoolMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := newPool(t, pool.Config{Capacity: 16, MaxIdle: 2, Prealloc: 1, Registerer: reg})

	a, _ := p.Get()
	b, _ := p.Get()
	require.NoError(t, p.Put(a))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// a second pool of the same capacity shares the collectors
	shared := newPool(t, pool.Config{Capacity: 16, MaxIdle: 2, Registerer: reg})
	c, _ := shared.Get()
	require.NoError(t, shared.Put(c))
	require.NoError(t, p.Put(b))

	newPool(t, pool.Config{Capacity: 32, MaxIdle: 2, Registerer: reg})
	n, err = testutil.GatherAndCount(reg, "hioload_ring_pool_gets_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRingPoolConcurrent(t *testing.T) {
	p := newPool(t, pool.Config{Capacity: 32, MaxIdle: 8})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				rb, err := p.Get()
				if err != nil {
					errs <- err
					return
				}
				if !rb.IsEmpty() {
					errs <- errors.New("pooled ring not flushed")
					return
				}
				rb.Put([]byte("frame"))
				if err := p.Put(rb); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	s := p.Stats()
	assert.Zero(t, s.InUse)
	assert.Equal(t, int64(1600), s.Gets)
	assert.LessOrEqual(t, s.Idle, 8)
}

func TestRingPoolMmap(t *testing.T) {
	if !memory.MmapSupported() {
		t.Skip("mmap allocator not available on this platform")
	}
	p := newPool(t, pool.Config{Capacity: 4096, MaxIdle: 1, Allocator: memory.Mmap{}})
	rb, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 4095, rb.Put(make([]byte, 5000)))
	require.NoError(t, p.Put(rb))
	require.NoError(t, p.Close())
	assert.True(t, rb.Released())
}
