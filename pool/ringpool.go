// File: pool/ringpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingPool recycles fixed-capacity ring buffers used as per-connection
// read/write staging queues. Idle rings wait in a FIFO free list so reuse is
// spread evenly across regions.

package pool

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/eapache/queue"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/buffer"
	"github.com/momentics/hioload-buffer/logging"
	"github.com/momentics/hioload-buffer/memory"
)

// Config parameterizes a RingPool.
type Config struct {
	Capacity   int                   // backing region size of every ring
	MaxIdle    int                   // idle rings retained; extra returns are freed
	Prealloc   int                   // rings allocated by NewRingPool
	Allocator  api.Allocator         // nil selects memory.Heap
	Logger     *logging.Logger       // nil selects logging.Standard()
	Registerer prometheus.Registerer // nil leaves metrics unregistered
	Namespace  string                // metric namespace, "hioload" if empty
}

// RingPool hands out rings of one capacity. Get and Put are safe for
// concurrent use; each ring handed out has a single owner until returned.
type RingPool struct {
	mu      sync.Mutex
	cfg     Config
	idle    *queue.Queue
	out     map[*buffer.RingBuffer]struct{} // rings handed out and not yet returned
	log     *logging.Logger
	metrics *poolMetrics
	stats   api.RingPoolStats
	closed  bool
}

// NewRingPool validates cfg, registers metrics and preallocates rings.
func NewRingPool(cfg Config) (*RingPool, error) {
	if cfg.Capacity < 2 {
		return nil, fmt.Errorf("ring pool capacity %d: %w", cfg.Capacity, api.ErrInvalidArgument)
	}
	if cfg.MaxIdle < 0 || cfg.Prealloc < 0 || cfg.Prealloc > cfg.MaxIdle {
		return nil, fmt.Errorf("ring pool max idle %d, prealloc %d: %w", cfg.MaxIdle, cfg.Prealloc, api.ErrInvalidArgument)
	}
	if cfg.Allocator == nil {
		cfg.Allocator = memory.Heap{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Standard()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "hioload"
	}
	m, err := newPoolMetrics(cfg.Namespace, cfg.Capacity, cfg.Registerer)
	if err != nil {
		return nil, err
	}

	p := &RingPool{
		cfg:     cfg,
		idle:    queue.New(),
		out:     make(map[*buffer.RingBuffer]struct{}),
		log:     cfg.Logger,
		metrics: m,
		stats:   api.RingPoolStats{Capacity: cfg.Capacity},
	}
	for i := 0; i < cfg.Prealloc; i++ {
		rb, err := p.newRing()
		if err != nil {
			return nil, multierror.Append(err, p.Close()).ErrorOrNil()
		}
		p.idle.Add(rb)
	}
	p.metrics.idle.Set(float64(p.idle.Length()))
	p.log.Infof("ring pool ready: ring size %s, max idle %d, prealloc %d",
		humanize.IBytes(uint64(cfg.Capacity)), cfg.MaxIdle, cfg.Prealloc)
	return p, nil
}

// newRing allocates a ring; callers hold p.mu or own p exclusively.
func (p *RingPool) newRing() (*buffer.RingBuffer, error) {
	rb, err := buffer.New(p.cfg.Capacity, buffer.WithAllocator(p.cfg.Allocator))
	if err != nil {
		p.log.Errorf("ring pool: allocate %s ring: %v", humanize.IBytes(uint64(p.cfg.Capacity)), err)
		return nil, err
	}
	p.stats.TotalAlloc++
	p.metrics.allocs.Inc()
	return rb, nil
}

func (p *RingPool) freeRing(rb *buffer.RingBuffer) error {
	p.stats.TotalFree++
	p.metrics.frees.Inc()
	return rb.Free()
}

// Get returns an empty ring, reusing an idle one when available.
func (p *RingPool) Get() (*buffer.RingBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, api.ErrPoolClosed
	}

	var rb *buffer.RingBuffer
	if p.idle.Length() > 0 {
		rb = p.idle.Remove().(*buffer.RingBuffer)
		p.metrics.idle.Set(float64(p.idle.Length()))
	} else {
		var err error
		if rb, err = p.newRing(); err != nil {
			return nil, err
		}
	}
	p.out[rb] = struct{}{}
	p.stats.Gets++
	p.stats.InUse++
	p.metrics.gets.Inc()
	p.metrics.inUse.Set(float64(p.stats.InUse))
	p.log.Tracef("ring pool: get %s", rb)
	return rb, nil
}

// Put returns rb to the pool. The ring is flushed and queued, or freed when
// the idle list is full or the pool is closed. A ring of another capacity is
// freed and reported with ErrCapacityMismatch. A ring this pool did not hand
// out, or one already returned, is left untouched and reported with
// ErrNotCheckedOut. nil is ignored.
func (p *RingPool) Put(rb *buffer.RingBuffer) error {
	if rb == nil {
		return nil
	}
	if rb.Released() {
		return api.ErrReleased
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if rb.Size() != p.cfg.Capacity {
		p.log.Warningf("ring pool: foreign ring of %d bytes returned to %d byte pool", rb.Size(), p.cfg.Capacity)
		return multierror.Append(api.ErrCapacityMismatch, p.freeRing(rb)).ErrorOrNil()
	}
	if _, ok := p.out[rb]; !ok {
		p.log.Warningf("ring pool: %s was not checked out", rb)
		return api.ErrNotCheckedOut
	}
	delete(p.out, rb)

	p.stats.Puts++
	p.stats.InUse--
	p.metrics.puts.Inc()
	p.metrics.inUse.Set(float64(p.stats.InUse))

	if p.closed || p.idle.Length() >= p.cfg.MaxIdle {
		return p.freeRing(rb)
	}
	rb.Flush()
	p.idle.Add(rb)
	p.metrics.idle.Set(float64(p.idle.Length()))
	return nil
}

// Stats returns a snapshot of pool accounting.
func (p *RingPool) Stats() api.RingPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Idle = p.idle.Length()
	return s
}

// Capacity returns the ring size served by the pool.
func (p *RingPool) Capacity() int { return p.cfg.Capacity }

// Close frees every idle ring. Rings still in use are freed as they come
// back through Put. Close is idempotent.
func (p *RingPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var result *multierror.Error
	n := p.idle.Length()
	for p.idle.Length() > 0 {
		if err := p.freeRing(p.idle.Remove().(*buffer.RingBuffer)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	p.metrics.idle.Set(0)
	p.log.Infof("ring pool closed: freed %d idle rings, %d still in use", n, p.stats.InUse)
	return result.ErrorOrNil()
}
