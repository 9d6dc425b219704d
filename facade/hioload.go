// File: facade/hioload.go
// Unified facade layer for hioload-buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffers aggregates the configured logger, region allocator, ring pools,
// config store and debug probes behind one object with a single shutdown
// path. Log verbosity follows config reloads.

package facade

import (
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/buffer"
	"github.com/momentics/hioload-buffer/control"
	"github.com/momentics/hioload-buffer/logging"
	"github.com/momentics/hioload-buffer/memory"
	"github.com/momentics/hioload-buffer/pool"
)

// Probes registered by New and dropped again by Shutdown.
const (
	probePoolDefault  = "pool.default"
	probePoolSegments = "pool.segments"
	probeLogName      = "log.name"
	probeLogVerbosity = "log.verbosity"
)

// Buffers is the main facade type.
type Buffers struct {
	store   *control.Store
	debug   *control.DebugProbes
	logger  *logging.Logger
	alloc   api.Allocator
	manager *pool.Manager
	pool    *pool.RingPool

	mu     sync.Mutex
	closed bool
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Buffers)(nil)

// New builds the stack described by cfg. reg may be nil to skip metrics
// registration.
func New(cfg control.Config, reg prometheus.Registerer) (*Buffers, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	verbosity, _ := cfg.Log.Verbosity()
	logger, err := logging.New(cfg.Log.Flags(), verbosity, cfg.Log.Path)
	if err != nil {
		return nil, fmt.Errorf("facade: logger: %w", err)
	}
	alloc, err := memory.ByName(cfg.Buffer.Allocator, cfg.Buffer.LockMemory)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("facade: allocator: %w", err)
	}

	b := &Buffers{
		store:  control.NewStore(cfg),
		debug:  control.NewDebugProbes(),
		logger: logger,
		alloc:  alloc,
		manager: pool.NewManager(pool.Config{
			MaxIdle:    cfg.Pool.MaxIdle,
			Allocator:  alloc,
			Logger:     logger,
			Registerer: reg,
		}),
	}

	// The default pool honours prealloc; the manager template does not.
	b.pool, err = pool.NewRingPool(pool.Config{
		Capacity:   cfg.Buffer.Capacity,
		MaxIdle:    cfg.Pool.MaxIdle,
		Prealloc:   cfg.Pool.Prealloc,
		Allocator:  alloc,
		Logger:     logger,
		Registerer: reg,
	})
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("facade: ring pool: %w", err)
	}

	control.RegisterPlatformProbes(b.debug)
	b.debug.RegisterProbe(probePoolDefault, func() any { return b.pool.Stats() })
	b.debug.RegisterProbe(probePoolSegments, func() any { return b.manager.Stats() })
	b.debug.RegisterProbe(probeLogName, func() any { return b.logger.Name() })
	b.debug.RegisterProbe(probeLogVerbosity, func() any { return b.logger.Verbosity().String() })

	b.store.OnReload(b.applyReload)

	logger.Infof("buffers ready: allocator %s, ring capacity %d", cfg.Buffer.Allocator, cfg.Buffer.Capacity)
	return b, nil
}

// applyReload propagates the settings that can change at runtime.
// Ring capacity and allocator are fixed for the lifetime of the facade.
func (b *Buffers) applyReload(old, cur control.Config) {
	if v, err := cur.Log.Verbosity(); err == nil && old.Log.Level != cur.Log.Level {
		b.logger.SetVerbosity(v)
		b.logger.Infof("log verbosity now %s", v)
	}
	if old.Buffer != cur.Buffer {
		b.logger.Warningf("buffer settings changed on reload; restart required to apply them")
	}
	if old.Pool != cur.Pool {
		b.logger.Warningf("pool settings changed on reload; restart required to apply them")
	}
	oldSinks, curSinks := old.Log, cur.Log
	oldSinks.Level, curSinks.Level = "", ""
	if oldSinks != curSinks {
		b.logger.Warningf("log sink settings changed on reload; restart required to apply them")
	}
}

// Pool returns the ring pool sized by buffer.capacity.
func (b *Buffers) Pool() *pool.RingPool { return b.pool }

// PoolFor returns the shared pool for another ring capacity.
func (b *Buffers) PoolFor(capacity int) (*pool.RingPool, error) {
	if capacity == b.pool.Capacity() {
		return b.pool, nil
	}
	return b.manager.Pool(capacity)
}

// NewBuffer allocates an owned, unpooled ring with the configured allocator.
func (b *Buffers) NewBuffer(size int) (*buffer.RingBuffer, error) {
	return buffer.New(size, buffer.WithAllocator(b.alloc))
}

func (b *Buffers) Logger() *logging.Logger     { return b.logger }
func (b *Buffers) Store() *control.Store       { return b.store }
func (b *Buffers) Debug() *control.DebugProbes { return b.debug }

// WriteDebug writes the current probe values to w in name order.
func (b *Buffers) WriteDebug(w io.Writer) error { return b.debug.WriteReport(w) }

// Shutdown closes every pool and the logger. Probes for the closed pools and
// logger are unregistered; platform probes stay. It is idempotent.
func (b *Buffers) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, name := range []string{probePoolDefault, probePoolSegments, probeLogName, probeLogVerbosity} {
		b.debug.UnregisterProbe(name)
	}

	var result *multierror.Error
	if err := b.pool.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := b.manager.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	b.logger.Infof("buffers shut down")
	if err := b.logger.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
