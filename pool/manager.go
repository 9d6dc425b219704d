// File: pool/manager.go
// Author: momentics <momentics@gmail.com>
//
// Manager keeps one RingPool per ring capacity, so components asking for the
// same staging size share regions instead of fragmenting allocations.

package pool

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/momentics/hioload-buffer/api"
)

// Manager provides capacity-segmented ring pools built from a template
// Config; only Capacity and Prealloc vary per pool.
type Manager struct {
	mu       sync.RWMutex
	template Config
	pools    map[int]*RingPool
	closed   bool
}

// NewManager creates a manager whose pools inherit tmpl's allocator,
// logger, registerer, namespace and idle limit.
func NewManager(tmpl Config) *Manager {
	tmpl.Prealloc = 0
	return &Manager{
		template: tmpl,
		pools:    make(map[int]*RingPool),
	}
}

// Pool obtains or creates the pool for capacity.
func (m *Manager) Pool(capacity int) (*RingPool, error) {
	m.mu.RLock()
	p, ok := m.pools[capacity]
	closed := m.closed
	m.mu.RUnlock()
	if ok {
		return p, nil
	}
	if closed {
		return nil, api.ErrPoolClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, api.ErrPoolClosed
	}
	if p, ok := m.pools[capacity]; ok {
		return p, nil
	}
	cfg := m.template
	cfg.Capacity = capacity
	p, err := NewRingPool(cfg)
	if err != nil {
		return nil, err
	}
	m.pools[capacity] = p
	return p, nil
}

// Stats returns per-pool stats ordered by capacity.
func (m *Manager) Stats() []api.RingPoolStats {
	m.mu.RLock()
	caps := make([]int, 0, len(m.pools))
	for c := range m.pools {
		caps = append(caps, c)
	}
	m.mu.RUnlock()
	sort.Ints(caps)

	out := make([]api.RingPoolStats, 0, len(caps))
	for _, c := range caps {
		m.mu.RLock()
		p := m.pools[c]
		m.mu.RUnlock()
		out = append(out, p.Stats())
	}
	return out
}

// Close closes every pool and refuses new ones.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	var result *multierror.Error
	for _, p := range m.pools {
		if err := p.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
