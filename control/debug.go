// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry for runtime inspection of pools and platform state.

package control

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts or replaces a named probe.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// UnregisterProbe removes a probe; unknown names are ignored.
func (dp *DebugProbes) UnregisterProbe(name string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	delete(dp.probes, name)
}

// Names returns the registered probe names, sorted.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DumpState evaluates every probe.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// WriteReport evaluates every probe and writes one "name: value" line per
// probe to w, in name order. Probes run without the registry lock held, so
// they may take locks of their own.
func (dp *DebugProbes) WriteReport(w io.Writer) error {
	names := dp.Names()
	dp.mu.RLock()
	fns := make([]func() any, len(names))
	for i, name := range names {
		fns[i] = dp.probes[name]
	}
	dp.mu.RUnlock()

	for i, name := range names {
		if fns[i] == nil {
			continue // unregistered in between
		}
		if _, err := fmt.Fprintf(w, "%s: %+v\n", name, fns[i]()); err != nil {
			return fmt.Errorf("debug report %s: %w", name, err)
		}
	}
	return nil
}
