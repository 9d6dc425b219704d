// File: pool/metrics.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type poolMetrics struct {
	gets   prometheus.Counter
	puts   prometheus.Counter
	allocs prometheus.Counter
	frees  prometheus.Counter
	idle   prometheus.Gauge
	inUse  prometheus.Gauge
}

// newPoolMetrics builds the pool collectors, labelled by ring capacity so
// several pools can share one registry. Collectors already registered by an
// earlier pool of the same capacity are reused.
func newPoolMetrics(namespace string, capacity int, reg prometheus.Registerer) (*poolMetrics, error) {
	labels := prometheus.Labels{"capacity": strconv.Itoa(capacity)}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ring_pool", Name: name, Help: help, ConstLabels: labels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ring_pool", Name: name, Help: help, ConstLabels: labels,
		})
	}
	m := &poolMetrics{
		gets:   counter("gets_total", "Rings handed out."),
		puts:   counter("puts_total", "Rings returned."),
		allocs: counter("allocs_total", "Rings constructed."),
		frees:  counter("frees_total", "Ring regions released."),
		idle:   gauge("idle", "Rings waiting in the free list."),
		inUse:  gauge("in_use", "Rings handed out and not yet returned."),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.gets, err = register(reg, m.gets); err != nil {
		return nil, err
	}
	if m.puts, err = register(reg, m.puts); err != nil {
		return nil, err
	}
	if m.allocs, err = register(reg, m.allocs); err != nil {
		return nil, err
	}
	if m.frees, err = register(reg, m.frees); err != nil {
		return nil, err
	}
	if m.idle, err = register(reg, m.idle); err != nil {
		return nil, err
	}
	if m.inUse, err = register(reg, m.inUse); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
