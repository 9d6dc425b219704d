// Package pool
// Author: momentics <momentics@gmail.com>
//
// Ring buffer pooling for connection staging.
// RingPool recycles rings of one capacity over a FIFO free list and exports
// Prometheus counters; Manager segments pools by capacity.
// See ringpool.go, manager.go and metrics.go for implementation details.
package pool
