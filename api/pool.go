// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pool accounting shared with the control plane.

package api

// RingPoolStats aggregates ring allocation/reuse stats.
type RingPoolStats struct {
	Capacity   int   // backing region size of every pooled ring
	Idle       int   // rings waiting in the free list
	InUse      int64 // rings handed out and not yet returned
	TotalAlloc int64 // rings constructed
	TotalFree  int64 // rings whose region was released
	Gets       int64
	Puts       int64
}
