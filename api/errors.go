// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by the buffer, memory and pool layers.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrAllocation       = fmt.Errorf("region allocation failed")
	ErrNotSupported     = fmt.Errorf("operation not supported")
	ErrPoolClosed       = fmt.Errorf("ring pool is closed")
	ErrCapacityMismatch = fmt.Errorf("ring capacity does not match pool")
	ErrReleased         = fmt.Errorf("ring buffer already released")
	ErrNotCheckedOut    = fmt.Errorf("ring buffer not checked out from this pool")
)
