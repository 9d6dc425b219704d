// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown releases every resource a component holds.
type GracefulShutdown interface {
	// Shutdown stops the component and frees its resources. It returns the
	// aggregated release errors, if any.
	Shutdown() error
}
