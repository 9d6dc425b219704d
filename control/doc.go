// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, hot-reload and debug introspection for the buffer stack.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML configuration with defaults and validation
//   - A config store with snapshot reads and reload listeners
//   - Debug probe registration and state export
package control
