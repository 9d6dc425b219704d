// File: logging/std.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide logger mirroring the daemon's C-style entry points.

package logging

import "sync/atomic"

var std atomic.Pointer[Logger]

func init() {
	l, _ := New(Stderr, Default, "")
	std.Store(l)
}

// Standard returns the process-wide logger.
func Standard() *Logger { return std.Load() }

// Init replaces the process-wide logger and closes the previous one.
func Init(flags Flags, v Verbosity, path string, opts ...Option) error {
	l, err := New(flags, v, path, opts...)
	if err != nil {
		return err
	}
	if old := std.Swap(l); old != nil {
		_ = old.Close()
	}
	return nil
}

// Rotate rotates the process-wide log file.
func Rotate() error { return Standard().Rotate() }

// Name returns the process-wide log file name.
func Name() string { return Standard().Name() }

func Log(level Verbosity, format string, args ...any) { Standard().Log(level, format, args...) }

func Fatalf(format string, args ...any)    { Standard().Log(Fatal, format, args...) }
func Criticalf(format string, args ...any) { Standard().Log(Critical, format, args...) }
func Errorf(format string, args ...any)    { Standard().Log(Error, format, args...) }
func Warningf(format string, args ...any)  { Standard().Log(Warning, format, args...) }
func Infof(format string, args ...any)     { Standard().Log(Info, format, args...) }
func Debugf(format string, args ...any)    { Standard().Log(Debug, format, args...) }
func Tracef(format string, args ...any)    { Standard().Log(Trace, format, args...) }
