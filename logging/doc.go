// Package logging provides the leveled logger shared by the hosting daemon.
// Author: momentics <momentics@gmail.com>
//
// It is a small log4j-style interface without hierarchical loggers:
// a verbosity threshold, a handful of output flags (echo, stderr, sync, UTC,
// file) and explicit rotation. Records are encoded and written by zap.
//
// The buffer package never logs; pools and the facade do.
package logging
