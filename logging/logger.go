// File: logging/logger.go
// Author: momentics <momentics@gmail.com>

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Flags select where and how records are written.
type Flags uint

const (
	Echo   Flags = 1 << iota // also log to a std stream
	Stderr                   // the std stream is stderr (stdout otherwise)
	Sync                     // sync the log file after each write
	UTC                      // timestamps in UTC
	File                     // log to the file at path
	NoEcho                   // never write to a std stream
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Logger writes leveled, printf-style records through a zap core.
// It is safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	flags  Flags
	path   string
	level  zap.AtomicLevel
	file   *fileSink
	core   zapcore.Core
	now    func() time.Time
	stdout io.Writer
	stderr io.Writer
	closed bool
}

// Option customizes a Logger beyond its flags.
type Option func(*Logger)

// WithStdout replaces os.Stdout as the echo stream.
func WithStdout(w io.Writer) Option { return func(l *Logger) { l.stdout = w } }

// WithStderr replaces os.Stderr as the echo stream.
func WithStderr(w io.Writer) Option { return func(l *Logger) { l.stderr = w } }

// WithClock sets the time source for record timestamps and rotation names.
func WithClock(now func() time.Time) Option { return func(l *Logger) { l.now = now } }

// New builds a logger. With File set and a non-empty path, records go to
// that file (created or appended). Records are echoed to a std stream when
// Echo is set, or when there is no file and NoEcho is unset.
func New(flags Flags, v Verbosity, path string, opts ...Option) (*Logger, error) {
	l := &Logger{
		flags:  flags,
		level:  zap.NewAtomicLevelAt(v.zapLevel()),
		now:    time.Now,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}

	var sinks []zapcore.WriteSyncer
	if flags&File != 0 && path != "" {
		l.path = path
		l.file = &fileSink{sync: flags&Sync != 0}
		if err := l.file.open(path); err != nil {
			return nil, err
		}
		sinks = append(sinks, l.file)
	}
	if flags&NoEcho == 0 && (flags&Echo != 0 || l.file == nil) {
		w := l.stdout
		if flags&Stderr != 0 {
			w = l.stderr
		}
		sinks = append(sinks, zapcore.Lock(zapcore.AddSync(w)))
	}

	if len(sinks) == 0 {
		l.core = zapcore.NewNopCore()
	} else {
		l.core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(l.encoderConfig()),
			zapcore.NewMultiWriteSyncer(sinks...),
			l.level,
		)
	}
	return l, nil
}

func (l *Logger) encoderConfig() zapcore.EncoderConfig {
	utc := l.flags&UTC != 0
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      encodeLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			if utc {
				t = t.UTC()
			} else {
				t = t.Local()
			}
			enc.AppendString(t.Format(timeLayout))
		},
	}
}

// Verbosity returns the current threshold.
func (l *Logger) Verbosity() Verbosity {
	lvl := l.level.Level()
	if lvl > zapcore.FatalLevel {
		return None
	}
	return fromZapLevel(lvl)
}

// SetVerbosity changes the threshold; it takes effect immediately.
func (l *Logger) SetVerbosity(v Verbosity) {
	l.level.SetLevel(v.zapLevel())
}

// Enabled reports whether a record at level would be written.
func (l *Logger) Enabled(level Verbosity) bool {
	return level != None && l.level.Enabled(level.zapLevel())
}

// Log writes a record at level. Fatal records do not terminate the process.
func (l *Logger) Log(level Verbosity, format string, args ...any) {
	if l == nil || !l.Enabled(level) {
		return
	}
	ent := zapcore.Entry{
		Level:   level.zapLevel(),
		Time:    l.now(),
		Message: fmt.Sprintf(format, args...),
	}
	if ce := l.core.Check(ent, nil); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Fatalf(format string, args ...any)    { l.Log(Fatal, format, args...) }
func (l *Logger) Criticalf(format string, args ...any) { l.Log(Critical, format, args...) }
func (l *Logger) Errorf(format string, args ...any)    { l.Log(Error, format, args...) }
func (l *Logger) Warningf(format string, args ...any)  { l.Log(Warning, format, args...) }
func (l *Logger) Infof(format string, args ...any)     { l.Log(Info, format, args...) }
func (l *Logger) Debugf(format string, args ...any)    { l.Log(Debug, format, args...) }
func (l *Logger) Tracef(format string, args ...any)    { l.Log(Trace, format, args...) }

// Zap exposes the underlying core as a structured zap logger sharing this
// logger's sinks and threshold.
func (l *Logger) Zap() *zap.Logger {
	return zap.New(l.core)
}

// Name returns the current log file name, or "" when not logging to a file.
func (l *Logger) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.closed {
		return ""
	}
	return l.path
}

// Rotate closes the current log file, renames it to <path>.<timestamp> and
// starts a new one at path. It is a no-op without a file sink.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.closed {
		return nil
	}
	stamp := l.now()
	if l.flags&UTC != 0 {
		stamp = stamp.UTC()
	}
	return l.file.rotate(l.path, l.path+"."+stamp.Format("20060102T150405.000000000"))
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.core.Sync()
}

// Close syncs and closes the log file. Later records only reach the std
// stream, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.file == nil {
		return nil
	}
	return l.file.close()
}

// fileSink is a WriteSyncer over a file that can be swapped by Rotate.
type fileSink struct {
	mu   sync.Mutex
	f    *os.File
	sync bool
}

func (s *fileSink) open(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", path, err)
	}
	s.mu.Lock()
	s.f = f
	s.mu.Unlock()
	return nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return len(p), nil
	}
	n, err := s.f.Write(p)
	if err == nil && s.sync {
		err = s.f.Sync()
	}
	return n, err
}

func (s *fileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	return s.f.Sync()
}

func (s *fileSink) rotate(path, archived string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f != nil {
		_ = s.f.Sync()
		if err := s.f.Close(); err != nil {
			return fmt.Errorf("close log %s: %w", path, err)
		}
		s.f = nil
		if err := os.Rename(path, archived); err != nil {
			return fmt.Errorf("rotate log %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", path, err)
	}
	s.f = f
	return nil
}

func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	_ = s.f.Sync()
	err := s.f.Close()
	s.f = nil
	return err
}
