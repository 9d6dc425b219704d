// File: logging/level.go
// Author: momentics <momentics@gmail.com>

package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Verbosity is a logging threshold and a record severity.
// Higher values are chattier; None disables output.
type Verbosity int

const (
	None Verbosity = iota
	Fatal
	Critical
	Error
	Warning
	Info
	Debug
	Trace

	Default = Error
)

var verbosityNames = [...]string{
	None:     "NONE",
	Fatal:    "FATAL",
	Critical: "CRITICAL",
	Error:    "ERROR",
	Warning:  "WARNING",
	Info:     "INFO",
	Debug:    "DEBUG",
	Trace:    "TRACE",
}

func (v Verbosity) String() string {
	if v < None || v > Trace {
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
	return verbosityNames[v]
}

// ParseVerbosity accepts level names case-insensitively, plus "warn" and
// "default".
func ParseVerbosity(s string) (Verbosity, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "WARN":
		return Warning, nil
	case "DEFAULT", "":
		return Default, nil
	}
	for v, n := range verbosityNames {
		if n == name {
			return Verbosity(v), nil
		}
	}
	return None, fmt.Errorf("unknown log level %q", s)
}

// zap has no trace level; it sits just below debug.
const zapTraceLevel = zapcore.DebugLevel - 1

// zapLevel maps a record severity to the zap level it is written at.
// Critical and fatal use zap's dpanic/fatal slots but are written straight
// to the core, so neither panics nor exits.
func (v Verbosity) zapLevel() zapcore.Level {
	switch v {
	case Fatal:
		return zapcore.FatalLevel
	case Critical:
		return zapcore.DPanicLevel
	case Error:
		return zapcore.ErrorLevel
	case Warning:
		return zapcore.WarnLevel
	case Info:
		return zapcore.InfoLevel
	case Debug:
		return zapcore.DebugLevel
	case Trace:
		return zapTraceLevel
	default:
		return zapcore.FatalLevel + 1
	}
}

func fromZapLevel(l zapcore.Level) Verbosity {
	switch {
	case l >= zapcore.FatalLevel:
		return Fatal
	case l >= zapcore.DPanicLevel:
		return Critical
	case l == zapcore.ErrorLevel:
		return Error
	case l == zapcore.WarnLevel:
		return Warning
	case l == zapcore.InfoLevel:
		return Info
	case l == zapcore.DebugLevel:
		return Debug
	default:
		return Trace
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fromZapLevel(l).String())
}
