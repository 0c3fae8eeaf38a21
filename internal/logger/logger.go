// Package logger provides a small leveled logger shared by the naming
// server and the storage server.
//
// Both server roles run as separate processes but log in the same format,
// so a Named logger is used to tell them apart in combined output (e.g. when
// running naming and storage servers under the same supervisor during
// tests).
package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel = LevelInfo
	sink         = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the process-wide minimum level. Invalid values are ignored.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// Logger prefixes every line with a component name, e.g. "naming" or
// "storage[host-a]".
type Logger struct {
	component string
}

// Named returns a Logger that prefixes every line with component.
func Named(component string) *Logger {
	return &Logger{component: component}
}

func (lg *Logger) log(level Level, format string, v ...any) {
	if level < currentLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, v...)
	sink.Printf("[%s] [%s] [%s] %s", timestamp, level.String(), lg.component, message)
}

func (lg *Logger) Debug(format string, v ...any) { lg.log(LevelDebug, format, v...) }
func (lg *Logger) Info(format string, v ...any)  { lg.log(LevelInfo, format, v...) }
func (lg *Logger) Warn(format string, v ...any)  { lg.log(LevelWarn, format, v...) }
func (lg *Logger) Error(format string, v ...any) { lg.log(LevelError, format, v...) }

// Package-level default logger, used where no component distinction is
// needed (e.g. in tests).
var def = Named("nsfs")

func Debug(format string, v ...any) { def.Debug(format, v...) }
func Info(format string, v ...any)  { def.Info(format, v...) }
func Warn(format string, v ...any)  { def.Warn(format, v...) }
func Error(format string, v ...any) { def.Error(format, v...) }
