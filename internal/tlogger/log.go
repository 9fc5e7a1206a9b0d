package tlogger

import (
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var hlog log.Logger

var (
	mu       sync.Mutex
	output   io.Writer = os.Stdout
	minLevel           = level.AllowInfo()
	applied  bool
)

func init() {
	rebuild()
}

func rebuild() {
	base := log.NewSyncLogger(log.NewLogfmtLogger(output))
	hlog = level.NewFilter(log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6)), minLevel)
}

// SetOutput redirects every log entry to w, keeping the current level.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// ApplyLogLevel applies min logging level. Only the first call has an effect.
func ApplyLogLevel(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if applied {
		return
	}
	applied = true

	switch lvl {
	case "debug":
		minLevel = level.AllowDebug()
	case "warn":
		minLevel = level.AllowWarn()
	case "error":
		minLevel = level.AllowError()
	case "all":
		minLevel = level.AllowAll()
	default:
		minLevel = level.AllowInfo()
	}
	rebuild()
}

// ApplyVerbosity maps a verbosity counter (0 normal, 1 verbose, 2 debug) to a level.
func ApplyVerbosity(v int) {
	switch v {
	case 0:
		ApplyLogLevel("info")
	case 1:
		ApplyLogLevel("debug")
	default:
		ApplyLogLevel("all")
	}
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	level.Debug(hlog).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	level.Info(hlog).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	level.Warn(hlog).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	level.Error(hlog).Log(keyvals...)
}

// Fatal add a log entry w/ Error level and exits
func Fatal(keyvals ...interface{}) {
	debug.PrintStack()
	level.Error(hlog).Log(keyvals...)
	os.Exit(1)
}

// FatalIf prints a fatal Error level and exits if err != nil
func FatalIf(err error) {
	if err == nil {
		return
	}
	level.Error(hlog).Log("err", err)
	os.Exit(1)
}
