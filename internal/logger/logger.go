// Package logger provides process-wide logging for Tailor.
// The CLI logs to stderr in a compact console format and stays quiet unless
// --verbose is set; the HTTP server and queue worker switch to JSON at info
// level. The printf-style helpers serve core services; adapters that want
// structured fields use L().
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format  = FormatConsole
	level   = zapcore.ErrorLevel
	output  io.Writer = os.Stderr
	base    = build()
)

// build constructs the zap logger from the current settings.
// Callers must hold mu for writing, except during package init.
func build() *zap.Logger {
	lvl := level
	if verbose {
		lvl = zapcore.DebugLevel
	}
	core := zapcore.NewCore(newEncoder(format), zapcore.AddSync(output), lvl)
	return zap.New(core)
}

func newEncoder(f string) zapcore.Encoder {
	if f == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// SetFormat selects console or JSON encoding.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	base = build()
}

// SetLevel sets the minimum level logged when verbose mode is off.
func SetLevel(l zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	base = build()
}

// L returns the underlying structured logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

func logf(l zapcore.Level, msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if ce := base.Check(l, ""); ce != nil {
		if len(args) > 0 {
			msg = fmt.Sprintf(msg, args...)
		}
		ce.Message = msg
		ce.Write()
	}
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(zapcore.DebugLevel, format, args...)
}

// Section logs a pipeline stage header if verbose mode is enabled.
func Section(name string) {
	logf(zapcore.DebugLevel, "=== "+name+" ===")
}

// Info logs an informational message.
func Info(format string, args ...any) {
	logf(zapcore.InfoLevel, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	logf(zapcore.WarnLevel, format, args...)
}

// Error logs an error message. Errors are logged at the default level.
func Error(format string, args ...any) {
	logf(zapcore.ErrorLevel, format, args...)
}
