package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

func init() {
	// Each Logger filters by its own level; the process-wide gate stays open.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// Logger is a zerolog logger taking fields as maps, which is how every
// package in ntfywatch logs.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	if isConsoleFormat(cfg.Format) {
		zc = zerolog.New(consoleWriter(w, cfg.NoColor)).With().Timestamp()
	} else {
		zc = zerolog.New(w).With()
		if cfg.Timestamp {
			zc = zc.Timestamp()
		}
		if serviceName != "" {
			zc = zc.Str(FieldService, serviceName)
		}
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger().Level(level)}
}

// NewDefault creates an info-level console logger on stdout.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{ServiceName: serviceName}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// WithContext adds the trace and span ids of the span in ctx, if any, so a
// failed connect can be matched to its trace.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return &Logger{zl: l.zl.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()).
		Logger()}
}

// WithComponent tags every entry with the component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

// WithFields returns a logger that adds fields to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	write(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	write(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	write(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	write(l.zl.Error(), msg, fields)
}

// write is a no-op for a disabled level; zerolog returns a nil event then.
func write(ev *zerolog.Event, msg string, fields []map[string]interface{}) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		ev = ev.Fields(f)
	}
	ev.Msg(msg)
}

var global atomic.Pointer[Logger]

// Init builds the process logger from cfg.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	global.Store(New(cfg, cfg.ServiceName))
}

// GetGlobalLogger returns the process logger, creating a default one if
// Init has not run.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, NewDefault(""))
	return global.Load()
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent tags the process logger with a component name.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func isConsoleFormat(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatPretty
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// consoleWriter prints "15:04:05 INF subscription message key=value".
// The component moves from the field list into its own column.
func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       noColor,
		TimeFormat:    "15:04:05",
		PartsOrder:    []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, FieldComponent, zerolog.MessageFieldName},
		FieldsExclude: []string{FieldComponent},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}
