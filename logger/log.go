package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey string

// TaskKey is the context key used to attach a task key to log entries.
const TaskKey contextKey = "task"

// WithTask returns a context which makes log calls include the given task key.
func WithTask(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, TaskKey, key)
}

// Logger handles structured, leveled logging.
//
// After the message, arguments are key-value pairs which are written as
// structured fields:
//
//	log.Info("Some message here", "key1", value1, "key2", value2)
type Logger struct {
	ns     string
	logrus *logrus.Logger
	fields map[string]interface{}
}

// NewLogger returns a new Logger instance configured with the given config.
func NewLogger(ns string, conf Config) *Logger {
	l := newLogger(ns)
	l.Configure(conf)
	return l
}

// New returns a new Logger with the default configuration and the given
// base fields.
func New(ns string, args ...interface{}) *Logger {
	l := newLogger(ns)
	l.fields = fields(args...)
	l.Configure(DefaultConfig())
	return l
}

func newLogger(ns string) *Logger {
	return &Logger{
		ns:     ns,
		logrus: logrus.New(),
		fields: map[string]interface{}{},
	}
}

// NewSubLogger returns a child logger sharing the output, level and formatter
// of the parent, under a new namespace.
func (l *Logger) NewSubLogger(ns string, args ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	f := fields(args...)
	for k, v := range l.fields {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
	return &Logger{ns: ns, logrus: l.logrus, fields: f}
}

// WithFields returns a new Logger instance with the given fields added to all log messages.
func (l *Logger) WithFields(args ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	f := fields(args...)
	for k, v := range l.fields {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
	return &Logger{ns: l.ns, logrus: l.logrus, fields: f}
}

func (l *Logger) entry(args ...interface{}) *logrus.Entry {
	f := fields(args...)
	for k, v := range l.fields {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
	f["ns"] = l.ns
	return l.logrus.WithFields(f)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	defer recoverLogErr()
	l.entry(args...).Debug(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	defer recoverLogErr()
	l.entry(args...).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	defer recoverLogErr()
	l.entry(args...).Warn(msg)
}

// Error logs an error message.
//
// Error has a two-argument version that can be used as a shortcut.
//
//	err := submit()
//	log.Error("Couldn't submit", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	defer recoverLogErr()
	l.entry(args...).Error(msg)
}

// SetLevel sets the level of logging.
func (l *Logger) SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		l.logrus.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.logrus.SetLevel(logrus.WarnLevel)
	case "error":
		l.logrus.SetLevel(logrus.ErrorLevel)
	default:
		l.logrus.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput sets the output of the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.logrus.SetOutput(w)
}

// SetFormatter sets the formatter of the logger.
func (l *Logger) SetFormatter(f logrus.Formatter) {
	l.logrus.SetFormatter(f)
}

// Discard configures the logger to discard all logs.
func (l *Logger) Discard() {
	l.SetOutput(io.Discard)
}

// recoverLogErr is used to recover from any panics during logging.
// Logging should never crash a program.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Println("Recovered from logging panic", r)
	}
}

// PrintSimpleError prints out an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Printf("\x1b[%dm%s\x1b[0m %s\n", red, "ERROR:", err.Error())
}

const red = 31

func fields(args ...interface{}) map[string]interface{} {
	f := make(map[string]interface{}, len(args)/2)

	// Contexts may be passed without a key.
	var rest []interface{}
	for _, a := range args {
		if ctx, ok := a.(context.Context); ok {
			if v := ctx.Value(TaskKey); v != nil {
				f[string(TaskKey)] = v
			}
			continue
		}
		rest = append(rest, a)
	}

	if len(rest) == 1 {
		if err, ok := rest[0].(error); ok {
			f["error"] = err.Error()
		} else {
			f["unknown"] = rest[0]
		}
		return f
	}
	for i := 0; i+1 < len(rest); i += 2 {
		k := fmt.Sprintf("%v", rest[i])
		v := rest[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		f[k] = v
	}
	if len(rest)%2 != 0 {
		f["unknown"] = rest[len(rest)-1]
	}
	return f
}
