// Package observe defines the logging seam the engine exposes to hosts.
// The engine never writes output on its own: callers inject a Logger (or
// leave the silent default) through the option surface.
package observe

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger receives diagnostic events from the pagination pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a single structured key/value attached to a log event.
type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type floatField struct {
	key string
	val float64
}

func (f floatField) Key() string        { return f.key }
func (f floatField) Value() interface{} { return f.val }

type durationField struct {
	key string
	val time.Duration
}

func (f durationField) Key() string        { return f.key }
func (f durationField) Value() interface{} { return f.val }

type errorField struct{ err error }

func (f errorField) Key() string        { return "error" }
func (f errorField) Value() interface{} { return f.err }

// String builds a string-valued field.
func String(key, value string) Field { return stringField{key, value} }

// Int builds an int-valued field.
func Int(key string, value int) Field { return intField{key, value} }

// Float builds a float-valued field.
func Float(key string, value float64) Field { return floatField{key, value} }

// Duration builds a duration-valued field.
func Duration(key string, value time.Duration) Field { return durationField{key, value} }

// Err builds an error-valued field under the key "error".
func Err(err error) Field { return errorField{err} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) With(...Field) Logger   { return nopLogger{} }

// NopLogger returns a logger that discards everything. It is the default
// for every component that accepts a Logger.
func NopLogger() Logger { return nopLogger{} }

// Level is the minimum severity a TextLogger emits.
type Level int

// Severity levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
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
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

type textLogger struct {
	mu    *sync.Mutex
	w     io.Writer
	min   Level
	bound []Field
	now   func() time.Time
}

// NewTextLogger returns a Logger writing one "time level message k=v ..."
// line per event at or above min. Safe for concurrent use.
func NewTextLogger(w io.Writer, min Level) Logger {
	return &textLogger{mu: &sync.Mutex{}, w: w, min: min, now: time.Now}
}

func (l *textLogger) log(lv Level, msg string, fields []Field) {
	if lv < l.min {
		return
	}
	var b strings.Builder
	b.WriteString(l.now().Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(lv.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	all := make([]Field, 0, len(l.bound)+len(fields))
	all = append(all, l.bound...)
	all = append(all, fields...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Key() < all[j].Key() })
	for _, f := range all {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	b.WriteByte('\n')
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, b.String())
}

func (l *textLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *textLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *textLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *textLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *textLogger) With(fields ...Field) Logger {
	bound := make([]Field, 0, len(l.bound)+len(fields))
	bound = append(bound, l.bound...)
	bound = append(bound, fields...)
	return &textLogger{mu: l.mu, w: l.w, min: l.min, bound: bound, now: l.now}
}
