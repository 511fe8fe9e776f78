// Package log is a structured, leveled logger in the style of klaytn's
// (and, before it, go-ethereum's) log package: key-value pairs, a
// colorized terminal handler, and one named logger per module.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
)

// Lvl is a logging severity level.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	case LvlTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

var levelColor = map[Lvl]color.Attribute{
	LvlCrit:  color.FgMagenta,
	LvlError: color.FgRed,
	LvlWarn:  color.FgYellow,
	LvlInfo:  color.FgGreen,
	LvlDebug: color.FgCyan,
	LvlTrace: color.FgWhite,
}

// Logger is a named, structured logger. Each package holds its own
// instance via New or NewModuleLogger, instead of a single global logger.
type Logger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
	New(ctx ...interface{}) Logger
}

type record struct {
	time time.Time
	lvl  Lvl
	msg  string
	call stack.Call
	ctx  []interface{}
}

type handler interface {
	Log(r *record) error
}

type logger struct {
	name string
	ctx  []interface{}
	h    *swapHandler
}

type swapHandler struct {
	mu sync.Mutex
	h  handler
}

func (s *swapHandler) Log(r *record) error {
	s.mu.Lock()
	h := s.h
	s.mu.Unlock()
	return h.Log(r)
}

func (s *swapHandler) Swap(h handler) {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

var root = &logger{h: new(swapHandler)}

func init() {
	root.h.Swap(terminalHandler(colorable.NewColorableStderr(), true))
}

// Root returns the root logger. Module loggers are children of it.
func Root() Logger { return root }

// SetOutput redirects the root logger (and all of its children, since
// they share the same swap handler) to w. plainText disables ANSI color
// codes, which matters when w is not a terminal.
func SetOutput(w io.Writer, plainText bool) {
	root.h.Swap(terminalHandler(w, !plainText))
}

// New returns a logger named by concatenating ctx as key/value pairs,
// e.g. New("pkg", "executor").
func New(ctx ...interface{}) Logger {
	return &logger{ctx: normalize(ctx), h: root.h}
}

// NewModuleLogger mirrors klaytn's log.NewModuleLogger(log.<Module>)
// convention: every caller gets a logger tagged with its module name.
func NewModuleLogger(module string) Logger {
	return New("module", module)
}

func (l *logger) write(lvl Lvl, msg string, ctx []interface{}) {
	r := &record{
		time: time.Now(),
		lvl:  lvl,
		msg:  msg,
		ctx:  append(append([]interface{}{}, l.ctx...), ctx...),
	}
	if cs := stack.Caller(2); cs != 0 {
		r.call = cs
	}
	_ = l.h.Log(r)
	if lvl == LvlCrit {
		os.Exit(1)
	}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LvlCrit, msg, ctx) }

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{ctx: append(append([]interface{}{}, l.ctx...), normalize(ctx)...), h: l.h}
}

func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, "LOG_ERRMISSINGVALUE")
	}
	return ctx
}

func terminalHandler(w io.Writer, useColor bool) handler {
	return funcHandler(func(r *record) error {
		return writeRecord(w, r, useColor)
	})
}

type funcHandler func(r *record) error

func (f funcHandler) Log(r *record) error { return f(r) }

func writeRecord(w io.Writer, r *record, useColor bool) error {
	ts := r.time.Format("2006-01-02T15:04:05-0700")
	lvl := r.lvl.String()
	if useColor {
		c := color.New(levelColor[r.lvl]).SprintFunc()
		lvl = c(fmt.Sprintf("%-5s", lvl))
	} else {
		lvl = fmt.Sprintf("%-5s", lvl)
	}
	var where string
	if r.call != 0 {
		where = fmt.Sprintf(" %+v", r.call)
	}
	fmt.Fprintf(w, "%s [%s]%s %s", ts, lvl, where, r.msg)
	for i := 0; i+1 < len(r.ctx); i += 2 {
		fmt.Fprintf(w, " %v=%v", r.ctx[i], r.ctx[i+1])
	}
	fmt.Fprintln(w)
	return nil
}
