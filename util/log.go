package util

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger fans log lines out to its sinks. It travels in a context.
type Logger struct {
	sinks []Sink
	sync.Mutex
}

type Sink func(lvl Lvl, msg string)
type Lvl int

type loggerKey struct{}

const (
	DEBUG Lvl = iota
	INFO
	WARN
	ERROR
)

func Debugf(ctx context.Context, tpl string, args ...any) { Printf(ctx, DEBUG, tpl, args...) }
func Infof(ctx context.Context, tpl string, args ...any)  { Printf(ctx, INFO, tpl, args...) }
func Warnf(ctx context.Context, tpl string, args ...any)  { Printf(ctx, WARN, tpl, args...) }
func Errorf(ctx context.Context, tpl string, args ...any) { Printf(ctx, ERROR, tpl, args...) }

// WithLogger adds sinks to the logger in ctx, creating one if there is none yet.
func WithLogger(ctx context.Context, sinks ...Sink) context.Context {
	l, ok := GetLogger(ctx)
	if !ok {
		return context.WithValue(ctx, loggerKey{}, &Logger{sinks: sinks})
	}
	l.Lock()
	l.sinks = append(l.sinks, sinks...)
	l.Unlock()
	return ctx
}

func GetLogger(ctx context.Context) (*Logger, bool) {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	return l, ok
}

func WithLvl(minLvl Lvl, s Sink) Sink {
	return func(lvl Lvl, msg string) {
		if lvl >= minLvl {
			s(lvl, msg)
		}
	}
}

// WriterSink writes one "LVL prefix: msg" line per message to w.
func WriterSink(w io.Writer, prefix string) Sink {
	return func(lvl Lvl, msg string) {
		fmt.Fprintf(w, "%-5s %s: %s\n", lvl, prefix, strings.TrimSuffix(msg, "\n"))
	}
}

func Printf(ctx context.Context, lvl Lvl, tpl string, args ...any) {
	if l, ok := GetLogger(ctx); ok {
		msg := fmt.Sprintf(tpl, args...)
		l.Lock()
		defer l.Unlock()
		for _, s := range l.sinks {
			s(lvl, msg)
		}
	}
}

func (l Lvl) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("LVL(%d)", int(l))
	}
}

func ParseLvl(l string) (Lvl, error) {
	switch strings.ToUpper(l) {
	case "ERROR":
		return ERROR, nil
	case "WARN":
		return WARN, nil
	case "INFO":
		return INFO, nil
	case "DEBUG", "":
		return DEBUG, nil
	default:
		return DEBUG, fmt.Errorf("bad log level: %q", l)
	}
}
