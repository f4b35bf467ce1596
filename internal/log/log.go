// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled-logging facade, used so this module does
// not force a particular logging backend on callers. It mirrors
// github.com/saferwall/pe/log's shape rather than reaching for a
// third-party logging library.
package log

import (
	"fmt"
	"io"
	"log"
)

// Level is a logging severity.
type Level int

// Severities, lowest to highest.
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
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal backend interface callers may implement to plug in
// their own logging infrastructure.
type Logger interface {
	Log(level Level, msg string) error
}

// stdLogger writes to a standard library *log.Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes every message to w via the
// standard library's log package.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Log(level Level, msg string) error {
	s.l.Printf("[%s] %s", level, msg)
	return nil
}

// filter wraps a Logger and drops messages below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// NewFilter returns a Logger that forwards to next only the messages at or
// above min.
func NewFilter(next Logger, min Level) Logger {
	return &filter{next: next, min: min}
}

// FilterLevel is an option-style alias kept for call-site readability:
// log.NewFilter(logger, log.FilterLevel(log.LevelError)).
func FilterLevel(l Level) Level { return l }

func (f *filter) Log(level Level, msg string) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, msg)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with printf-style convenience methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	_ = h.logger.Log(level, msg)
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

func (h *Helper) Warn(args ...interface{})  { h.log(LevelWarn, fmt.Sprint(args...)) }
func (h *Helper) Error(args ...interface{}) { h.log(LevelError, fmt.Sprint(args...)) }
