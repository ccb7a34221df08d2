/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger provides the structured, level-filtered logging used
// throughout this repository. It is a thin, repository-local wrapper around
// logrus: every entry carries a Level, a message, optional structured Fields
// and optional attached errors.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// FuncLog is a deferred logger accessor, used for dependency injection when
// the concrete logger is not yet constructed (e.g. component wiring at
// startup before CLI flags are parsed).
type FuncLog func() Logger

// Logger is the logging façade used by every package in this repository.
type Logger interface {
	io.Closer

	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	// Clone returns an independent copy sharing the same output and level,
	// used to give each worker/session its own Fields without races.
	Clone() Logger

	Entry(lvl Level, message string) *Entry

	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warning(message string, fields Fields)
	Error(message string, fields Fields)
	// Fatal logs then terminates the process (os.Exit(1)).
	Fatal(message string, fields Fields)
	// Panic logs then panics.
	Panic(message string, fields Fields)
}

type logger struct {
	mu     sync.RWMutex
	out    *logrus.Logger
	level  atomic.Uint32
	fields Fields
}

// New creates a Logger writing to w at the given default level.
func New(w io.Writer, lvl Level) Logger {
	l := &logger{
		out: &logrus.Logger{
			Out:       w,
			Formatter: &logrus.TextFormatter{FullTimestamp: true},
			Hooks:     make(logrus.LevelHooks),
			Level:     lvl.Logrus(),
		},
	}
	l.level.Store(uint32(lvl))
	return l
}

// Default returns a Logger writing to stderr at InfoLevel, used before the
// CLI has parsed `--log`/`--level`.
func Default() Logger {
	return New(os.Stderr, InfoLevel)
}

// Open builds a Logger from the `--log` flag value: "stderr", "stdout", or
// a file path opened in append mode.
func Open(target string, lvl Level) (Logger, error) {
	switch target {
	case "", "stderr":
		return New(os.Stderr, lvl), nil
	case "stdout":
		return New(os.Stdout, lvl), nil
	default:
		f, err := os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		return New(f, lvl), nil
	}
}

func (l *logger) Close() error {
	if c, ok := l.out.Out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *logger) SetLevel(lvl Level) {
	l.level.Store(uint32(lvl))
	l.mu.Lock()
	l.out.SetLevel(lvl.Logrus())
	l.mu.Unlock()
}

func (l *logger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *logger) SetFields(f Fields) {
	l.mu.Lock()
	l.fields = f
	l.mu.Unlock()
}

func (l *logger) GetFields() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fields
}

func (l *logger) Clone() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := &logger{out: l.out, fields: l.fields.clone()}
	n.level.Store(l.level.Load())
	return n
}

func (l *logger) Entry(lvl Level, message string) *Entry {
	return &Entry{l: l, level: lvl, message: message, fields: l.GetFields()}
}

func (l *logger) write(lvl Level, message string, fields Fields, errs []error) {
	if lvl == NilLevel || lvl > Level(l.level.Load()) {
		return
	}

	merged := l.GetFields().Merge(fields)
	for i, e := range errs {
		if e != nil {
			merged = merged.Add(fmt.Sprintf("error.%d", i), e.Error())
		}
	}

	entry := l.out.WithFields(merged.logrus())

	switch lvl {
	case PanicLevel:
		entry.Panic(message)
	case FatalLevel:
		entry.Fatal(message)
	case ErrorLevel:
		entry.Error(message)
	case WarnLevel:
		entry.Warn(message)
	case InfoLevel:
		entry.Info(message)
	case DebugLevel:
		entry.Debug(message)
	}
}

func (l *logger) Debug(message string, fields Fields)   { l.write(DebugLevel, message, fields, nil) }
func (l *logger) Info(message string, fields Fields)    { l.write(InfoLevel, message, fields, nil) }
func (l *logger) Warning(message string, fields Fields) { l.write(WarnLevel, message, fields, nil) }
func (l *logger) Error(message string, fields Fields)   { l.write(ErrorLevel, message, fields, nil) }
func (l *logger) Fatal(message string, fields Fields)   { l.write(FatalLevel, message, fields, nil) }
func (l *logger) Panic(message string, fields Fields)   { l.write(PanicLevel, message, fields, nil) }
