/*
 * MIT License
 *
 * Copyright (c) 2026 uvrpc contributors
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
 */

package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the structured-logging contract every component accepts via its
// constructor options. Components never import logrus directly.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)

	// SetLevel changes the minimal level emitted.
	SetLevel(lvl Level)

	// WithFields returns a derived Logger that always merges in the given
	// fields, for binding component-scoped context (e.g. {"component": "bus"}).
	WithFields(fields Fields) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

var (
	once     sync.Once
	fallback Logger
)

// Default returns the process-wide fallback logger: JSON to stderr, Info
// level. Components that receive a nil Logger in their options use this.
func Default() Logger {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
		fallback = &logrusLogger{entry: logrus.NewEntry(l)}
	})
	return fallback
}

// New wraps an existing *logrus.Logger, for embedders that already run
// logrus and want this module's logs folded into the same sinks.
func New(base *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(base)}
}

func (l *logrusLogger) log(lvl Level, msg string, fields Fields) {
	e := l.entry
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	e.Log(lvl.logrus(), msg)
}

func (l *logrusLogger) Debug(msg string, fields Fields) { l.log(Debug, msg, fields) }
func (l *logrusLogger) Info(msg string, fields Fields)  { l.log(Info, msg, fields) }
func (l *logrusLogger) Warn(msg string, fields Fields)  { l.log(Warn, msg, fields) }
func (l *logrusLogger) Error(msg string, fields Fields) { l.log(Error, msg, fields) }

func (l *logrusLogger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(lvl.logrus())
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// OrDefault returns l if non-nil, else the process-wide Default().
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
