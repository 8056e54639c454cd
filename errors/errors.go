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

package errors

import (
	"fmt"
	"runtime"
)

// RuntimeError is the concrete error type returned across the module's
// public API. It carries a Kind for programmatic handling, a human message,
// an optional wrapped cause, and the call site that created it.
type RuntimeError struct {
	kind  Kind
	msg   string
	cause error
	file  string
	line  int
}

// New builds a RuntimeError of the given kind with no wrapped cause.
func New(kind Kind, msg string) *RuntimeError {
	return newTraced(kind, msg, nil)
}

// Newf builds a RuntimeError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *RuntimeError {
	return newTraced(kind, fmt.Sprintf(format, args...), nil)
}

// Wrap builds a RuntimeError of the given kind around an existing cause.
// Wrap(kind, msg, nil) behaves like New.
func Wrap(kind Kind, msg string, cause error) *RuntimeError {
	return newTraced(kind, msg, cause)
}

func newTraced(kind Kind, msg string, cause error) *RuntimeError {
	e := &RuntimeError{kind: kind, msg: msg, cause: cause}
	if _, file, line, ok := runtime.Caller(2); ok {
		e.file, e.line = file, line
	}
	return e
}

func (e *RuntimeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap exposes the wrapped cause so errors.Is / errors.As keep working.
func (e *RuntimeError) Unwrap() error {
	return e.cause
}

// Kind returns the error's category.
func (e *RuntimeError) Kind() Kind {
	return e.kind
}

// Trace returns the "file:line" call site that created this error.
func (e *RuntimeError) Trace() string {
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

// Is reports whether target shares this error's Kind, so that
// errors.Is(err, errors.New(KindTimeout, "")) reads naturally as a kind
// check at call sites.
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

// KindOf extracts the Kind of err if it is (or wraps) a *RuntimeError,
// otherwise returns KindIO as the conservative default for foreign errors
// (kernel/third-party failures surface as IO per the error handling design).
func KindOf(err error) Kind {
	var re *RuntimeError
	for err != nil {
		if r, ok := err.(*RuntimeError); ok {
			re = r
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if re == nil {
		return KindIO
	}
	return re.kind
}
