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

// Package errors defines the runtime's error kinds and a small wrapping
// error type carrying a kind, a message, an optional cause and a call-site
// trace.
package errors

import "strconv"

// Kind is a small closed taxonomy of error categories, one per row of the
// error handling design table. Unlike a plain sentinel error, a Kind survives
// wrapping and crossing an API boundary so callers can switch on it.
type Kind uint16

const (
	KindOK Kind = iota
	KindInvalidParam
	KindNoMemory
	KindNotConnected
	KindTimeout
	KindIO
	KindNotFound
	KindAlreadyExists
	KindMethodNotFound
	KindCancelled
	KindFraming
	// KindFatal marks a programmer error: double-reply, reentrant free,
	// wrong-thread access. Recovery is never expected.
	KindFatal
)

var kindNames = map[Kind]string{
	KindOK:             "OK",
	KindInvalidParam:   "INVALID_PARAM",
	KindNoMemory:       "NO_MEMORY",
	KindNotConnected:   "NOT_CONNECTED",
	KindTimeout:        "TIMEOUT",
	KindIO:             "IO",
	KindNotFound:       "NOT_FOUND",
	KindAlreadyExists:  "ALREADY_EXISTS",
	KindMethodNotFound: "METHOD_NOT_FOUND",
	KindCancelled:      "CANCELLED",
	KindFraming:        "FRAMING",
	KindFatal:          "FATAL",
}

// String returns the kind's wire-stable name, e.g. "METHOD_NOT_FOUND".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN(" + strconv.Itoa(int(k)) + ")"
}

// Code returns the kind's numeric value. Stable across releases: new kinds
// are only ever appended.
func (k Kind) Code() uint16 {
	return uint16(k)
}
