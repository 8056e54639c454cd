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

// Package framing implements the length-prefixed framing protocol used on
// stream transports (tcp, ipc): each payload is sent as a 4-byte
// big-endian length prefix followed by exactly that many payload bytes.
// UDP and inproc transports do not use this package - each datagram, or
// each direct call, is already one payload.
package framing

import (
	"encoding/binary"

	uverr "github.com/nabbar/uvrpc/errors"
)

// MaxFrameSize bounds a single frame's payload on stream transports, per
// spec.md §4.1. Larger frames are a FRAMING error.
const MaxFrameSize = 64 * 1024

// DefaultBufferSize is the fixed per-connection receive staging buffer size
// (§3 "Connection (server-side, tcp/pipe)").
const DefaultBufferSize = 32 * 1024

const prefixLen = 4

// Encode prepends a 4-byte big-endian length prefix to payload, returning a
// freshly allocated buffer. Oversized payloads are rejected rather than
// silently truncated.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameSize {
		return nil, uverr.Newf(uverr.KindFraming, "frame of %d bytes exceeds max %d", len(payload), MaxFrameSize)
	}
	buf := make([]byte, prefixLen+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[prefixLen:], payload)
	return buf, nil
}

// Decoder incrementally reassembles frames out of arbitrary byte chunks
// arriving from a stream transport. It owns a growing staging buffer and
// slides it forward as complete frames are consumed; callers feed it bytes
// via Feed and pull out whichever complete frames became available.
type Decoder struct {
	buf []byte
}

// NewDecoder creates an empty decoder with the default staging capacity
// pre-reserved.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, DefaultBufferSize)}
}

// Feed appends newly arrived bytes and returns every frame payload that
// became complete as a result, in arrival order. Any already-parsed frames
// are returned even if a later frame in the same chunk turns out to be
// oversized (§4.3 "any already-parsed frames from the same buffer are
// still delivered first").
func (d *Decoder) Feed(chunk []byte) (frames [][]byte, err error) {
	d.buf = append(d.buf, chunk...)

	for {
		if len(d.buf) < prefixLen {
			return frames, nil
		}
		n := binary.BigEndian.Uint32(d.buf[:prefixLen])
		if n > MaxFrameSize {
			return frames, uverr.Newf(uverr.KindFraming, "frame of %d bytes exceeds max %d", n, MaxFrameSize)
		}
		total := prefixLen + int(n)
		if len(d.buf) < total {
			return frames, nil
		}

		payload := make([]byte, n)
		copy(payload, d.buf[prefixLen:total])
		frames = append(frames, payload)

		remaining := len(d.buf) - total
		copy(d.buf, d.buf[total:])
		d.buf = d.buf[:remaining]
	}
}

// Reset discards any partially-buffered frame, used after a connection is
// reset on a framing error.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}
