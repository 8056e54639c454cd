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

// Package wire declares the frame record shapes carried over every
// transport and the Codec boundary the core treats as opaque. The core
// never inspects encoded frame bytes beyond the leading type tag (Kind),
// which every Codec implementation is required to place as its first byte
// so dispatch can pick a decode function without a full decode.
package wire

// Kind discriminates a frame without requiring a full decode.
type Kind byte

const (
	KindRequest Kind = iota
	KindResponse
	KindNotification
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindNotification:
		return "notification"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Request carries a method call: its method name and opaque params bytes.
type Request struct {
	MsgID  uint32
	Method string
	Params []byte
}

// Response carries a decoded call result.
type Response struct {
	MsgID  uint32
	Result []byte
}

// Error carries a failed call's code and message, per spec.md §7's error
// kinds (Code is typically a errors.Kind.Code(), but is int32 on the wire
// to leave room for user-raised application codes too).
type Error struct {
	MsgID   uint32
	Code    int32
	Message string
}

// Broadcast carries one publish/subscribe message.
type Broadcast struct {
	Topic string
	Data  []byte
}
