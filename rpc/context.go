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

// Package rpc assembles a transport, a bus, and a codec into request/
// response semantics (spec.md §4.6).
package rpc

import (
	"sync/atomic"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/wire"
)

// HandlerFunc processes one inbound request.
type HandlerFunc func(ctx *RequestContext)

// RequestContext is handed to a server HandlerFunc. Reply must be called
// exactly once; a type-state token enforces this (§9 supplemented feature
// "double-reply -> type-state").
type RequestContext struct {
	Method string
	Params []byte
	Token  string

	msgid   uint32
	codec   wire.Codec
	sendTo  func(token string, payload []byte) error
	replied int32
}

func newRequestContext(msgid uint32, method string, params []byte, token string, codec wire.Codec, sendTo func(string, []byte) error) *RequestContext {
	return &RequestContext{Method: method, Params: params, Token: token, msgid: msgid, codec: codec, sendTo: sendTo}
}

// Reply encodes result as a RESPONSE frame and sends it back to the
// originating peer. A second call returns a KindFatal error (or panics
// under the uvrpc_strict build tag).
func (c *RequestContext) Reply(result []byte) error {
	if !c.consume() {
		return doubleReply()
	}
	b, err := c.codec.EncodeResponse(wire.Response{MsgID: c.msgid, Result: result})
	if err != nil {
		return err
	}
	return c.sendTo(c.Token, b)
}

// ReplyError encodes a failure as an ERROR frame, per spec.md §4.6's
// handler contract and §4.5's METHOD_NOT_FOUND synthesis path.
func (c *RequestContext) ReplyError(code uint16, message string) error {
	if !c.consume() {
		return doubleReply()
	}
	b, err := c.codec.EncodeError(wire.Error{MsgID: c.msgid, Code: int32(code), Message: message})
	if err != nil {
		return err
	}
	return c.sendTo(c.Token, b)
}

func (c *RequestContext) consume() bool {
	return atomic.CompareAndSwapInt32(&c.replied, 0, 1)
}

func doubleReply() error {
	err := uverr.New(uverr.KindFatal, "reply called twice on the same request context")
	if strictMode {
		panic(err)
	}
	return err
}
