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

package rpc

import (
	"context"
	"io"
	"time"

	"github.com/nabbar/uvrpc/bus"
	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/logger"
	"github.com/nabbar/uvrpc/msgid"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/wire"
)

// Client drives request/response calls over one transport connection.
type Client struct {
	log       logger.Logger
	codec     wire.Codec
	bus       *bus.Bus
	ids       *msgid.Allocator
	transport socket.Client
}

// NewClient wraps an already-configured (but not yet connected)
// socket.Client. msgIDOffset partitions the id space per spec.md §3's
// gateway note; 0 means auto-start at 1.
func NewClient(transport socket.Client, codec wire.Codec, log logger.Logger, msgIDOffset uint32) *Client {
	return &Client{
		log:       logger.OrDefault(log),
		codec:     codec,
		bus:       bus.New(log),
		ids:       msgid.New(msgIDOffset),
		transport: transport,
	}
}

// Connect dials the transport and arms continuous frame dispatch.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.transport.Connect(ctx); err != nil {
		return err
	}
	c.transport.Once(c.onPayload)
	return nil
}

// onPayload rearms itself immediately so every subsequent frame on this
// connection is also dispatched - socket.Client.Once is documented as
// single-shot, so a continuous RPC multiplexer must re-arm on every
// delivery.
func (c *Client) onPayload(r io.Reader) {
	c.transport.Once(c.onPayload)

	b, err := io.ReadAll(r)
	if err != nil {
		c.log.Warn("failed to read inbound frame", logger.Fields{"err": err.Error()})
		return
	}
	kind, err := wire.PeekKind(b)
	if err != nil {
		c.log.Debug("dropping malformed frame", logger.Fields{"err": err.Error()})
		return
	}

	switch kind {
	case wire.KindResponse:
		resp, err := c.codec.DecodeResponse(b)
		if err != nil {
			c.log.Warn("failed to decode response", logger.Fields{"err": err.Error()})
			return
		}
		c.bus.Resolve(bus.Resolution{MsgID: resp.MsgID, Result: resp.Result})
	case wire.KindError:
		ef, err := c.codec.DecodeError(b)
		if err != nil {
			c.log.Warn("failed to decode error frame", logger.Fields{"err": err.Error()})
			return
		}
		c.bus.Resolve(bus.Resolution{MsgID: ef.MsgID, ErrCode: uint16(ef.Code), ErrMsg: ef.Message})
	case wire.KindNotification:
		bc, err := c.codec.DecodeBroadcast(b)
		if err != nil {
			c.log.Warn("failed to decode broadcast", logger.Fields{"err": err.Error()})
			return
		}
		c.bus.Dispatch(bc.Topic, bc.Data)
	default:
		c.log.Debug("dropping unexpected frame kind on client transport", logger.Fields{"kind": kind.String()})
	}
}

// Call allocates a msgid, registers cb, encodes and sends the request.
// When Call returns nil, cb is invoked exactly once (§4.6 "never invoked
// zero times and never twice"); when it returns an error, the pending
// record is removed and cb is never invoked. On a transport that delivers
// synchronously (inproc), cb can run before Call returns.
func (c *Client) Call(method string, params []byte, cb bus.PendingCallback) error {
	id := c.ids.Next()
	c.bus.AddPending(id, cb, time.Now())

	b, err := c.codec.EncodeRequest(wire.Request{MsgID: id, Method: method, Params: params})
	if err != nil {
		c.bus.RemovePending(id)
		return err
	}
	if _, err := c.transport.Write(b); err != nil {
		c.bus.RemovePending(id)
		return err
	}
	return nil
}

// Future resolves once a Call's response, error, or cancellation arrives.
// §9 supplemented feature "callback-centric APIs -> typed async results".
type Future struct {
	ch chan bus.Resolution
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (wire.Response, error) {
	select {
	case r := <-f.ch:
		if r.Cancelled {
			return wire.Response{}, uverr.New(uverr.KindCancelled, "call cancelled")
		}
		if r.ErrMsg != "" {
			return wire.Response{}, uverr.New(uverr.Kind(r.ErrCode), r.ErrMsg)
		}
		return wire.Response{MsgID: r.MsgID, Result: r.Result}, nil
	case <-ctx.Done():
		return wire.Response{}, uverr.Wrap(uverr.KindTimeout, "call wait cancelled", ctx.Err())
	}
}

// CallFuture is Call wrapped in a Future instead of a bare callback.
func (c *Client) CallFuture(method string, params []byte) (*Future, error) {
	fut := &Future{ch: make(chan bus.Resolution, 1)}
	if err := c.Call(method, params, func(r bus.Resolution) { fut.ch <- r }); err != nil {
		return nil, err
	}
	return fut, nil
}

// CallSync drives a CallFuture to completion or timeout.
func (c *Client) CallSync(ctx context.Context, method string, params []byte, timeout time.Duration) (wire.Response, error) {
	fut, err := c.CallFuture(method, params)
	if err != nil {
		return wire.Response{}, err
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fut.Wait(waitCtx)
}

// Subscribe registers cb for topic broadcasts arriving on this connection.
func (c *Client) Subscribe(topic string, cb bus.Subscription) {
	c.bus.Subscribe(topic, cb)
}

// Unsubscribe removes topic's registration.
func (c *Client) Unsubscribe(topic string) {
	c.bus.Unsubscribe(topic)
}

// Close tears the connection down and cancels every pending call (§4.6
// "Teardown of the client walks the pending index and calls every callback
// with cancellation").
func (c *Client) Close() error {
	err := c.transport.Close()
	c.bus.DrainPending()
	return err
}
