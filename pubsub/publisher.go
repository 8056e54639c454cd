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

// Package pubsub implements one-to-many broadcast over the same transports
// and wire codec the RPC layer uses (spec.md §4.7).
package pubsub

import (
	"context"

	"github.com/nabbar/uvrpc/logger"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/wire"
)

// Publisher wraps a server-role transport and broadcasts topic messages to
// every connected peer via the transport's multicast-style Send (on UDP
// this fans out to every registered peer, on stream transports it writes
// to every active connection, on inproc it calls every attached client's
// receive callback).
type Publisher struct {
	log       logger.Logger
	codec     wire.Codec
	transport socket.Server
}

// NewPublisher wraps an already-constructed server-role transport. The
// transport's HandlerFunc is never invoked for publish traffic - a
// Publisher accepts no inbound requests - but server-role transports
// still require one at construction, so most callers pass a no-op handler.
func NewPublisher(transport socket.Server, codec wire.Codec, log logger.Logger) *Publisher {
	return &Publisher{log: logger.OrDefault(log), codec: codec, transport: transport}
}

// Listen binds and serves until ctx is done.
func (p *Publisher) Listen(ctx context.Context) error {
	return p.transport.Listen(ctx)
}

// Publish encodes a broadcast frame for topic and fans it out to every
// connected peer.
func (p *Publisher) Publish(topic string, payload []byte) error {
	b, err := p.codec.EncodeBroadcast(wire.Broadcast{Topic: topic, Data: payload})
	if err != nil {
		return err
	}
	return p.transport.Send(b)
}

// Shutdown releases the transport.
func (p *Publisher) Shutdown(ctx context.Context) error {
	return p.transport.Shutdown(ctx)
}
