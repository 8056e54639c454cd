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

package pubsub

import (
	"context"
	"io"

	"github.com/nabbar/uvrpc/bus"
	"github.com/nabbar/uvrpc/logger"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/wire"
)

// BroadcastMessage is one decoded publish delivered to a Stream consumer.
type BroadcastMessage struct {
	Topic   string
	Payload []byte
}

// Subscriber wraps a client-role transport and routes decoded broadcast
// frames through a bus subscription index, exactly like rpc.Client does for
// notifications but without the request/response half (spec.md §4.7).
//
// The registration sentinel a UDP publisher needs is sent by the
// transport's own Connect, not here - subscriber stays transport-agnostic.
type Subscriber struct {
	log       logger.Logger
	codec     wire.Codec
	bus       *bus.Bus
	transport socket.Client
}

// NewSubscriber wraps an already-configured, not-yet-connected client.
func NewSubscriber(transport socket.Client, codec wire.Codec, log logger.Logger) *Subscriber {
	return &Subscriber{log: logger.OrDefault(log), codec: codec, bus: bus.New(log), transport: transport}
}

// Connect dials the transport and arms continuous broadcast dispatch.
func (s *Subscriber) Connect(ctx context.Context) error {
	if err := s.transport.Connect(ctx); err != nil {
		return err
	}
	s.transport.Once(s.onPayload)
	return nil
}

func (s *Subscriber) onPayload(r io.Reader) {
	s.transport.Once(s.onPayload)

	b, err := io.ReadAll(r)
	if err != nil {
		s.log.Warn("failed to read inbound frame", logger.Fields{"err": err.Error()})
		return
	}
	kind, err := wire.PeekKind(b)
	if err != nil {
		s.log.Debug("dropping malformed frame", logger.Fields{"err": err.Error()})
		return
	}
	if kind != wire.KindNotification {
		s.log.Debug("dropping non-broadcast frame on subscriber transport", logger.Fields{"kind": kind.String()})
		return
	}

	bc, err := s.codec.DecodeBroadcast(b)
	if err != nil {
		s.log.Warn("failed to decode broadcast", logger.Fields{"err": err.Error()})
		return
	}
	s.bus.Dispatch(bc.Topic, bc.Data)
}

// Subscribe registers cb for topic, per spec.md §4.7.
func (s *Subscriber) Subscribe(topic string, cb bus.Subscription) {
	s.bus.Subscribe(topic, cb)
}

// Unsubscribe removes topic's registration.
func (s *Subscriber) Unsubscribe(topic string) {
	s.bus.Unsubscribe(topic)
}

// Stream is the §9 supplemented event-stream convenience: it registers a
// callback that forwards onto a buffered channel, returning a cancel
// function that unsubscribes and closes the channel.
func (s *Subscriber) Stream(topic string) (<-chan BroadcastMessage, func()) {
	ch := make(chan BroadcastMessage, 16)
	s.Subscribe(topic, func(t string, payload []byte) {
		select {
		case ch <- BroadcastMessage{Topic: t, Payload: payload}:
		default:
			s.log.Warn("dropping broadcast, stream consumer too slow", logger.Fields{"topic": t})
		}
	})
	cancel := func() {
		s.Unsubscribe(topic)
		close(ch)
	}
	return ch, cancel
}

// Close disconnects the transport.
func (s *Subscriber) Close() error {
	return s.transport.Close()
}
