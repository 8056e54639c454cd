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

	"github.com/nabbar/uvrpc/bus"
	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/logger"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/wire"
)

// Server assembles a transport, a bus, and a codec into request/response
// semantics (spec.md §4.6).
type Server struct {
	log       logger.Logger
	codec     wire.Codec
	bus       *bus.Bus
	transport socket.Server
}

// NewServer builds the bus first, then calls factory with the dispatch
// function that must become the transport's HandlerFunc - callers thread
// it into their chosen kind's config.Server.Handler before constructing
// the transport, e.g.:
//
//	srv, err := rpc.NewServer(func(h socket.HandlerFunc) (socket.Server, error) {
//	    return tcp.New(config.Server{Network: libptc.NetworkTCP, Address: addr, Handler: h})
//	}, cbor.New(), nil)
func NewServer(factory func(socket.HandlerFunc) (socket.Server, error), codec wire.Codec, log logger.Logger) (*Server, error) {
	s := &Server{log: logger.OrDefault(log), codec: codec, bus: bus.New(log)}
	t, err := factory(s.dispatch)
	if err != nil {
		return nil, err
	}
	s.transport = t
	return s, nil
}

// RegisterHandler installs fn for method (§4.5 "re-registration ... replaces
// silently").
func (s *Server) RegisterHandler(method string, fn HandlerFunc) {
	s.bus.RegisterHandler(method, func(ctx interface{}, m string, params []byte) {
		rc := ctx.(*RequestContext)
		fn(rc)
	})
}

// Listen binds and serves until ctx is done.
func (s *Server) Listen(ctx context.Context) error {
	return s.transport.Listen(ctx)
}

// Shutdown releases the transport.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.transport.Shutdown(ctx)
}

// Snapshot exposes the underlying bus's routing statistics.
func (s *Server) Snapshot() bus.Stats {
	return s.bus.Snapshot()
}

func (s *Server) dispatch(sc socket.Context) {
	payload, err := io.ReadAll(sc)
	if err != nil {
		s.log.Warn("failed to read inbound frame", logger.Fields{"err": err.Error()})
		return
	}

	kind, err := wire.PeekKind(payload)
	if err != nil {
		s.log.Debug("dropping malformed frame", logger.Fields{"err": err.Error()})
		return
	}
	if kind != wire.KindRequest {
		s.log.Debug("dropping non-request frame on server transport", logger.Fields{"kind": kind.String()})
		return
	}

	req, err := s.codec.DecodeRequest(payload)
	if err != nil {
		s.log.Warn("failed to decode request", logger.Fields{"err": err.Error()})
		return
	}

	token := sc.Token()
	fn, ok := s.bus.Handler(req.Method)
	if !ok {
		b, encErr := s.codec.EncodeError(wire.Error{
			MsgID:   req.MsgID,
			Code:    int32(uverr.KindMethodNotFound),
			Message: "method not found: " + req.Method,
		})
		if encErr == nil {
			if sendErr := s.transport.SendTo(token, b); sendErr != nil {
				s.log.Warn("failed to send METHOD_NOT_FOUND", logger.Fields{"err": sendErr.Error()})
			}
		}
		return
	}

	rc := newRequestContext(req.MsgID, req.Method, req.Params, token, s.codec, s.transport.SendTo)
	fn(rc, req.Method, req.Params)
}
