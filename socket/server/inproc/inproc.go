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

// Package inproc binds the socket.Server contract to the in-memory
// transport fabric (inproc.Hub), for same-process peers that want to skip
// the kernel entirely.
package inproc

import (
	"bytes"
	"context"
	"net"

	libinp "github.com/nabbar/uvrpc/inproc"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
)

type localAddr string

func (a localAddr) Network() string { return "inproc" }
func (a localAddr) String() string  { return string(a) }

// Server is the inproc server-role transport.
type Server struct {
	name    string
	handler socket.HandlerFunc
	onError socket.FuncError
	onInfo  socket.FuncInfo
	hub     *libinp.Hub
}

// New registers cfg.Address as an inproc registry name and builds its
// server side.
func New(cfg config.Server) (socket.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hub, err := libinp.Register(cfg.Address)
	if err != nil {
		return nil, err
	}
	return &Server{name: cfg.Address, handler: cfg.Handler, onError: cfg.OnError, onInfo: cfg.OnInfo, hub: hub}, nil
}

func (s *Server) RegisterFuncError(fct socket.FuncError) { s.onError = fct }
func (s *Server) RegisterFuncInfo(fct socket.FuncInfo)   { s.onInfo = fct }

// Listen binds the server's receive callback and blocks until ctx is done,
// then closes the hub.
func (s *Server) Listen(ctx context.Context) error {
	if s.onInfo != nil {
		s.onInfo(localAddr(s.name), localAddr(s.name), socket.ConnectionNew)
	}
	s.hub.BindServer(func(token string, payload []byte) {
		if s.onInfo != nil {
			s.onInfo(localAddr(s.name), localAddr(s.name), socket.ConnectionHandler)
		}
		fctx := newLocalContext(ctx, s.name, token, payload, s.hub.SendToClient)
		s.handler(fctx)
	})
	<-ctx.Done()
	return s.Shutdown(context.Background())
}

// SendTo delivers payload to exactly one attached client.
func (s *Server) SendTo(token string, payload []byte) error {
	return s.hub.SendToClient(token, payload)
}

// Send broadcasts payload to every attached client.
func (s *Server) Send(payload []byte) error {
	s.hub.Broadcast(payload)
	return nil
}

// Shutdown closes the hub, evicting every attached client and freeing the
// registry name.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return nil
}

type localContext struct {
	context.Context
	local   string
	token   string
	payload *bytes.Reader
	send    func(token string, payload []byte) error
}

func newLocalContext(ctx context.Context, local, token string, payload []byte, send func(string, []byte) error) *localContext {
	return &localContext{Context: ctx, local: local, token: token, payload: bytes.NewReader(payload), send: send}
}

func (c *localContext) Read(p []byte) (int, error) { return c.payload.Read(p) }

func (c *localContext) Write(p []byte) (int, error) {
	if err := c.send(c.token, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *localContext) IsConnected() bool  { return true }
func (c *localContext) LocalHost() string  { return c.local }
func (c *localContext) RemoteHost() string { return c.token }
func (c *localContext) Token() string      { return c.token }

var _ net.Addr = localAddr("")
