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

package stream

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/framing"
	"github.com/nabbar/uvrpc/socket"
)

// Server is the shared tcp/unix server-role engine. Accept backlog is
// whatever the supplied net.Listener was built with; the tcp and unix
// packages both use net.Listen, so it is the OS default, not a fixed 128.
type Server struct {
	listenFn   func() (net.Listener, error)
	handler    socket.HandlerFunc
	onError    socket.FuncError
	onInfo     socket.FuncInfo
	updateConn socket.UpdateConn

	mu    sync.Mutex
	ln    net.Listener
	conns map[string]*serverConn // insertion-ordered enough for our purposes; O(1) detach by token
	order []string
}

type serverConn struct {
	conn      net.Conn
	connected int32
	cancel    context.CancelFunc
}

// NewServer builds a Server. listenFn is called once from Listen to obtain
// the bound net.Listener; per-connection options such as TCP_NODELAY are
// applied to each accepted conn through updateConn.
func NewServer(listenFn func() (net.Listener, error), handler socket.HandlerFunc, onError socket.FuncError, onInfo socket.FuncInfo, updateConn socket.UpdateConn) *Server {
	return &Server{
		listenFn:   listenFn,
		handler:    handler,
		onError:    onError,
		onInfo:     onInfo,
		updateConn: updateConn,
		conns:      make(map[string]*serverConn),
	}
}

func (s *Server) RegisterFuncError(fct socket.FuncError) { s.onError = fct }
func (s *Server) RegisterFuncInfo(fct socket.FuncInfo)   { s.onInfo = fct }

func (s *Server) reportError(errs ...error) {
	if s.onError == nil {
		return
	}
	var filtered []error
	for _, e := range errs {
		if fe := socket.ErrorFilter(e); fe != nil {
			filtered = append(filtered, fe)
		}
	}
	if len(filtered) > 0 {
		s.onError(filtered...)
	}
}

func (s *Server) reportInfo(local, remote net.Addr, state socket.ConnState) {
	if s.onInfo != nil {
		s.onInfo(local, remote, state)
	}
}

// Listen binds and accepts connections until ctx is done or the listener
// fails. Each accepted connection is served on its own goroutine.
func (s *Server) Listen(ctx context.Context) error {
	ln, err := s.listenFn()
	if err != nil {
		return uverr.Wrap(uverr.KindIO, "listen failed", err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.reportError(err)
				return uverr.Wrap(uverr.KindIO, "accept failed", err)
			}
		}
		if s.updateConn != nil {
			s.updateConn(conn)
		}
		go s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	token := newToken()
	connCtx, cancel := context.WithCancel(ctx)
	sc := &serverConn{conn: conn, connected: 1, cancel: cancel}

	s.mu.Lock()
	s.conns[token] = sc
	s.order = append(s.order, token)
	s.mu.Unlock()

	s.reportInfo(conn.LocalAddr(), conn.RemoteAddr(), socket.ConnectionNew)

	defer s.detach(token, conn, cancel)

	dec := framing.NewDecoder()
	buf := make([]byte, socket.DefaultBufferSize)
	for {
		s.reportInfo(conn.LocalAddr(), conn.RemoteAddr(), socket.ConnectionRead)
		n, err := conn.Read(buf)
		if err != nil {
			s.reportError(uverr.Wrap(uverr.KindIO, "EOF", err))
			return
		}
		frames, ferr := dec.Feed(buf[:n])
		for _, payload := range frames {
			s.reportInfo(conn.LocalAddr(), conn.RemoteAddr(), socket.ConnectionHandler)
			fctx := newFrameContext(connCtx, conn, token, payload, &sc.connected)
			s.handler(fctx)
		}
		if ferr != nil {
			s.reportError(uverr.Wrap(uverr.KindFraming, "oversized frame, resetting connection", ferr))
			return
		}
	}
}

func (s *Server) detach(token string, conn net.Conn, cancel context.CancelFunc) {
	s.mu.Lock()
	if sc, ok := s.conns[token]; ok {
		atomic.StoreInt32(&sc.connected, 0)
	}
	delete(s.conns, token)
	for i, t := range s.order {
		if t == token {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	cancel()
	s.reportInfo(conn.LocalAddr(), conn.RemoteAddr(), socket.ConnectionClose)
	_ = conn.Close()
}

// SendTo writes payload, framed, to exactly one connection.
func (s *Server) SendTo(token string, payload []byte) error {
	s.mu.Lock()
	sc, ok := s.conns[token]
	s.mu.Unlock()
	if !ok {
		return uverr.Newf(uverr.KindNotFound, "connection %q not found", token)
	}
	return s.writeFramed(sc.conn, payload)
}

// Send writes payload, framed, to every active connection. Per spec.md §9
// this is a leftover multicast behaviour publishers depend on; RPC servers
// should prefer SendTo.
func (s *Server) Send(payload []byte) error {
	s.mu.Lock()
	targets := make([]net.Conn, 0, len(s.conns))
	for _, sc := range s.conns {
		targets = append(targets, sc.conn)
	}
	s.mu.Unlock()

	var firstErr error
	for _, c := range targets {
		if err := s.writeFramed(c, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Server) writeFramed(conn net.Conn, payload []byte) error {
	framed, err := framing.Encode(payload)
	if err != nil {
		return err
	}
	if _, err := conn.Write(framed); err != nil {
		return uverr.Wrap(uverr.KindIO, "send failed", err)
	}
	return nil
}

// Shutdown closes every connection (delivering FIN before the listener's
// handle is freed, spec.md §8 invariant 5) and the listener itself.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	conns := make([]*serverConn, 0, len(s.conns))
	for _, sc := range s.conns {
		conns = append(conns, sc)
	}
	s.conns = make(map[string]*serverConn)
	s.order = nil
	s.mu.Unlock()

	for _, sc := range conns {
		atomic.StoreInt32(&sc.connected, 0)
		sc.cancel()
		_ = sc.conn.Close()
	}
	if ln != nil {
		return ln.Close()
	}
	return nil
}
