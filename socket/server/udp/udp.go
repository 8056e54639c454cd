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

// Package udp implements the datagram transport: no framing (one datagram
// is one payload), no backlog, and a bounded peer table recording the
// source address of every inbound datagram, including the zero-length
// sentinel datagram described in spec.md §4.7.
package udp

import (
	"context"
	"net"
	"sync"

	"github.com/bits-and-blooms/bitset"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
)

// MaxPeers bounds the server-side peer table, per spec.md §3's "UDP peer
// table" note.
const MaxPeers = 1000

// Sentinel is the zero-length registration datagram a subscriber sends to
// join a server's peer table (spec.md §4.7).
var Sentinel = []byte{}

// Server is the udp server-role transport.
type Server struct {
	address string
	handler socket.HandlerFunc
	onError socket.FuncError
	onInfo  socket.FuncInfo

	mu       sync.Mutex
	conn     *net.UDPConn
	peers    map[string]*net.UDPAddr
	order    []string
	slots    map[string]uint
	occupied *bitset.BitSet
}

// New builds a udp server bound to cfg.Address.
func New(cfg config.Server) (socket.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		address:  cfg.Address,
		handler:  cfg.Handler,
		onError:  cfg.OnError,
		onInfo:   cfg.OnInfo,
		peers:    make(map[string]*net.UDPAddr),
		slots:    make(map[string]uint),
		occupied: bitset.New(MaxPeers),
	}, nil
}

func (s *Server) RegisterFuncError(fct socket.FuncError) { s.onError = fct }
func (s *Server) RegisterFuncInfo(fct socket.FuncInfo)   { s.onInfo = fct }

func (s *Server) reportError(err error) {
	if s.onError == nil {
		return
	}
	if fe := socket.ErrorFilter(err); fe != nil {
		s.onError(fe)
	}
}

// Listen binds the UDP socket and reads datagrams until ctx is done.
func (s *Server) Listen(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.address)
	if err != nil {
		return uverr.Wrap(uverr.KindInvalidParam, "resolve failed", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return uverr.Wrap(uverr.KindIO, "listen failed", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	buf := make([]byte, socket.DefaultBufferSize)
	for {
		n, remote, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.reportError(err)
				return uverr.Wrap(uverr.KindIO, "read failed", err)
			}
		}
		s.registerPeer(remote)
		if n == 0 {
			continue // sentinel datagram: registration only, no handler dispatch
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		fctx := newDatagramContext(ctx, conn, remote, payload)
		s.handler(fctx)
	}
}

// registerPeer admits addr into the peer table, using occupied as the
// authoritative capacity/slot allocator: a peer is admitted only if the
// bitset has a free slot below MaxPeers, and that slot is what reclamation
// in removePeer hands back on peer loss.
func (s *Server) registerPeer(addr *net.UDPAddr) {
	key := addr.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.peers[key]; ok {
		return
	}
	slot, ok := s.occupied.NextClear(0)
	if !ok || slot >= MaxPeers {
		return // peer table full
	}
	s.occupied.Set(slot)
	s.peers[key] = addr
	s.slots[key] = slot
	s.order = append(s.order, key)
}

// removePeer evicts key from the peer table and reclaims its slot so a
// later registerPeer can reuse it.
func (s *Server) removePeer(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok {
		return
	}
	s.occupied.Clear(slot)
	delete(s.slots, key)
	delete(s.peers, key)
}

// SendTo delivers payload to exactly one registered peer, identified by the
// token its Context exposed (the peer's address string).
func (s *Server) SendTo(token string, payload []byte) error {
	s.mu.Lock()
	conn := s.conn
	addr, ok := s.peers[token]
	s.mu.Unlock()
	if !ok {
		return uverr.Newf(uverr.KindNotFound, "peer %q not found", token)
	}
	if conn == nil {
		return uverr.New(uverr.KindNotConnected, "not listening")
	}
	if _, err := conn.WriteToUDP(payload, addr); err != nil {
		s.removePeer(token)
		return uverr.Wrap(uverr.KindIO, "send failed", err)
	}
	return nil
}

// Send fans payload out to every registered peer.
func (s *Server) Send(payload []byte) error {
	s.mu.Lock()
	conn := s.conn
	targets := make(map[string]*net.UDPAddr, len(s.peers))
	for k, a := range s.peers {
		targets[k] = a
	}
	s.mu.Unlock()
	if conn == nil {
		return uverr.New(uverr.KindNotConnected, "not listening")
	}
	var firstErr error
	for k, a := range targets {
		if _, err := conn.WriteToUDP(payload, a); err != nil {
			s.removePeer(k)
			if firstErr == nil {
				firstErr = uverr.Wrap(uverr.KindIO, "send failed", err)
			}
		}
	}
	return firstErr
}

// Shutdown releases the UDP socket and clears the peer table.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.peers = make(map[string]*net.UDPAddr)
	s.order = nil
	s.slots = make(map[string]uint)
	s.occupied.ClearAll()
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
