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

package udp

import (
	"net"
	"testing"

	"github.com/bits-and-blooms/bitset"
)

// synthAddr builds a distinct, never-dialed UDP address for peer-table
// bookkeeping tests; nothing is actually sent to these addresses. The two
// low bytes of i become the last two IP octets, so addresses stay unique
// for every i in [0, 65536).
func synthAddr(i int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(10, 0, byte(i>>8), byte(i)), Port: 9000}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		peers:    make(map[string]*net.UDPAddr),
		slots:    make(map[string]uint),
		occupied: bitset.New(MaxPeers),
	}
}

func TestRegisterPeer_RejectsOnceFull(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < MaxPeers; i++ {
		s.registerPeer(synthAddr(i))
	}
	if len(s.peers) != MaxPeers {
		t.Fatalf("expected %d peers, got %d", MaxPeers, len(s.peers))
	}

	overflow := synthAddr(MaxPeers)
	s.registerPeer(overflow)
	if _, ok := s.peers[overflow.String()]; ok {
		t.Fatalf("peer table admitted a peer past MaxPeers")
	}
	if len(s.peers) != MaxPeers {
		t.Fatalf("peer count grew past MaxPeers: %d", len(s.peers))
	}
}

func TestRegisterPeer_ReusesReclaimedSlot(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < MaxPeers; i++ {
		s.registerPeer(synthAddr(i))
	}

	evicted := synthAddr(5)
	key := evicted.String()
	slot, ok := s.slots[key]
	if !ok {
		t.Fatalf("expected peer %d to have a slot", 5)
	}
	if !s.occupied.Test(slot) {
		t.Fatalf("expected slot %d to be marked occupied before eviction", slot)
	}

	s.removePeer(key)
	if s.occupied.Test(slot) {
		t.Fatalf("expected slot %d to be cleared after removePeer", slot)
	}
	if _, ok := s.peers[key]; ok {
		t.Fatalf("expected peer to be gone from the table after removePeer")
	}

	overflow := synthAddr(MaxPeers)
	s.registerPeer(overflow)
	newSlot, ok := s.slots[overflow.String()]
	if !ok {
		t.Fatalf("expected the freed slot to admit a new peer")
	}
	if newSlot != slot {
		t.Fatalf("expected reused slot %d, got %d", slot, newSlot)
	}
}

func TestRegisterPeer_IgnoresDuplicateAddr(t *testing.T) {
	s := newTestServer(t)
	addr := synthAddr(0)
	s.registerPeer(addr)
	slot := s.slots[addr.String()]

	s.registerPeer(addr)
	if len(s.peers) != 1 {
		t.Fatalf("expected duplicate registration to be a no-op, got %d peers", len(s.peers))
	}
	if s.slots[addr.String()] != slot {
		t.Fatalf("expected slot to be unchanged on duplicate registration")
	}
}
