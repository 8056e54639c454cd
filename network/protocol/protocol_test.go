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

package protocol_test

import (
	"testing"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/network/protocol"
)

func TestParse_ValidAddresses(t *testing.T) {
	tests := []struct {
		uri     string
		network protocol.NetworkProtocol
		loc     string
	}{
		{"tcp://127.0.0.1:5555", protocol.NetworkTCP, "127.0.0.1:5555"},
		{"tcp://[::1]:5555", protocol.NetworkTCP, "[::1]:5555"},
		{"udp://127.0.0.1:5556", protocol.NetworkUDP, "127.0.0.1:5556"},
		{"ipc:///tmp/uvrpc.sock", protocol.NetworkIPC, "/tmp/uvrpc.sock"},
		{"inproc://bus-a", protocol.NetworkInproc, "bus-a"},
	}

	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			a, err := protocol.Parse(tc.uri)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.uri, err)
			}
			if a.Network != tc.network {
				t.Errorf("Network = %v, want %v", a.Network, tc.network)
			}
			if a.Location != tc.loc {
				t.Errorf("Location = %q, want %q", a.Location, tc.loc)
			}
		})
	}
}

func TestParse_RejectsMissingScheme(t *testing.T) {
	_, err := protocol.Parse("127.0.0.1:5555")
	if uverr.KindOf(err) != uverr.KindInvalidParam {
		t.Fatalf("expected KindInvalidParam, got %v", uverr.KindOf(err))
	}
}

func TestParse_RejectsUnknownScheme(t *testing.T) {
	_, err := protocol.Parse("quic://127.0.0.1:443")
	if uverr.KindOf(err) != uverr.KindInvalidParam {
		t.Fatalf("expected KindInvalidParam, got %v", uverr.KindOf(err))
	}
}

func TestParse_RejectsEmptyLocation(t *testing.T) {
	_, err := protocol.Parse("tcp://")
	if uverr.KindOf(err) != uverr.KindInvalidParam {
		t.Fatalf("expected KindInvalidParam, got %v", uverr.KindOf(err))
	}
}

func TestNetworkProtocol_String(t *testing.T) {
	tests := []struct {
		n   protocol.NetworkProtocol
		exp string
	}{
		{protocol.NetworkTCP, "tcp"},
		{protocol.NetworkUDP, "udp"},
		{protocol.NetworkIPC, "ipc"},
		{protocol.NetworkInproc, "inproc"},
		{protocol.NetworkUnknown, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.n.String(); got != tc.exp {
			t.Errorf("String() = %q, want %q", got, tc.exp)
		}
	}
}
