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

// Package config holds the per-endpoint configuration structs consumed by
// socket/server and socket/client's protocol-specific constructors.
package config

import (
	"net"

	uverr "github.com/nabbar/uvrpc/errors"
	libptc "github.com/nabbar/uvrpc/network/protocol"
	"github.com/nabbar/uvrpc/socket"
)

// Server configures a server-role transport endpoint.
type Server struct {
	Network    libptc.NetworkProtocol
	Address    string
	Handler    socket.HandlerFunc
	OnError    socket.FuncError
	OnInfo     socket.FuncInfo
	UpdateConn socket.UpdateConn
}

// Validate checks the address is well-formed for Network and that a
// handler is present. TCP/UDP addresses are resolved with the standard
// library resolver so malformed host:port pairs fail fast, matching the
// teacher's socket/config package's own validation approach.
func (s Server) Validate() error {
	if s.Handler == nil {
		return uverr.New(uverr.KindInvalidParam, "server config: Handler is required")
	}
	return validateAddress(s.Network, s.Address)
}

// Client configures a client-role transport endpoint.
type Client struct {
	Network    libptc.NetworkProtocol
	Address    string
	TimeoutMS  int
	OnError    socket.FuncError
	UpdateConn socket.UpdateConn
}

// Validate checks the address is well-formed for Network.
func (c Client) Validate() error {
	return validateAddress(c.Network, c.Address)
}

func validateAddress(network libptc.NetworkProtocol, address string) error {
	if address == "" {
		return uverr.New(uverr.KindInvalidParam, "address is required")
	}
	switch network {
	case libptc.NetworkTCP:
		if _, err := net.ResolveTCPAddr("tcp", address); err != nil {
			return uverr.Wrap(uverr.KindInvalidParam, "invalid tcp address", err)
		}
	case libptc.NetworkUDP:
		if _, err := net.ResolveUDPAddr("udp", address); err != nil {
			return uverr.Wrap(uverr.KindInvalidParam, "invalid udp address", err)
		}
	case libptc.NetworkIPC:
		if _, err := net.ResolveUnixAddr("unix", address); err != nil {
			return uverr.Wrap(uverr.KindInvalidParam, "invalid ipc path", err)
		}
	case libptc.NetworkInproc:
		// a bare registry name, nothing more to validate
	default:
		return uverr.Newf(uverr.KindInvalidParam, "unknown network kind %v", network)
	}
	return nil
}
