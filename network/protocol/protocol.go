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

// Package protocol names the four interchangeable transport kinds and
// parses the `scheme://` addresses that select between them.
package protocol

import (
	"strings"

	uverr "github.com/nabbar/uvrpc/errors"
)

// NetworkProtocol is the transport kind, auto-derived from an address's
// scheme: tcp, udp, ipc (a Unix-domain pipe) or inproc (the in-memory
// fabric).
type NetworkProtocol uint8

const (
	NetworkUnknown NetworkProtocol = iota
	NetworkTCP
	NetworkUDP
	NetworkIPC
	NetworkInproc
)

func (n NetworkProtocol) String() string {
	switch n {
	case NetworkTCP:
		return "tcp"
	case NetworkUDP:
		return "udp"
	case NetworkIPC:
		return "ipc"
	case NetworkInproc:
		return "inproc"
	default:
		return "unknown"
	}
}

// Addr is a parsed transport endpoint address: its kind and the
// kind-specific location (host:port for tcp/udp, filesystem path for ipc,
// registry name for inproc).
type Addr struct {
	Network  NetworkProtocol
	Location string
	Raw      string
}

// Parse splits a `scheme://location` URI into its NetworkProtocol and
// location, per spec.md §6. A missing or unrecognised scheme is an
// INVALID_PARAM error.
func Parse(uri string) (Addr, error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return Addr{}, uverr.Newf(uverr.KindInvalidParam, "address %q is missing a scheme", uri)
	}
	scheme, location := uri[:idx], uri[idx+3:]
	if location == "" {
		return Addr{}, uverr.Newf(uverr.KindInvalidParam, "address %q is missing a location", uri)
	}

	var n NetworkProtocol
	switch scheme {
	case "tcp":
		n = NetworkTCP
	case "udp":
		n = NetworkUDP
	case "ipc":
		n = NetworkIPC
	case "inproc":
		n = NetworkInproc
	default:
		return Addr{}, uverr.Newf(uverr.KindInvalidParam, "address %q has unknown scheme %q", uri, scheme)
	}

	return Addr{Network: n, Location: location, Raw: uri}, nil
}
