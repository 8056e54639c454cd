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

package socket

import (
	"context"
	"io"
	"net"
)

// Context is handed to a server's HandlerFunc for the lifetime of one
// callback invocation. Byte slices it exposes are borrowed for that
// invocation only (spec.md §3 ownership rules); a handler that needs to
// keep bytes past return must copy them.
type Context interface {
	context.Context
	io.Reader
	io.Writer

	// IsConnected reports whether the underlying peer is still attached.
	IsConnected() bool

	// LocalHost and RemoteHost describe the two ends of the connection.
	LocalHost() string
	RemoteHost() string

	// Token identifies this connection for a later targeted SendTo; it is
	// the "peer token" named throughout spec.md §3-§4.
	Token() string
}

// HandlerFunc processes one inbound payload delivered on a connection.
type HandlerFunc func(ctx Context)

// Handler is the stateful counterpart to HandlerFunc, for handlers that
// carry their own dependencies.
type Handler interface {
	Handle(ctx Context)
}

// FuncError receives one or more transport-layer errors. Errors already
// passed through ErrorFilter have expected noise removed.
type FuncError func(errs ...error)

// FuncInfo receives a connection lifecycle notification.
type FuncInfo func(local, remote net.Addr, state ConnState)

// FuncResponse receives a reader over one inbound payload; used with
// Client.Once for simple one-shot request/response interactions that don't
// need the full RPC engine's msgid correlation.
type FuncResponse func(r io.Reader)

// UpdateConn customizes a freshly accepted or dialed net.Conn before it is
// used (Nagle, keepalive, deadlines).
type UpdateConn func(conn net.Conn)

// Server is the polymorphic server-role transport contract: one interface,
// four implementations (socket/server/{tcp,udp,unix,inproc}).
type Server interface {
	// RegisterFuncError installs the error callback.
	RegisterFuncError(fct FuncError)
	// RegisterFuncInfo installs the connection lifecycle callback.
	RegisterFuncInfo(fct FuncInfo)

	// Listen binds and serves until ctx is done or an unrecoverable error
	// occurs. Blocks the calling goroutine, so callers run it on a goroutine
	// of its own. The handler and the error/info callbacks run on the
	// transport's goroutines (stream transports: one per connection; udp:
	// the read loop; inproc: the sending client's goroutine), not through
	// Reactor.Post.
	Listen(ctx context.Context) error

	// SendTo delivers payload to exactly one connection, identified by the
	// token its Context exposed.
	SendTo(token string, payload []byte) error

	// Send delivers payload to every active connection (spec.md §9's
	// multicast caveat: publishers rely on this, RPC servers should prefer
	// SendTo).
	Send(payload []byte) error

	// Shutdown closes every connection and releases the listening handle.
	Shutdown(ctx context.Context) error
}

// Client is the polymorphic client-role transport contract.
type Client interface {
	io.Reader
	io.Writer

	// RegisterFuncError installs the error callback.
	RegisterFuncError(fct FuncError)

	// Connect dials the configured address, subject to the configured
	// connect timeout.
	Connect(ctx context.Context) error

	// Once arms a one-shot handler for the next inbound payload.
	Once(fct FuncResponse)

	// Close disconnects and releases resources. Idempotent.
	Close() error
}
