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

// Package stream implements the shared server/client engine behind both the
// tcp and unix (ipc) transports, which spec.md §4.3 describes as
// byte-for-byte identical in behaviour save for their dial/listen
// mechanics. Kind-specific packages (socket/server/tcp, socket/server/unix,
// socket/client/tcp, socket/client/unix) supply the net.Listener/net.Conn
// plumbing and this package supplies framing, connection bookkeeping, and
// dispatch.
package stream

import (
	"bytes"
	"context"
	"net"
	"sync/atomic"

	uuid "github.com/hashicorp/go-uuid"
)

// frameContext implements socket.Context for one dispatched frame. The
// embedded context.Context is cancelled when the owning connection closes,
// so a handler's `<-ctx.Done()` observes teardown.
type frameContext struct {
	context.Context
	conn      net.Conn
	token     string
	payload   *bytes.Reader
	connected *int32
}

func newFrameContext(ctx context.Context, conn net.Conn, token string, payload []byte, connected *int32) *frameContext {
	return &frameContext{
		Context:   ctx,
		conn:      conn,
		token:     token,
		payload:   bytes.NewReader(payload),
		connected: connected,
	}
}

func (c *frameContext) Read(p []byte) (int, error)  { return c.payload.Read(p) }
func (c *frameContext) Write(p []byte) (int, error) { return c.conn.Write(p) }

func (c *frameContext) IsConnected() bool  { return atomic.LoadInt32(c.connected) == 1 }
func (c *frameContext) LocalHost() string  { return c.conn.LocalAddr().String() }
func (c *frameContext) RemoteHost() string { return c.conn.RemoteAddr().String() }
func (c *frameContext) Token() string      { return c.token }

func newToken() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return ""
	}
	return id
}
