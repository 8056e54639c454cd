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
	"bytes"
	"context"
	"net"
)

// datagramContext implements socket.Context for one received datagram. A
// peer is always considered connected: UDP has no connection state to lose,
// only a peer table entry that can go stale.
type datagramContext struct {
	context.Context
	conn    *net.UDPConn
	remote  *net.UDPAddr
	payload *bytes.Reader
}

func newDatagramContext(ctx context.Context, conn *net.UDPConn, remote *net.UDPAddr, payload []byte) *datagramContext {
	return &datagramContext{Context: ctx, conn: conn, remote: remote, payload: bytes.NewReader(payload)}
}

func (c *datagramContext) Read(p []byte) (int, error) { return c.payload.Read(p) }

func (c *datagramContext) Write(p []byte) (int, error) {
	return c.conn.WriteToUDP(p, c.remote)
}

func (c *datagramContext) IsConnected() bool  { return true }
func (c *datagramContext) LocalHost() string  { return c.conn.LocalAddr().String() }
func (c *datagramContext) RemoteHost() string { return c.remote.String() }
func (c *datagramContext) Token() string      { return c.remote.String() }
