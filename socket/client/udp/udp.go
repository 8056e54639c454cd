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

// Package udp is the datagram client: no framing, no persistent connection
// state beyond the kernel socket itself. Connect sends the sentinel
// registration datagram so a udp server adds this client to its peer table.
package udp

import (
	"bytes"
	"context"
	"net"
	"sync"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
	"github.com/nabbar/uvrpc/socket/server/udp"
)

// Client is the udp client-role transport.
type Client struct {
	address string
	onError socket.FuncError

	mu   sync.Mutex
	conn *net.UDPConn
	once socket.FuncResponse
}

// New builds a udp client targeting cfg.Address.
func New(cfg config.Client) (socket.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{address: cfg.Address, onError: cfg.OnError}, nil
}

func (c *Client) RegisterFuncError(fct socket.FuncError) {
	c.mu.Lock()
	c.onError = fct
	c.mu.Unlock()
}

func (c *Client) reportError(err error) {
	c.mu.Lock()
	fct := c.onError
	c.mu.Unlock()
	if fct == nil {
		return
	}
	if fe := socket.ErrorFilter(err); fe != nil {
		fct(fe)
	}
}

// Connect resolves the target and sends the sentinel registration
// datagram described in spec.md §4.7.
func (c *Client) Connect(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", c.address)
	if err != nil {
		return uverr.Wrap(uverr.KindInvalidParam, "resolve failed", err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return uverr.Wrap(uverr.KindNotConnected, "dial failed", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if _, err := conn.Write(udp.Sentinel); err != nil {
		return uverr.Wrap(uverr.KindIO, "sentinel registration failed", err)
	}

	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn *net.UDPConn) {
	buf := make([]byte, socket.DefaultBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			c.reportError(uverr.Wrap(uverr.KindIO, "read failed", err))
			return
		}
		if n == 0 {
			continue
		}
		c.mu.Lock()
		fct := c.once
		c.once = nil
		c.mu.Unlock()
		if fct != nil {
			fct(bytes.NewReader(buf[:n]))
		}
	}
}

// Once arms a one-shot handler for the next inbound datagram.
func (c *Client) Once(fct socket.FuncResponse) {
	c.mu.Lock()
	c.once = fct
	c.mu.Unlock()
}

// Read reads one datagram's worth of bytes directly off the socket.
func (c *Client) Read(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, uverr.New(uverr.KindNotConnected, "not connected")
	}
	return conn.Read(p)
}

// Write sends payload as a single datagram, unframed.
func (c *Client) Write(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, uverr.New(uverr.KindNotConnected, "not connected")
	}
	n, err := conn.Write(p)
	if err != nil {
		return n, uverr.Wrap(uverr.KindIO, "send failed", err)
	}
	return n, nil
}

// Close releases the socket. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
