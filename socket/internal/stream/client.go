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
	"bytes"
	"context"
	"net"
	"sync"
	"time"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/framing"
	"github.com/nabbar/uvrpc/socket"
)

// connState mirrors the idle -> connecting -> connected/timed-out -> closing
// -> closed state machine from spec.md §4.3.
type connState int32

const (
	stateIdle connState = iota
	stateConnecting
	stateConnected
	stateTimedOut
	stateClosing
	stateClosed
)

// Client is the shared tcp/unix client-role engine.
type Client struct {
	dialFn     func(ctx context.Context) (net.Conn, error)
	timeout    time.Duration
	onError    socket.FuncError
	updateConn socket.UpdateConn

	mu    sync.Mutex
	conn  net.Conn
	state connState
	once  socket.FuncResponse
	read  chan struct{}
}

// NewClient builds a Client. dialFn performs the protocol-specific dial
// (a net.Dialer's DialContext on "tcp" or "unix") honoring ctx's deadline.
func NewClient(dialFn func(ctx context.Context) (net.Conn, error), timeout time.Duration, onError socket.FuncError, updateConn socket.UpdateConn) *Client {
	return &Client{
		dialFn:     dialFn,
		timeout:    timeout,
		onError:    onError,
		updateConn: updateConn,
		state:      stateIdle,
	}
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

// Connect dials the configured endpoint, racing the configured timeout.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == stateConnected || c.state == stateConnecting {
		c.mu.Unlock()
		return uverr.New(uverr.KindAlreadyExists, "already connected")
	}
	c.state = stateConnecting
	c.mu.Unlock()

	dialCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialFn(dialCtx)
	if err != nil {
		c.mu.Lock()
		timedOut := dialCtx.Err() != nil
		if timedOut {
			c.state = stateTimedOut
		} else {
			c.state = stateIdle
		}
		c.mu.Unlock()
		if timedOut {
			return uverr.Wrap(uverr.KindTimeout, "dial failed", err)
		}
		return uverr.Wrap(uverr.KindNotConnected, "dial failed", err)
	}
	if c.updateConn != nil {
		c.updateConn(conn)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = stateConnected
	c.read = make(chan struct{})
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn net.Conn) {
	dec := framing.NewDecoder()
	buf := make([]byte, socket.DefaultBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			c.reportError(uverr.Wrap(uverr.KindIO, "connection closed", err))
			c.teardown()
			return
		}
		frames, ferr := dec.Feed(buf[:n])
		for _, payload := range frames {
			c.dispatch(payload)
		}
		if ferr != nil {
			c.reportError(uverr.Wrap(uverr.KindFraming, "oversized frame, closing", ferr))
			c.teardown()
			return
		}
	}
}

func (c *Client) dispatch(payload []byte) {
	c.mu.Lock()
	fct := c.once
	c.once = nil
	c.mu.Unlock()
	if fct != nil {
		fct(bytes.NewReader(payload))
	}
}

func (c *Client) teardown() {
	c.mu.Lock()
	c.state = stateClosed
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Once arms a one-shot handler for the next inbound payload.
func (c *Client) Once(fct socket.FuncResponse) {
	c.mu.Lock()
	c.once = fct
	c.mu.Unlock()
}

// Read satisfies io.Reader by reading framed payload bytes directly off the
// wire; callers mixing Read with Once should prefer one or the other.
func (c *Client) Read(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, uverr.New(uverr.KindNotConnected, "not connected")
	}
	return conn.Read(p)
}

// Write frames payload and sends it to the server.
func (c *Client) Write(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()
	if state != stateConnected || conn == nil {
		return 0, uverr.New(uverr.KindNotConnected, "not connected")
	}
	framed, err := framing.Encode(p)
	if err != nil {
		return 0, err
	}
	if _, err := conn.Write(framed); err != nil {
		return 0, uverr.Wrap(uverr.KindIO, "send failed", err)
	}
	return len(p), nil
}

// Close disconnects. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == stateClosed || c.state == stateClosing {
		c.mu.Unlock()
		return nil
	}
	c.state = stateClosing
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}

	c.mu.Lock()
	c.state = stateClosed
	c.mu.Unlock()
	return err
}
