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

// Package inproc binds the socket.Client contract to the in-memory
// transport fabric.
package inproc

import (
	"bytes"
	"context"
	"sync"

	uverr "github.com/nabbar/uvrpc/errors"
	libinp "github.com/nabbar/uvrpc/inproc"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
)

// Client is the inproc client-role transport.
type Client struct {
	name    string
	onError socket.FuncError

	mu     sync.Mutex
	hub    *libinp.Hub
	token  string
	detach func()
	once   socket.FuncResponse
}

// New builds an inproc client targeting the registry name cfg.Address.
func New(cfg config.Client) (socket.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{name: cfg.Address, onError: cfg.OnError}, nil
}

func (c *Client) RegisterFuncError(fct socket.FuncError) {
	c.mu.Lock()
	c.onError = fct
	c.mu.Unlock()
}

// Connect looks up the registry name and attaches this client to its hub.
func (c *Client) Connect(ctx context.Context) error {
	hub, ok := libinp.Lookup(c.name)
	if !ok {
		return uverr.Newf(uverr.KindNotConnected, "inproc name %q not registered", c.name)
	}

	token, detach, err := hub.Attach(func(payload []byte) {
		c.mu.Lock()
		fct := c.once
		c.once = nil
		c.mu.Unlock()
		if fct != nil {
			fct(bytes.NewReader(payload))
		}
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.hub = hub
	c.token = token
	c.detach = detach
	c.mu.Unlock()
	return nil
}

// Once arms a one-shot handler for the next inbound payload.
func (c *Client) Once(fct socket.FuncResponse) {
	c.mu.Lock()
	c.once = fct
	c.mu.Unlock()
}

// Read is not supported for the inproc transport: delivery is push-based
// via Once, since there is no underlying byte stream to pull from.
func (c *Client) Read(p []byte) (int, error) {
	return 0, uverr.New(uverr.KindInvalidParam, "inproc client does not support Read; use Once")
}

// Write sends payload to the bound server, tagged with this client's token.
func (c *Client) Write(p []byte) (int, error) {
	c.mu.Lock()
	hub, token := c.hub, c.token
	c.mu.Unlock()
	if hub == nil {
		return 0, uverr.New(uverr.KindNotConnected, "not connected")
	}
	if err := hub.SendToServer(token, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close detaches from the hub. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	detach := c.detach
	c.hub = nil
	c.detach = nil
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
	return nil
}
