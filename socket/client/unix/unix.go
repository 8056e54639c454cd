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

// Package unix binds the shared stream engine to a Unix-domain dialer.
package unix

import (
	"context"
	"net"
	"time"

	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
	"github.com/nabbar/uvrpc/socket/internal/stream"
)

// New builds a unix-socket client dialing cfg.Address.
func New(cfg config.Client) (socket.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var d net.Dialer
	dialFn := func(ctx context.Context) (net.Conn, error) {
		return d.DialContext(ctx, "unix", cfg.Address)
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	return stream.NewClient(dialFn, timeout, cfg.OnError, cfg.UpdateConn), nil
}
