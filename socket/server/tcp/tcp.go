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

// Package tcp binds the shared stream engine to real TCP sockets, forcing
// TCP_NODELAY (Nagle disabled) on every accepted connection per spec.md
// §4.3.
package tcp

import (
	"net"

	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
	"github.com/nabbar/uvrpc/socket/internal/stream"
)

// New builds a tcp server. Its Listen call binds cfg.Address. The accept
// backlog is the OS default; spec.md §4.3 names 128 as the tuning target for
// deployments that need it, via net.ListenConfig or the platform's
// somaxconn, not a knob exposed here.

func New(cfg config.Server) (socket.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	updateConn := composeUpdateConn(cfg.UpdateConn)
	listenFn := func() (net.Listener, error) {
		return net.Listen("tcp", cfg.Address)
	}
	return stream.NewServer(listenFn, cfg.Handler, cfg.OnError, cfg.OnInfo, updateConn), nil
}

func composeUpdateConn(user socket.UpdateConn) socket.UpdateConn {
	return func(conn net.Conn) {
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		if user != nil {
			user(conn)
		}
	}
}
