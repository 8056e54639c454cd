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

// Package unix binds the shared stream engine to Unix-domain pipes. Spec.md
// §4.3 describes ipc as behaviourally identical to tcp; this package only
// supplies the listen/dial mechanics that differ (stale socket file
// removal, no Nagle).
package unix

import (
	"net"
	"os"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
	"github.com/nabbar/uvrpc/socket/internal/stream"
)

// New builds a unix-socket server. A pre-existing socket file at
// cfg.Address left behind by a crashed prior run is removed before
// binding.
func New(cfg config.Server) (socket.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	listenFn := func() (net.Listener, error) {
		if err := removeStale(cfg.Address); err != nil {
			return nil, err
		}
		return net.Listen("unix", cfg.Address)
	}
	return stream.NewServer(listenFn, cfg.Handler, cfg.OnError, cfg.OnInfo, cfg.UpdateConn), nil
}

func removeStale(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return uverr.Wrap(uverr.KindIO, "stat socket path failed", err)
	}
	if _, err := net.Dial("unix", path); err == nil {
		return uverr.Newf(uverr.KindAlreadyExists, "socket %q is already in use", path)
	}
	if err := os.Remove(path); err != nil {
		return uverr.Wrap(uverr.KindIO, "failed to remove stale socket file", err)
	}
	return nil
}
