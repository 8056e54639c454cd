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

// Package inproc is the process-wide name registry backing the INPROC
// transport: a single map from registry name to Hub, guarded by one short
// critical section. This is documented as the sole cross-thread shared
// mutable state in the whole module (spec.md §5) - every other package is
// reactor-local and unguarded.
package inproc

import (
	"sync"

	uverr "github.com/nabbar/uvrpc/errors"
)

var (
	mu   sync.Mutex
	hubs = make(map[string]*Hub)
)

// Register installs a new Hub under name. Fails with ALREADY_EXISTS if the
// name is taken - spec.md §3 "At most one server endpoint per name".
func Register(name string) (*Hub, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := hubs[name]; ok {
		return nil, uverr.Newf(uverr.KindAlreadyExists, "inproc name %q already registered", name)
	}
	h := newHub(name)
	hubs[name] = h
	return h, nil
}

// Lookup finds the Hub registered under name, for a connecting client.
func Lookup(name string) (*Hub, bool) {
	mu.Lock()
	defer mu.Unlock()
	h, ok := hubs[name]
	return h, ok
}

// Unregister removes name from the registry. Called once the server that
// owns it is freed (spec.md §3 "Registry entries are freed only when their
// server is freed").
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(hubs, name)
}
