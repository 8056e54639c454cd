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

package inproc

import (
	"sync"

	uuid "github.com/hashicorp/go-uuid"

	uverr "github.com/nabbar/uvrpc/errors"
)

// Receiver is a peer's inbound-payload callback. The transport passes the
// payload slice by reference (spec.md §4.3 "no copying of bytes occurs on
// send"); a handler that needs to retain bytes must copy them.
type Receiver func(payload []byte)

// ServerReceiver is the server-side inbound-payload callback; it additionally
// carries the sending client's token so a server can address its reply to
// that same client via SendToClient.
type ServerReceiver func(token string, payload []byte)

// Hub is the rendezvous point for one INPROC registry name: one server and
// any number of attached clients. Every mutation and every Send acquires
// hub.mu, a short critical section, because sends may originate from any
// goroutine (spec.md §4.3 "because inproc crosses thread boundaries").
// Delivery therefore may run on the sender's goroutine, not the receiver's
// reactor thread - callers must either confine inproc use to one thread or
// make their receive callbacks reentrant-safe.
type Hub struct {
	name string

	mu         sync.Mutex
	serverRecv ServerReceiver
	clients    map[string]Receiver
	closed     bool
}

func newHub(name string) *Hub {
	return &Hub{name: name, clients: make(map[string]Receiver)}
}

// BindServer installs the server's receive callback, invoked for every
// client->server Send.
func (h *Hub) BindServer(recv ServerReceiver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.serverRecv = recv
}

// Attach registers a client's receive callback and returns its token plus a
// detach function. Fails with NOT_CONNECTED if the hub's server has already
// closed.
func (h *Hub) Attach(recv Receiver) (token string, detach func(), err error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", nil, uverr.Wrap(uverr.KindNoMemory, "generate inproc client token", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", nil, uverr.New(uverr.KindNotConnected, "inproc server closed")
	}
	h.clients[id] = recv
	return id, func() { h.detach(id) }, nil
}

func (h *Hub) detach(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, token)
}

// SendToServer delivers payload to the bound server, synchronously, on the
// calling goroutine, tagged with the sending client's token so the server
// can reply via SendToClient.
func (h *Hub) SendToServer(token string, payload []byte) error {
	h.mu.Lock()
	recv := h.serverRecv
	closed := h.closed
	h.mu.Unlock()

	if closed || recv == nil {
		return uverr.New(uverr.KindNotConnected, "inproc server not listening")
	}
	recv(token, payload)
	return nil
}

// SendToClient delivers payload to exactly one attached client (server-side
// targeted send, spec.md §4.3 send_to).
func (h *Hub) SendToClient(token string, payload []byte) error {
	h.mu.Lock()
	recv, ok := h.clients[token]
	h.mu.Unlock()

	if !ok {
		return uverr.Newf(uverr.KindNotFound, "inproc client %q not attached", token)
	}
	recv(payload)
	return nil
}

// Broadcast delivers payload to every attached client (publisher multicast
// and spec.md §9's "send iterates the connection set" RPC-server caveat).
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	targets := make([]Receiver, 0, len(h.clients))
	for _, recv := range h.clients {
		targets = append(targets, recv)
	}
	h.mu.Unlock()

	for _, recv := range targets {
		recv(payload)
	}
}

// Clients returns the currently attached client tokens, for FIN delivery on
// server close (spec.md §8 invariant 5).
func (h *Hub) Clients() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	tokens := make([]string, 0, len(h.clients))
	for t := range h.clients {
		tokens = append(tokens, t)
	}
	return tokens
}

// Close marks the hub closed and removes it from the process registry.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.serverRecv = nil
	h.clients = make(map[string]Receiver)
	h.mu.Unlock()
	Unregister(h.name)
}
