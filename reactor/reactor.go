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

// Package reactor models the single-threaded libuv-style event loop every
// transport, bus and pending-call table in this module is bound to. Every
// entity created against a *Reactor must only be touched from the
// goroutine running that Reactor's Run loop, with the sole sanctioned
// exception being Post, the cross-thread wake-up primitive the async
// scheduler (see package scheduler) and the config file watcher
// (config.Watch) use to hand work back to the owning loop.
package reactor

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
)

// Reactor is a handle to a single event loop instance. All core entities
// (transports, buses, pending tables) are bound to exactly one Reactor for
// their lifetime.
type Reactor struct {
	tasks   chan func()
	running int32
	ownerID atomic.Int64 // goroutine id currently draining tasks, 0 when idle
}

// New creates a Reactor with the given task-queue depth. A depth of 0 uses
// a default of 1024; callers under heavy fan-in (many scheduler workers)
// should size this generously, since Post blocks the calling goroutine
// once the queue is full.
func New(queueDepth int) *Reactor {
	if queueDepth <= 0 {
		queueDepth = 1024
	}
	return &Reactor{tasks: make(chan func(), queueDepth)}
}

// Post schedules fn to run on the reactor thread. Safe to call from any
// goroutine, including scheduler worker threads and the inproc registry's
// critical section. This is the single cross-thread signalling primitive
// named in spec.md §5.
func (r *Reactor) Post(fn func()) {
	r.tasks <- fn
}

// Run drains the task queue on the calling goroutine until ctx is done.
// The calling goroutine becomes "the reactor thread" for as long as Run is
// executing; OnLoop reports true only for code running inside a task this
// call dispatches.
func (r *Reactor) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return fmt.Errorf("reactor: Run called while already running")
	}
	defer atomic.StoreInt32(&r.running, 0)

	id := goroutineID()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.tasks:
			r.ownerID.Store(id)
			fn()
			r.ownerID.Store(0)
		}
	}
}

// OnLoop reports whether the calling goroutine is the one currently
// dispatching a task for this Reactor. User callbacks invoked synchronously
// from inside Run satisfy this; a worker-pool goroutine calling directly
// into reactor-owned state instead of going through Post does not.
func (r *Reactor) OnLoop() bool {
	return r.ownerID.Load() == goroutineID()
}

// AssertOnLoop panics with a diagnostic if called off the reactor thread -
// per spec.md §7, wrong-thread access is a fatal programmer error, not a
// recoverable one. No package in this module calls it: the transports, the
// bus and the pending table do not check the calling goroutine.
func (r *Reactor) AssertOnLoop(where string) {
	if !r.OnLoop() {
		panic(fmt.Sprintf("uvrpc: %s called off the reactor thread", where))
	}
}

// goroutineID extracts the calling goroutine's runtime id by parsing the
// header line of runtime.Stack. The standard library deliberately exposes
// no stable API for this; every examined dependency in the pack is equally
// silent on it, so this one helper stays on the standard library rather
// than reach for an unrelated third-party package to do something the
// language intentionally doesn't expose.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := strings.Fields(string(buf[:n]))
	if len(field) < 2 {
		return -1
	}
	id, err := strconv.ParseInt(field[1], 10, 64)
	if err != nil {
		return -1
	}
	return id
}
