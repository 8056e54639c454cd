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

package bus

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// routedTotal is a process-wide counter of every Dispatch/Resolve/Handler
// lookup across all Bus instances, exported for a caller's embedded
// prometheus registry. Per-Bus figures live in Stats, returned by Snapshot.
var routedTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "uvrpc",
	Subsystem: "bus",
	Name:      "routed_total",
	Help:      "Total lookups performed across all bus indexes.",
})

func init() {
	prometheus.MustRegister(routedTotal)
}

// Stats is a point-in-time snapshot of one Bus's routing counters and
// index populations (§4.5 "Expose a read snapshot and a reset"). It is
// plain data, safe to copy, log, or encode.
type Stats struct {
	Routed            uint64
	HandlerHits       uint64
	PendingHits       uint64
	SubscriptionHits  uint64
	HandlerCount      int
	PendingCount      int
	SubscriptionCount int
}

// statCounters holds the live atomics a Bus mutates; kept separate from
// Stats so Snapshot can return a plain value without go vet flagging a
// copied sync/atomic field.
type statCounters struct {
	routed     atomic.Uint64
	handlerHit atomic.Uint64
	pendingHit atomic.Uint64
	subHit     atomic.Uint64
}

func (s *statCounters) incRouted() {
	s.routed.Add(1)
	routedTotal.Inc()
}

func (s *statCounters) incHandlerHit()      { s.handlerHit.Add(1) }
func (s *statCounters) incPendingHit()      { s.pendingHit.Add(1) }
func (s *statCounters) incSubscriptionHit() { s.subHit.Add(1) }

func (s *statCounters) snapshot(handlers, pending, subs int) Stats {
	return Stats{
		Routed:            s.routed.Load(),
		HandlerHits:       s.handlerHit.Load(),
		PendingHits:       s.pendingHit.Load(),
		SubscriptionHits:  s.subHit.Load(),
		HandlerCount:      handlers,
		PendingCount:      pending,
		SubscriptionCount: subs,
	}
}

func (s *statCounters) reset() {
	s.routed.Store(0)
	s.handlerHit.Store(0)
	s.pendingHit.Store(0)
	s.subHit.Store(0)
}
