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

package scheduler

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var inFlightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "uvrpc",
	Subsystem: "scheduler",
	Name:      "tasks_in_flight",
	Help:      "Tasks submitted but not yet resolved, summed across all schedulers.",
})

func init() {
	prometheus.MustRegister(inFlightGauge)
}

// Stats is a point-in-time snapshot of one Scheduler's counters. It is
// plain data, safe to copy, log, or encode.
type Stats struct {
	Submitted uint64
	Completed uint64
	InFlight  int
}

// statCounters holds the live atomics a Scheduler mutates; kept separate
// from Stats so Snapshot can return a plain value without go vet flagging
// a copied sync/atomic field.
type statCounters struct {
	submitted atomic.Uint64
	completed atomic.Uint64
}

func (s *statCounters) incSubmitted() {
	s.submitted.Add(1)
	inFlightGauge.Inc()
}

func (s *statCounters) incCompleted() {
	s.completed.Add(1)
	inFlightGauge.Dec()
}

func (s *statCounters) snapshot(inFlight int) Stats {
	return Stats{
		Submitted: s.submitted.Load(),
		Completed: s.completed.Load(),
		InFlight:  inFlight,
	}
}
