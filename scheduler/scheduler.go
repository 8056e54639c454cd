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

// Package scheduler is the bounded-concurrency worker pool sitting beside
// the reactor (spec.md §4.8). Task bodies run on worker goroutines; every
// result is handed back to the owning Reactor through Reactor.Post, the
// module's one sanctioned cross-thread signalling primitive, so promise
// callbacks always run on the reactor thread like everything else.
package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/reactor"
)

// Task is one unit of work submitted to the pool.
type Task func(arg interface{}) (interface{}, error)

// Promise is invoked exactly once, on the reactor thread, with a task's
// outcome.
type Promise func(result interface{}, err error)

// Scheduler bounds how many Tasks run concurrently via a weighted
// semaphore sized to maxConcurrent.
type Scheduler struct {
	loop *reactor.Reactor
	sem  *semaphore.Weighted

	mu       sync.Mutex
	inFlight int

	stats statCounters
}

// New creates a Scheduler posting completions back to loop, bounding live
// tasks to maxConcurrent.
func New(loop *reactor.Reactor, maxConcurrent int) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Scheduler{loop: loop, sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Submit enqueues one task. promise fires on the reactor thread once fn
// returns, never synchronously from inside Submit.
func (s *Scheduler) Submit(fn Task, arg interface{}, promise Promise) {
	s.mu.Lock()
	s.inFlight++
	s.stats.incSubmitted()
	s.mu.Unlock()

	go func() {
		_ = s.sem.Acquire(context.Background(), 1)
		defer s.sem.Release(1)

		result, err := fn(arg)

		s.loop.Post(func() {
			s.mu.Lock()
			s.inFlight--
			s.stats.incCompleted()
			s.mu.Unlock()
			if promise != nil {
				promise(result, err)
			}
		})
	}()
}

// SubmitBatch enqueues every task in tasks, pairing each with the promise
// at the same index. len(tasks) must equal len(promises).
func (s *Scheduler) SubmitBatch(tasks []Task, args []interface{}, promises []Promise) error {
	if len(tasks) != len(promises) || len(tasks) != len(args) {
		return uverr.New(uverr.KindInvalidParam, "tasks, args and promises must have equal length")
	}
	for i := range tasks {
		s.Submit(tasks[i], args[i], promises[i])
	}
	return nil
}

// WaitAll spins the reactor-driven wait for every currently in-flight task
// to complete, or returns a partial-completion timeout (spec.md §4.8:
// "a timeout on wait_all returns with a partial-completion code but leaves
// in-flight tasks running to completion").
func (s *Scheduler) WaitAll(timeout time.Duration) error {
	deadline := time.After(timeout)
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for {
		s.mu.Lock()
		n := s.inFlight
		s.mu.Unlock()
		if n == 0 {
			return nil
		}
		select {
		case <-deadline:
			return uverr.New(uverr.KindTimeout, "wait_all timed out with tasks still in flight")
		case <-tick.C:
		}
	}
}

// SubmitAndWait is the blocking convenience wrapper: submit one task and
// wait synchronously for its own promise, not the whole pool's.
func (s *Scheduler) SubmitAndWait(fn Task, arg interface{}, timeout time.Duration) (interface{}, error) {
	done := make(chan struct{})
	var result interface{}
	var taskErr error

	s.Submit(fn, arg, func(r interface{}, err error) {
		result, taskErr = r, err
		close(done)
	})

	select {
	case <-done:
		return result, taskErr
	case <-time.After(timeout):
		return nil, uverr.New(uverr.KindTimeout, "submit_and_wait timed out")
	}
}

// Snapshot reports pool statistics.
func (s *Scheduler) Snapshot() Stats {
	s.mu.Lock()
	inFlight := s.inFlight
	s.mu.Unlock()
	return s.stats.snapshot(inFlight)
}
