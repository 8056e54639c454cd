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

// Package bus is the hash-indexed router sitting behind one RPC endpoint:
// method name -> handler, msgid -> pending call, topic -> subscription.
// One Bus belongs to exactly one endpoint and is only ever touched from its
// reactor thread (spec.md §5), so none of its maps are guarded by a mutex.
package bus

import (
	"strings"
	"time"

	"github.com/nabbar/uvrpc/logger"
)

// Handler is a registered method callback (§4.5 Handlers index).
type Handler func(ctx interface{}, method string, params []byte)

// PendingCallback is invoked exactly once when a response, error, or
// cancellation resolves an outstanding call (§4.5 Pending index).
type PendingCallback func(result Resolution)

// Resolution carries the outcome delivered to a PendingCallback.
type Resolution struct {
	MsgID   uint32
	Result  []byte
	ErrCode uint16
	ErrMsg  string
	// Cancelled is set on teardown delivery (DrainPending), distinguishing a
	// CANCELLED resolution from a genuine RESPONSE or ERROR frame.
	Cancelled bool
}

// Subscription is a registered topic callback (§4.5 Subscriptions index).
type Subscription func(topic string, payload []byte)

type pendingEntry struct {
	cb          PendingCallback
	submittedAt time.Time
}

// Bus owns the three index tables for one endpoint.
type Bus struct {
	log logger.Logger

	handlers map[string]Handler
	pending  map[uint32]pendingEntry
	subs     map[string]Subscription
	subOrder []string // registration order, for wildcard evaluation (§4.5)

	stats statCounters
}

// New builds an empty Bus. A nil log falls back to logger.Default().
func New(log logger.Logger) *Bus {
	if log == nil {
		log = logger.Default()
	}
	return &Bus{
		log:      log,
		handlers: make(map[string]Handler),
		pending:  make(map[uint32]pendingEntry),
		subs:     make(map[string]Subscription),
	}
}

// RegisterHandler installs fn under method, replacing silently (§3
// "Re-registration of an existing method replaces silently").
func (b *Bus) RegisterHandler(method string, fn Handler) {
	b.handlers[method] = fn
}

// UnregisterHandler removes method's handler, if any.
func (b *Bus) UnregisterHandler(method string) {
	delete(b.handlers, method)
}

// Handler looks up method, reporting the routed-request statistic
// regardless of outcome.
func (b *Bus) Handler(method string) (Handler, bool) {
	b.stats.incRouted()
	fn, ok := b.handlers[method]
	if ok {
		b.stats.incHandlerHit()
	}
	return fn, ok
}

// AddPending records a callback awaiting msgid's resolution. Per §3
// "every successfully dispatched outbound request inserts exactly one
// record".
func (b *Bus) AddPending(msgid uint32, cb PendingCallback, now time.Time) {
	b.pending[msgid] = pendingEntry{cb: cb, submittedAt: now}
}

// RemovePending discards msgid's pending record without invoking its
// callback (used when send fails after the record was already inserted).
func (b *Bus) RemovePending(msgid uint32) {
	delete(b.pending, msgid)
}

// Resolve looks up msgid and, if present, removes and invokes its callback
// exactly once (§4.5 "deliver and remove in one step"). Absent ids are
// dropped and logged at debug.
func (b *Bus) Resolve(res Resolution) {
	b.stats.incRouted()
	entry, ok := b.pending[res.MsgID]
	if !ok {
		b.log.Debug("dropping response for unknown msgid", logger.Fields{"msgid": res.MsgID})
		return
	}
	delete(b.pending, res.MsgID)
	b.stats.incPendingHit()
	entry.cb(res)
}

// DrainPending resolves every outstanding pending record with a cancelled
// Resolution, for client teardown (§4.6 "Teardown ... calls every pending
// callback with cancellation").
func (b *Bus) DrainPending() {
	entries := b.pending
	b.pending = make(map[uint32]pendingEntry)
	for msgid, e := range entries {
		e.cb(Resolution{MsgID: msgid, Cancelled: true})
	}
}

// PendingSince returns the submission time of msgid's pending record, used
// by callers implementing their own per-call timeout.
func (b *Bus) PendingSince(msgid uint32) (time.Time, bool) {
	e, ok := b.pending[msgid]
	return e.submittedAt, ok
}

// Subscribe installs cb under topic, replacing any existing registration in
// place (registration order is preserved on replacement).
func (b *Bus) Subscribe(topic string, cb Subscription) {
	if _, exists := b.subs[topic]; !exists {
		b.subOrder = append(b.subOrder, topic)
	}
	b.subs[topic] = cb
}

// Unsubscribe removes topic's registration.
func (b *Bus) Unsubscribe(topic string) {
	if _, ok := b.subs[topic]; !ok {
		return
	}
	delete(b.subs, topic)
	for i, t := range b.subOrder {
		if t == topic {
			b.subOrder = append(b.subOrder[:i], b.subOrder[i+1:]...)
			break
		}
	}
}

// Dispatch delivers payload to subscribers of topic. An exact-match
// subscription wins outright; otherwise every `prefix*` wildcard whose
// prefix matches topic is evaluated in registration order and payload is
// delivered to each one (§4.5 "deliver to every match; return
// matched-count"). Returns the number of subscriptions invoked.
func (b *Bus) Dispatch(topic string, payload []byte) int {
	b.stats.incRouted()
	if cb, ok := b.subs[topic]; ok {
		b.stats.incSubscriptionHit()
		cb(topic, payload)
		return 1
	}

	matched := 0
	for _, pattern := range b.subOrder {
		prefix, ok := strings.CutSuffix(pattern, "*")
		if !ok {
			continue
		}
		if strings.HasPrefix(topic, prefix) {
			b.subs[pattern](topic, payload)
			matched++
		}
	}
	if matched > 0 {
		b.stats.incSubscriptionHit()
	}
	return matched
}

// Snapshot returns a read-only copy of the bus's statistics.
func (b *Bus) Snapshot() Stats {
	return b.stats.snapshot(len(b.handlers), len(b.pending), len(b.subs))
}

// Reset zeroes every counter without touching registered handlers,
// pending calls, or subscriptions.
func (b *Bus) Reset() {
	b.stats.reset()
}
