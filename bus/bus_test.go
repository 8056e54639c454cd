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

package bus_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/uvrpc/bus"
)

func TestBus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bus suite")
}

var _ = Describe("Bus handlers", func() {
	var b *bus.Bus

	BeforeEach(func() {
		b = bus.New(nil)
	})

	It("routes to a registered method", func() {
		var got string
		b.RegisterHandler("Add", func(ctx interface{}, method string, params []byte) { got = method })
		fn, ok := b.Handler("Add")
		Expect(ok).To(BeTrue())
		fn(nil, "Add", nil)
		Expect(got).To(Equal("Add"))
	})

	It("reports absent methods", func() {
		_, ok := b.Handler("Missing")
		Expect(ok).To(BeFalse())
	})

	It("replaces a handler silently on re-registration", func() {
		calls := 0
		b.RegisterHandler("Ping", func(ctx interface{}, method string, params []byte) { calls = 1 })
		b.RegisterHandler("Ping", func(ctx interface{}, method string, params []byte) { calls = 2 })
		fn, _ := b.Handler("Ping")
		fn(nil, "Ping", nil)
		Expect(calls).To(Equal(2))
	})
})

var _ = Describe("Bus pending calls", func() {
	var b *bus.Bus

	BeforeEach(func() {
		b = bus.New(nil)
	})

	It("delivers a resolution exactly once", func() {
		calls := 0
		b.AddPending(7, func(r bus.Resolution) { calls++ }, time.Now())
		b.Resolve(bus.Resolution{MsgID: 7, Result: []byte("ok")})
		Expect(calls).To(Equal(1))

		// second resolve for the same msgid is a no-op: the record was removed
		b.Resolve(bus.Resolution{MsgID: 7})
		Expect(calls).To(Equal(1))
	})

	It("drops resolutions for unknown msgids without panicking", func() {
		Expect(func() { b.Resolve(bus.Resolution{MsgID: 99}) }).ToNot(Panic())
	})

	It("drains every pending call with cancellation on teardown", func() {
		var got []bus.Resolution
		b.AddPending(1, func(r bus.Resolution) { got = append(got, r) }, time.Now())
		b.AddPending(2, func(r bus.Resolution) { got = append(got, r) }, time.Now())
		b.DrainPending()
		Expect(got).To(HaveLen(2))
		for _, r := range got {
			Expect(r.Cancelled).To(BeTrue())
		}
	})
})

var _ = Describe("Bus subscriptions", func() {
	var b *bus.Bus

	BeforeEach(func() {
		b = bus.New(nil)
	})

	It("prefers an exact match over any wildcard", func() {
		var exact, wild bool
		b.Subscribe("orders.new", func(topic string, payload []byte) { exact = true })
		b.Subscribe("orders.*", func(topic string, payload []byte) { wild = true })
		n := b.Dispatch("orders.new", []byte("x"))
		Expect(n).To(Equal(1))
		Expect(exact).To(BeTrue())
		Expect(wild).To(BeFalse())
	})

	It("delivers to every matching wildcard when there is no exact match", func() {
		var a, c int
		b.Subscribe("orders.*", func(topic string, payload []byte) { a++ })
		b.Subscribe("orders.new.*", func(topic string, payload []byte) { c++ })
		n := b.Dispatch("orders.new.created", []byte("x"))
		Expect(n).To(Equal(2))
		Expect(a).To(Equal(1))
		Expect(c).To(Equal(1))
	})

	It("reports zero matches for an unsubscribed topic", func() {
		Expect(b.Dispatch("nothing.here", nil)).To(Equal(0))
	})

	It("stops delivering after Unsubscribe", func() {
		calls := 0
		b.Subscribe("x", func(topic string, payload []byte) { calls++ })
		b.Unsubscribe("x")
		b.Dispatch("x", nil)
		Expect(calls).To(Equal(0))
	})
})

var _ = Describe("Bus statistics", func() {
	It("tracks hits per index and supports reset", func() {
		b := bus.New(nil)
		b.RegisterHandler("M", func(ctx interface{}, method string, params []byte) {})
		b.Handler("M")
		b.Handler("missing")

		snap := b.Snapshot()
		Expect(snap.Routed).To(Equal(uint64(2)))
		Expect(snap.HandlerHits).To(Equal(uint64(1)))
		Expect(snap.HandlerCount).To(Equal(1))

		b.Reset()
		snap = b.Snapshot()
		Expect(snap.Routed).To(Equal(uint64(0)))
		Expect(snap.HandlerCount).To(Equal(1)) // reset clears counters, not registrations
	})
})
