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

// Package msgid allocates per-client monotonic 32-bit request identifiers.
// One allocator belongs to exactly one client endpoint on exactly one
// reactor thread, so it needs no locking.
package msgid

// Allocator hands out strictly increasing uint32 message ids that wrap to 1
// after 2^32-1, never handing out 0 (0 is reserved to mean "no id").
type Allocator struct {
	next uint32
}

// New creates an allocator. start=0 means "auto" (begin at 1); a non-zero
// start lets a gateway partition the id space across multiplexed upstreams.
func New(start uint32) *Allocator {
	if start == 0 {
		start = 1
	}
	return &Allocator{next: start}
}

// Next returns the next id and advances the counter, wrapping 2^32-1 -> 1
// (never back to 0).
func (a *Allocator) Next() uint32 {
	id := a.next
	if a.next == ^uint32(0) {
		a.next = 1
	} else {
		a.next++
	}
	return id
}
