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

package msgid_test

import (
	"testing"

	"github.com/nabbar/uvrpc/msgid"
)

func TestNew_AutoStartsAtOne(t *testing.T) {
	a := msgid.New(0)
	if got := a.Next(); got != 1 {
		t.Fatalf("first id = %d, want 1", got)
	}
	if got := a.Next(); got != 2 {
		t.Fatalf("second id = %d, want 2", got)
	}
}

func TestNew_HonoursOffset(t *testing.T) {
	a := msgid.New(1000)
	if got := a.Next(); got != 1000 {
		t.Fatalf("first id = %d, want 1000", got)
	}
	if got := a.Next(); got != 1001 {
		t.Fatalf("second id = %d, want 1001", got)
	}
}

func TestNext_WrapsToOneNotZero(t *testing.T) {
	a := msgid.New(^uint32(0))
	if got := a.Next(); got != ^uint32(0) {
		t.Fatalf("first id = %d, want max uint32", got)
	}
	if got := a.Next(); got != 1 {
		t.Fatalf("id after wraparound = %d, want 1", got)
	}
}

func TestNext_StrictlyIncreasingBeforeWrap(t *testing.T) {
	a := msgid.New(1)
	prev := a.Next()
	for i := 0; i < 1000; i++ {
		cur := a.Next()
		if cur != prev+1 {
			t.Fatalf("ids not strictly increasing: %d then %d", prev, cur)
		}
		prev = cur
	}
}
