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

package inproc_test

import (
	"sync"
	"testing"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/inproc"
)

func TestRegister_RejectsDuplicateName(t *testing.T) {
	name := "dup-name"
	h, err := inproc.Register(name)
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}
	defer h.Close()

	_, err = inproc.Register(name)
	if uverr.KindOf(err) != uverr.KindAlreadyExists {
		t.Fatalf("expected KindAlreadyExists, got %v", uverr.KindOf(err))
	}
}

func TestHub_ClientToServerDelivery(t *testing.T) {
	h, err := inproc.Register("echo")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Close()

	received := make(chan []byte, 1)
	h.BindServer(func(token string, payload []byte) { received <- payload })

	if err := h.SendToServer("client-a", []byte("hello")); err != nil {
		t.Fatalf("SendToServer: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	default:
		t.Fatal("expected synchronous delivery")
	}
}

func TestHub_SendToServerCarriesToken(t *testing.T) {
	h, err := inproc.Register("tokened")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Close()

	var gotToken string
	h.BindServer(func(token string, payload []byte) { gotToken = token })

	if err := h.SendToServer("peer-7", []byte("x")); err != nil {
		t.Fatalf("SendToServer: %v", err)
	}
	if gotToken != "peer-7" {
		t.Fatalf("gotToken = %q, want %q", gotToken, "peer-7")
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	h, err := inproc.Register("fanout")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Close()

	const n = 3
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		_, _, err := h.Attach(func(payload []byte) { wg.Done() })
		if err != nil {
			t.Fatalf("Attach: %v", err)
		}
	}

	h.Broadcast([]byte("news"))
	wg.Wait()
}

func TestHub_SendToClientTargetsOne(t *testing.T) {
	h, err := inproc.Register("targeted")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer h.Close()

	var gotA, gotB int
	tokenA, _, _ := h.Attach(func(payload []byte) { gotA++ })
	_, _, _ = h.Attach(func(payload []byte) { gotB++ })

	if err := h.SendToClient(tokenA, []byte("x")); err != nil {
		t.Fatalf("SendToClient: %v", err)
	}
	if gotA != 1 || gotB != 0 {
		t.Fatalf("gotA=%d gotB=%d, want 1,0", gotA, gotB)
	}
}

func TestHub_LookupAfterClose(t *testing.T) {
	h, err := inproc.Register("closing")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	h.Close()

	if _, ok := inproc.Lookup("closing"); ok {
		t.Fatal("expected hub to be removed from registry after Close")
	}
}

func TestHub_AttachAfterCloseFails(t *testing.T) {
	h, err := inproc.Register("attach-after-close")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	h.Close()

	_, _, err = h.Attach(func(payload []byte) {})
	if uverr.KindOf(err) != uverr.KindNotConnected {
		t.Fatalf("expected KindNotConnected, got %v", uverr.KindOf(err))
	}
}
