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

package stream_test

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/framing"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/internal/stream"
)

func TestStream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "stream suite")
}

// getFreePort binds a throwaway listener on 127.0.0.1:0, reads back the
// OS-assigned port, and closes it so a real Listen call can immediately
// reuse the address.
func getFreePort() int {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	ln, err := net.ListenTCP("tcp", addr)
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func waitForDial(addr string) {
	Eventually(func() error {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return err
		}
		return conn.Close()
	}, time.Second, 10*time.Millisecond).Should(Succeed())
}

var _ = Describe("Client.Connect dial failures", func() {
	It("surfaces a watchdog-timeout dial as KindTimeout", func() {
		dialFn := func(ctx context.Context) (net.Conn, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		c := stream.NewClient(dialFn, 20*time.Millisecond, nil, nil)

		err := c.Connect(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(uverr.KindOf(err)).To(Equal(uverr.KindTimeout))
	})

	It("surfaces an immediate refusal as KindNotConnected", func() {
		dialFn := func(ctx context.Context) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}
		c := stream.NewClient(dialFn, time.Second, nil, nil)

		err := c.Connect(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(uverr.KindOf(err)).To(Equal(uverr.KindNotConnected))
	})
})

var _ = Describe("Server/Client round trip over real TCP", func() {
	It("delivers a framed echo from server back to client", func() {
		port := getFreePort()
		addr := "127.0.0.1:" + strconv.Itoa(port)

		handler := func(ctx socket.Context) {
			buf := make([]byte, 4096)
			n, _ := ctx.Read(buf)
			_, _ = ctx.Write(buf[:n])
		}

		srv := stream.NewServer(func() (net.Listener, error) {
			return net.Listen("tcp", addr)
		}, handler, nil, nil, nil)

		go func() { _ = srv.Listen(context.Background()) }()
		defer srv.Shutdown(context.Background())

		waitForDial(addr)

		cli := stream.NewClient(func(ctx context.Context) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", addr)
		}, time.Second, nil, nil)

		Expect(cli.Connect(context.Background())).To(Succeed())
		defer cli.Close()

		gotCh := make(chan []byte, 1)
		cli.Once(func(r io.Reader) {
			b, err := io.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			gotCh <- b
		})

		_, err := cli.Write([]byte("hello stream"))
		Expect(err).NotTo(HaveOccurred())

		var got []byte
		Eventually(gotCh, time.Second).Should(Receive(&got))
		Expect(got).To(Equal([]byte("hello stream")))
	})

	It("reassembles a frame delivered across split writes", func() {
		port := getFreePort()
		addr := "127.0.0.1:" + strconv.Itoa(port)

		payloads := make(chan []byte, 4)
		handler := func(ctx socket.Context) {
			buf := make([]byte, 4096)
			n, _ := ctx.Read(buf)
			out := make([]byte, n)
			copy(out, buf[:n])
			payloads <- out
		}

		srv := stream.NewServer(func() (net.Listener, error) {
			return net.Listen("tcp", addr)
		}, handler, nil, nil, nil)

		go func() { _ = srv.Listen(context.Background()) }()
		defer srv.Shutdown(context.Background())

		waitForDial(addr)

		conn, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		framed, err := framing.Encode([]byte("reassembled across reads"))
		Expect(err).NotTo(HaveOccurred())

		mid := len(framed) / 2
		_, err = conn.Write(framed[:mid])
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(20 * time.Millisecond)
		_, err = conn.Write(framed[mid:])
		Expect(err).NotTo(HaveOccurred())

		var got []byte
		Eventually(payloads, time.Second).Should(Receive(&got))
		Expect(got).To(Equal([]byte("reassembled across reads")))
	})
})
