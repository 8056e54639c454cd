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

package rpc_test

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uverr "github.com/nabbar/uvrpc/errors"
	libptc "github.com/nabbar/uvrpc/network/protocol"
	"github.com/nabbar/uvrpc/rpc"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/client/tcp"
	"github.com/nabbar/uvrpc/socket/config"
	servertcp "github.com/nabbar/uvrpc/socket/server/tcp"
	"github.com/nabbar/uvrpc/wire/codec/cbor"
)

func TestRPC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "rpc suite")
}

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

// newTCPPair builds a server and a connected client on a freshly chosen
// loopback port, registering handler on the server side.
func newTCPPair(register func(*rpc.Server)) (*rpc.Server, *rpc.Client, func()) {
	port := getFreePort()
	addr := "127.0.0.1:" + strconv.Itoa(port)

	srv, err := rpc.NewServer(func(h socket.HandlerFunc) (socket.Server, error) {
		return servertcp.New(config.Server{Network: libptc.NetworkTCP, Address: addr, Handler: h})
	}, cbor.New(), nil)
	Expect(err).NotTo(HaveOccurred())
	register(srv)

	go func() { _ = srv.Listen(context.Background()) }()
	waitForDial(addr)

	transport, err := tcp.New(config.Client{Network: libptc.NetworkTCP, Address: addr, TimeoutMS: 1000})
	Expect(err).NotTo(HaveOccurred())
	cli := rpc.NewClient(transport, cbor.New(), nil, 0)
	Expect(cli.Connect(context.Background())).To(Succeed())

	teardown := func() {
		_ = cli.Close()
		_ = srv.Shutdown(context.Background())
	}
	return srv, cli, teardown
}

var _ = Describe("Client/Server request-response over TCP", func() {
	It("completes the happy path: call, dispatch, reply", func() {
		_, cli, teardown := newTCPPair(func(s *rpc.Server) {
			s.RegisterHandler("Echo", func(rc *rpc.RequestContext) {
				Expect(rc.Reply(rc.Params)).To(Succeed())
			})
		})
		defer teardown()

		resp, err := cli.CallSync(context.Background(), "Echo", []byte("ping"), time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Result).To(Equal([]byte("ping")))
	})

	It("replies METHOD_NOT_FOUND for an unregistered method", func() {
		_, cli, teardown := newTCPPair(func(s *rpc.Server) {})
		defer teardown()

		_, err := cli.CallSync(context.Background(), "DoesNotExist", nil, time.Second)
		Expect(err).To(HaveOccurred())
		Expect(uverr.KindOf(err)).To(Equal(uverr.KindMethodNotFound))
	})
})

// slowTransport implements socket.Client with a Connect that blocks past
// its caller's deadline, for proving the KindTimeout dial-failure kind
// threads unchanged through rpc.Client.Connect.
type slowTransport struct{}

func (slowTransport) RegisterFuncError(fct socket.FuncError) {}
func (slowTransport) Connect(ctx context.Context) error {
	<-ctx.Done()
	return uverr.Wrap(uverr.KindTimeout, "dial failed", ctx.Err())
}
func (slowTransport) Once(fct socket.FuncResponse)      {}
func (slowTransport) Read(p []byte) (int, error)        { return 0, fmt.Errorf("not connected") }
func (slowTransport) Write(p []byte) (int, error)       { return 0, fmt.Errorf("not connected") }
func (slowTransport) Close() error                      { return nil }

var _ = Describe("Client.Connect timeout propagation", func() {
	It("threads a transport-level KindTimeout out unchanged", func() {
		cli := rpc.NewClient(slowTransport{}, cbor.New(), nil, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := cli.Connect(ctx)
		Expect(err).To(HaveOccurred())
		Expect(uverr.KindOf(err)).To(Equal(uverr.KindTimeout))
	})
})

// swallowTransport accepts every Write without ever replying, so calls
// placed against it stay pending until the client is torn down.
type swallowTransport struct{}

func (swallowTransport) RegisterFuncError(fct socket.FuncError) {}
func (swallowTransport) Connect(ctx context.Context) error      { return nil }
func (swallowTransport) Once(fct socket.FuncResponse)           {}
func (swallowTransport) Read(p []byte) (int, error)             { return 0, fmt.Errorf("not connected") }
func (swallowTransport) Write(p []byte) (int, error)            { return len(p), nil }
func (swallowTransport) Close() error                           { return nil }

var _ = Describe("Client.Close teardown", func() {
	It("cancels every pending call when closed with 100 in flight", func() {
		cli := rpc.NewClient(swallowTransport{}, cbor.New(), nil, 0)
		Expect(cli.Connect(context.Background())).To(Succeed())

		const n = 100
		futures := make([]*rpc.Future, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			i := i
			go func() {
				defer wg.Done()
				fut, err := cli.CallFuture("Noop", nil)
				Expect(err).NotTo(HaveOccurred())
				futures[i] = fut
			}()
		}
		wg.Wait()

		Expect(cli.Close()).To(Succeed())

		for _, fut := range futures {
			_, err := fut.Wait(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(uverr.KindOf(err)).To(Equal(uverr.KindCancelled))
		}
	})
})
