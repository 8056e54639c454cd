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

package config_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libptc "github.com/nabbar/uvrpc/network/protocol"
	"github.com/nabbar/uvrpc/socket"
	"github.com/nabbar/uvrpc/socket/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "socket/config suite")
}

var noopHandler socket.HandlerFunc = func(ctx socket.Context) {}

var _ = Describe("Server.Validate", func() {
	It("rejects a missing handler", func() {
		err := config.Server{Network: libptc.NetworkTCP, Address: "127.0.0.1:9000"}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed tcp address", func() {
		err := config.Server{Network: libptc.NetworkTCP, Address: "not-an-address", Handler: noopHandler}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed udp address", func() {
		err := config.Server{Network: libptc.NetworkUDP, Address: "not-an-address", Handler: noopHandler}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed ipc path", func() {
		err := config.Server{Network: libptc.NetworkIPC, Address: "", Handler: noopHandler}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("accepts a bare inproc registry name", func() {
		err := config.Server{Network: libptc.NetworkInproc, Address: "my-service", Handler: noopHandler}.Validate()
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an unknown network kind", func() {
		err := config.Server{Network: libptc.NetworkUnknown, Address: "whatever", Handler: noopHandler}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed tcp server", func() {
		err := config.Server{Network: libptc.NetworkTCP, Address: "127.0.0.1:9000", Handler: noopHandler}.Validate()
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Client.Validate", func() {
	It("rejects an empty address", func() {
		err := config.Client{Network: libptc.NetworkTCP, Address: ""}.Validate()
		Expect(err).To(HaveOccurred())
	})

	It("accepts a well-formed unix socket path", func() {
		err := config.Client{Network: libptc.NetworkIPC, Address: "/tmp/uvrpc.sock"}.Validate()
		Expect(err).NotTo(HaveOccurred())
	})
})
