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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/nabbar/uvrpc/config"
	libptc "github.com/nabbar/uvrpc/network/protocol"
	"github.com/nabbar/uvrpc/reactor"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "config suite")
}

var _ = Describe("Options", func() {
	It("derives Transport from the address scheme", func() {
		o := config.Options{Address: "tcp://127.0.0.1:5555", MaxPendingCallbacks: 64}
		Expect(o.Validate()).To(Succeed())
		Expect(o.Transport).To(Equal(libptc.NetworkTCP))
	})

	It("rejects a missing address", func() {
		o := config.Options{MaxPendingCallbacks: 64}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("rejects a max_pending_callbacks that isn't a power of two", func() {
		o := config.Options{Address: "tcp://127.0.0.1:5555", MaxPendingCallbacks: 100}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("decodes comm_type and performance_mode from viper", func() {
		v := viper.New()
		v.Set("address", "udp://127.0.0.1:5556")
		v.Set("comm_type", "broadcast")
		v.Set("performance_mode", "high_throughput")
		v.Set("max_pending_callbacks", 128)

		o, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(o.CommType).To(Equal(config.CommBroadcast))
		Expect(o.PerformanceMode).To(Equal(config.PerformanceHighThroughput))
		Expect(o.Transport).To(Equal(libptc.NetworkUDP))
	})
})

var _ = Describe("Watch", func() {
	It("delivers a reloaded Options on the reactor thread after a write", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "uvrpc.yaml")
		Expect(os.WriteFile(path, []byte("address: tcp://127.0.0.1:5555\nmax_pending_callbacks: 64\n"), 0o644)).To(Succeed())

		loop := reactor.New(0)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = loop.Run(ctx) }()

		changed := make(chan config.Options, 1)
		var onLoop bool
		w, err := config.Watch(loop, path, func(o config.Options, err error) {
			Expect(err).NotTo(HaveOccurred())
			onLoop = loop.OnLoop()
			changed <- o
		})
		Expect(err).NotTo(HaveOccurred())
		defer w.Stop()

		Expect(os.WriteFile(path, []byte("address: tcp://127.0.0.1:6666\nmax_pending_callbacks: 64\n"), 0o644)).To(Succeed())

		Eventually(changed, 2*time.Second).Should(Receive())
		Expect(onLoop).To(BeTrue())
	})
})
