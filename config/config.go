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

// Package config holds the runtime-wide Options enumerated in spec.md §6,
// loadable from a viper instance and watchable for live reload.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	libmap "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	uverr "github.com/nabbar/uvrpc/errors"
	libptc "github.com/nabbar/uvrpc/network/protocol"
)

// Options is the enumerated configuration surface of spec.md §6. The
// `loop` option from spec.md §6 has no field here: a *reactor.Reactor
// isn't a value viper can decode, so callers construct their Reactor
// separately and pass it only to Watch, which needs it to post reloads
// back onto the reactor thread.
type Options struct {
	Address             string                 `mapstructure:"address" validate:"required"`
	Transport           libptc.NetworkProtocol `mapstructure:"-"`
	CommType            CommType               `mapstructure:"comm_type"`
	PerformanceMode     PerformanceMode        `mapstructure:"performance_mode"`
	PoolSize            int                    `mapstructure:"pool_size" validate:"gte=0"`
	MaxConcurrent       int                    `mapstructure:"max_concurrent" validate:"gte=0"`
	MaxPendingCallbacks uint32                 `mapstructure:"max_pending_callbacks" validate:"poweroftwo"`
	TimeoutMS           int                    `mapstructure:"timeout_ms" validate:"gte=0"`
	MsgIDOffset         uint32                 `mapstructure:"msgid_offset"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("poweroftwo", validatePowerOfTwo)
	return v
}

func validatePowerOfTwo(fl validator.FieldLevel) bool {
	n := fl.Field().Uint()
	if n == 0 {
		return true // 0 means "unset", caller applies its own default
	}
	return n&(n-1) == 0
}

// Validate checks field shapes and derives Transport from Address's scheme
// when the caller has not already set it explicitly.
func (o *Options) Validate() error {
	if o.Transport == libptc.NetworkUnknown && o.Address != "" {
		addr, err := libptc.Parse(o.Address)
		if err != nil {
			return err
		}
		o.Transport = addr.Network
	}

	val := newValidator()
	if err := val.Struct(o); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			if len(ve) > 0 {
				return uverr.Newf(uverr.KindInvalidParam, "config field %q failed constraint %q", ve[0].Field(), ve[0].ActualTag())
			}
		}
		return uverr.Wrap(uverr.KindInvalidParam, "config validation failed", err)
	}
	return nil
}

// FromViper decodes v into a new Options, registering the enum decode
// hooks so `comm_type` and `performance_mode` string values land as their
// typed constants and mapping a `transport` string onto its
// NetworkProtocol, then validates the result.
func FromViper(v *viper.Viper) (Options, error) {
	var o Options

	dec := viper.DecodeHook(libmap.ComposeDecodeHookFunc(
		ViperDecoderHookCommType(),
		ViperDecoderHookPerformanceMode(),
		libmap.StringToTimeDurationHookFunc(),
	))

	if err := v.Unmarshal(&o, dec); err != nil {
		return Options{}, uverr.Wrap(uverr.KindInvalidParam, "failed to decode configuration", err)
	}

	if t := v.GetString("transport"); t != "" {
		switch t {
		case "tcp":
			o.Transport = libptc.NetworkTCP
		case "udp":
			o.Transport = libptc.NetworkUDP
		case "ipc":
			o.Transport = libptc.NetworkIPC
		case "inproc":
			o.Transport = libptc.NetworkInproc
		default:
			return Options{}, uverr.Newf(uverr.KindInvalidParam, "unknown transport %q", t)
		}
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) String() string {
	return fmt.Sprintf("Options{Address:%s Transport:%s CommType:%s PerformanceMode:%s}",
		o.Address, o.Transport, o.CommType, o.PerformanceMode)
}
