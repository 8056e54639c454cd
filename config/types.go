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

package config

import (
	"reflect"

	libmap "github.com/go-viper/mapstructure/v2"
)

// CommType selects request/response semantics versus broadcast (spec.md §6).
type CommType uint8

const (
	CommUnknown CommType = iota
	CommRequestResponse
	CommBroadcast
)

func (c CommType) String() string {
	switch c {
	case CommRequestResponse:
		return "request/response"
	case CommBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// ParseCommType parses the viper-facing spelling of a CommType.
func ParseCommType(s string) CommType {
	switch s {
	case "request/response", "request_response", "rpc":
		return CommRequestResponse
	case "broadcast", "pubsub":
		return CommBroadcast
	default:
		return CommUnknown
	}
}

// ViperDecoderHookCommType decodes a string into a CommType, following the
// shape of nabbar-golib's per-type ViperDecoderHook constructors (e.g.
// certificates/curves).
func ViperDecoderHookCommType() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(CommType(0)) || from.Kind() != reflect.String {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return ParseCommType(s), nil
	}
}

// PerformanceMode is an advisory hint: send immediately versus allow
// coalescing (spec.md §6).
type PerformanceMode uint8

const (
	PerformanceUnknown PerformanceMode = iota
	PerformanceLowLatency
	PerformanceHighThroughput
)

func (p PerformanceMode) String() string {
	switch p {
	case PerformanceLowLatency:
		return "low_latency"
	case PerformanceHighThroughput:
		return "high_throughput"
	default:
		return "unknown"
	}
}

// ParsePerformanceMode parses the viper-facing spelling of a PerformanceMode.
func ParsePerformanceMode(s string) PerformanceMode {
	switch s {
	case "low_latency":
		return PerformanceLowLatency
	case "high_throughput":
		return PerformanceHighThroughput
	default:
		return PerformanceUnknown
	}
}

// ViperDecoderHookPerformanceMode decodes a string into a PerformanceMode.
func ViperDecoderHookPerformanceMode() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(PerformanceMode(0)) || from.Kind() != reflect.String {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		return ParsePerformanceMode(s), nil
	}
}
