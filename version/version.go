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

// Package version reports build metadata and checks it against a minimum Go
// toolchain constraint, logged once at startup.
package version

import (
	"fmt"
	"runtime"

	hcversion "github.com/hashicorp/go-version"

	uverr "github.com/nabbar/uvrpc/errors"
)

// Info carries build-time metadata baked in via -ldflags.
type Info struct {
	Name    string
	Build   string
	Hash    string
	Release string
}

// New builds an Info. Callers typically populate Build/Hash/Release from
// linker-injected variables at their main package's init.
func New(name, build, hash, release string) Info {
	return Info{Name: name, Build: build, Hash: hash, Release: release}
}

// String renders a one-line startup banner.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (build %s, commit %s, go %s)", i.Name, i.Release, i.Build, i.Hash, runtime.Version())
}

// CheckGo verifies the running Go toolchain satisfies constraint against
// required (e.g. CheckGo("1.21", ">=")), returning a KindInvalidParam error
// describing the mismatch when it doesn't.
func (i Info) CheckGo(required, operator string) error {
	runtimeVer, err := parseRuntimeVersion()
	if err != nil {
		return uverr.Wrap(uverr.KindInvalidParam, "failed to parse runtime go version", err)
	}

	constraint, err := hcversion.NewConstraint(operator + " " + required)
	if err != nil {
		return uverr.Wrap(uverr.KindInvalidParam, "invalid go version constraint", err)
	}

	if !constraint.Check(runtimeVer) {
		return uverr.Newf(uverr.KindInvalidParam, "go runtime %s does not satisfy constraint %s %s", runtimeVer, operator, required)
	}
	return nil
}

func parseRuntimeVersion() (*hcversion.Version, error) {
	v := runtime.Version() // e.g. "go1.22.3"
	if len(v) > 2 && v[:2] == "go" {
		v = v[2:]
	}
	return hcversion.NewVersion(v)
}
