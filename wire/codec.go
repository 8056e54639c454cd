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

package wire

import uverr "github.com/nabbar/uvrpc/errors"

// Codec is the external, schema-generated serializer boundary: the core
// calls it to turn frame fields into self-delimited bytes and back, and
// never inspects the bytes itself beyond PeekKind. Implementations must be
// deterministic: encode(decode(b)) == b is not required, but
// decode(encode(f)) == f always is (spec.md §8 round-trip laws).
type Codec interface {
	EncodeRequest(f Request) ([]byte, error)
	DecodeRequest(b []byte) (Request, error)

	EncodeResponse(f Response) ([]byte, error)
	DecodeResponse(b []byte) (Response, error)

	EncodeError(f Error) ([]byte, error)
	DecodeError(b []byte) (Error, error)

	EncodeBroadcast(f Broadcast) ([]byte, error)
	DecodeBroadcast(b []byte) (Broadcast, error)
}

// PeekKind reads a frame's leading type tag without running the full
// decode, letting the bus pick the right dispatch path first (§4.4).
func PeekKind(b []byte) (Kind, error) {
	if len(b) == 0 {
		return 0, uverr.New(uverr.KindFraming, "empty frame has no type tag")
	}
	return Kind(b[0]), nil
}
