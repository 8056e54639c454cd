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

// Package cbor is the one concrete wire.Codec this module pins, per
// spec.md §9's design note that the source's mixed msgpack/FlatBuffers
// remnants should collapse to a single, picked serializer. Request,
// Response and Broadcast frames are CBOR-encoded; Error frames use the
// fixed binary layout spec.md §6 mandates, independent of the payload
// codec, since error codes/messages are core-synthesized and never pass
// through schema-generated types.
package cbor

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"

	uverr "github.com/nabbar/uvrpc/errors"
	"github.com/nabbar/uvrpc/wire"
)

// Codec implements wire.Codec over github.com/fxamacker/cbor/v2.
type Codec struct{}

// New returns the pinned codec. Stateless; safe to share across endpoints.
func New() *Codec {
	return &Codec{}
}

type requestBody struct {
	MsgID  uint32 `cbor:"1,keyasint"`
	Method string `cbor:"2,keyasint"`
	Params []byte `cbor:"3,keyasint"`
}

type responseBody struct {
	MsgID  uint32 `cbor:"1,keyasint"`
	Result []byte `cbor:"2,keyasint"`
}

type broadcastBody struct {
	Topic string `cbor:"1,keyasint"`
	Data  []byte `cbor:"2,keyasint"`
}

func (c *Codec) EncodeRequest(f wire.Request) ([]byte, error) {
	body, err := cbor.Marshal(requestBody{MsgID: f.MsgID, Method: f.Method, Params: f.Params})
	if err != nil {
		return nil, uverr.Wrap(uverr.KindInvalidParam, "encode request", err)
	}
	return append([]byte{byte(wire.KindRequest)}, body...), nil
}

func (c *Codec) DecodeRequest(b []byte) (wire.Request, error) {
	body, err := tagged(b, wire.KindRequest)
	if err != nil {
		return wire.Request{}, err
	}
	var r requestBody
	if err := cbor.Unmarshal(body, &r); err != nil {
		return wire.Request{}, uverr.Wrap(uverr.KindFraming, "decode request", err)
	}
	return wire.Request{MsgID: r.MsgID, Method: r.Method, Params: r.Params}, nil
}

func (c *Codec) EncodeResponse(f wire.Response) ([]byte, error) {
	body, err := cbor.Marshal(responseBody{MsgID: f.MsgID, Result: f.Result})
	if err != nil {
		return nil, uverr.Wrap(uverr.KindInvalidParam, "encode response", err)
	}
	return append([]byte{byte(wire.KindResponse)}, body...), nil
}

func (c *Codec) DecodeResponse(b []byte) (wire.Response, error) {
	body, err := tagged(b, wire.KindResponse)
	if err != nil {
		return wire.Response{}, err
	}
	var r responseBody
	if err := cbor.Unmarshal(body, &r); err != nil {
		return wire.Response{}, uverr.Wrap(uverr.KindFraming, "decode response", err)
	}
	return wire.Response{MsgID: r.MsgID, Result: r.Result}, nil
}

func (c *Codec) EncodeBroadcast(f wire.Broadcast) ([]byte, error) {
	body, err := cbor.Marshal(broadcastBody{Topic: f.Topic, Data: f.Data})
	if err != nil {
		return nil, uverr.Wrap(uverr.KindInvalidParam, "encode broadcast", err)
	}
	return append([]byte{byte(wire.KindNotification)}, body...), nil
}

func (c *Codec) DecodeBroadcast(b []byte) (wire.Broadcast, error) {
	body, err := tagged(b, wire.KindNotification)
	if err != nil {
		return wire.Broadcast{}, err
	}
	var r broadcastBody
	if err := cbor.Unmarshal(body, &r); err != nil {
		return wire.Broadcast{}, uverr.Wrap(uverr.KindFraming, "decode broadcast", err)
	}
	return wire.Broadcast{Topic: r.Topic, Data: r.Data}, nil
}

// EncodeError lays out [tag][4-byte msgid][4-byte BE code][UTF-8 message
// NUL-terminated], exactly as spec.md §6 mandates.
func (c *Codec) EncodeError(f wire.Error) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 1+4+4+len(f.Message)+1))
	buf.WriteByte(byte(wire.KindError))
	var msgid [4]byte
	binary.BigEndian.PutUint32(msgid[:], f.MsgID)
	buf.Write(msgid[:])
	var code [4]byte
	binary.BigEndian.PutUint32(code[:], uint32(f.Code))
	buf.Write(code[:])
	buf.WriteString(f.Message)
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// DecodeError parses spec.md §6's fixed error layout. A zero-length
// payload (after the tag+msgid) is a malformed frame, per §6.
func (c *Codec) DecodeError(b []byte) (wire.Error, error) {
	if len(b) < 1 || wire.Kind(b[0]) != wire.KindError {
		return wire.Error{}, uverr.New(uverr.KindFraming, "not an error frame")
	}
	b = b[1:]
	if len(b) < 4+4+1 {
		return wire.Error{}, uverr.New(uverr.KindFraming, "malformed error frame: too short")
	}
	msgid := binary.BigEndian.Uint32(b[:4])
	code := int32(binary.BigEndian.Uint32(b[4:8]))
	rest := b[8:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return wire.Error{}, uverr.New(uverr.KindFraming, "malformed error frame: message not NUL-terminated")
	}
	return wire.Error{MsgID: msgid, Code: code, Message: string(rest[:nul])}, nil
}

func tagged(b []byte, want wire.Kind) ([]byte, error) {
	k, err := wire.PeekKind(b)
	if err != nil {
		return nil, err
	}
	if k != want {
		return nil, uverr.Newf(uverr.KindFraming, "expected frame kind %s, got %s", want, k)
	}
	return b[1:], nil
}
