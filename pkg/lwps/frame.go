/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 *
 *
 */

// Package lwps implements the binary wire protocol (LWPS): a framed,
// length-prefixed request/response protocol carried over a stream
// transport (TCP, stdio) or, for a single exchange, a datagram transport
// (UDP).
//
// The original byte layout of this codec is not available to port against
// (only its request/response behavior is); this package therefore defines
// its own frame format, chosen to preserve every invariant the original
// exposed to clients: a leading protocol byte, a message-ID that can be
// peeked without consuming the frame, length-prefixed fields, and an
// opaque reference-ID that always rides along unmodified and last.
package lwps

import (
	"encoding/binary"
	"math"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// Magic is the single protocol-identifier byte every LWPS frame begins
// with.
const Magic = 'L'

// MaxFieldLength bounds any one length-prefixed field, guarding against a
// corrupt or hostile length prefix driving an unbounded allocation.
const MaxFieldLength = 64 << 20 // 64 MiB

// MessageID distinguishes request/response message types. Request and
// response variants of the same logical exchange use adjacent values so
// a response is always request|1.
type MessageID uint32

const (
	MsgInitRequest MessageID = iota
	MsgInitResponse

	MsgSearchRequest
	MsgSearchResponse

	MsgRetrievalRequest
	MsgRetrievalResponse

	MsgServerInfoRequest
	MsgServerInfoResponse

	MsgServerIndexInfoRequest
	MsgServerIndexInfoResponse

	MsgIndexInfoRequest
	MsgIndexInfoResponse

	MsgIndexFieldInfoRequest
	MsgIndexFieldInfoResponse

	MsgIndexTermInfoRequest
	MsgIndexTermInfoResponse

	MsgDocumentInfoRequest
	MsgDocumentInfoResponse

	MsgErrorMessage
)

// PeekHeader reads the magic byte and message-ID of the next frame on c
// without consuming it, so the session loop can dispatch before
// committing to a full decode.
func PeekHeader(c transport.Conn) (MessageID, liberr.Error) {
	hdr, err := c.Peek(5)
	if err != nil {
		return 0, err
	}
	if hdr[0] != Magic {
		return 0, CodeBadMagic.Errorf("got %#x", hdr[0])
	}
	return MessageID(binary.BigEndian.Uint32(hdr[1:5])), nil
}

// frameWriter accumulates a frame's body (everything after the 5-byte
// header) so its total length need not be known up front.
type frameWriter struct {
	body []byte
}

func newFrameWriter(id MessageID) *frameWriter {
	fw := &frameWriter{body: make([]byte, 0, 64)}
	return fw
}

func (w *frameWriter) putBytes(b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	w.body = append(w.body, lenBuf[:]...)
	w.body = append(w.body, b...)
}

func (w *frameWriter) putString(s string) { w.putBytes([]byte(s)) }

func (w *frameWriter) putStrings(ss []string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(ss)))
	w.body = append(w.body, n[:]...)
	for _, s := range ss {
		w.putString(s)
	}
}

func (w *frameWriter) putUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.body = append(w.body, b[:]...)
}

func (w *frameWriter) putUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.body = append(w.body, b[:]...)
}

func (w *frameWriter) putInt32(v int32)     { w.putUint32(uint32(v)) }
func (w *frameWriter) putInt64(v int64)     { w.putUint64(uint64(v)) }
func (w *frameWriter) putFloat64(v float64) { w.putUint64(math.Float64bits(v)) }
func (w *frameWriter) putFloat32(v float32) { w.putUint32(math.Float32bits(v)) }
func (w *frameWriter) putByte(b byte)       { w.body = append(w.body, b) }

// finish renders the complete on-wire frame: magic byte, message-ID, then
// body.
func (w *frameWriter) finish(id MessageID) []byte {
	out := make([]byte, 0, 5+len(w.body))
	out = append(out, Magic)
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], uint32(id))
	out = append(out, idBuf[:]...)
	out = append(out, w.body...)
	return out
}

// frameReader sequentially decodes a frame body already read off the
// wire (by ReadFrame, which reads the 5-byte header and the 4-byte body
// length with ReadN and then the body itself).
type frameReader struct {
	buf []byte
	pos int
}

func newFrameReader(body []byte) *frameReader { return &frameReader{buf: body} }

func (r *frameReader) getUint32() (uint32, liberr.Error) {
	if r.pos+4 > len(r.buf) {
		return 0, CodeMalformedFrame.Error()
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *frameReader) getUint64() (uint64, liberr.Error) {
	if r.pos+8 > len(r.buf) {
		return 0, CodeMalformedFrame.Error()
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *frameReader) getInt32() (int32, liberr.Error) {
	v, err := r.getUint32()
	return int32(v), err
}

func (r *frameReader) getInt64() (int64, liberr.Error) {
	v, err := r.getUint64()
	return int64(v), err
}

func (r *frameReader) getFloat64() (float64, liberr.Error) {
	v, err := r.getUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *frameReader) getFloat32() (float32, liberr.Error) {
	v, err := r.getUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *frameReader) getByte() (byte, liberr.Error) {
	if r.pos+1 > len(r.buf) {
		return 0, CodeMalformedFrame.Error()
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *frameReader) getBytes() ([]byte, liberr.Error) {
	n, err := r.getUint32()
	if err != nil {
		return nil, err
	}
	if n > MaxFieldLength {
		return nil, CodeFieldTooLarge.Errorf("%d bytes", n)
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, CodeMalformedFrame.Error()
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *frameReader) getString() (string, liberr.Error) {
	b, err := r.getBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *frameReader) getStrings() ([]string, liberr.Error) {
	n, err := r.getUint32()
	if err != nil {
		return nil, err
	}
	if n > MaxFieldLength {
		return nil, CodeFieldTooLarge.Errorf("%d elements", n)
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.getString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
