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

// Package transport provides the connection abstraction the serving core
// is built on: stream (TCP), datagram (UDP), and stdio client
// connections, plus the listening-service side that accepts them. The
// session loop (pkg/session) and the wire codecs (pkg/lwps,
// pkg/httpcodec) depend only on the Conn and Listener interfaces here,
// never on net.Conn directly.
package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// Protocol names a listening/dialing transport family.
type Protocol uint8

const (
	ProtoTCP Protocol = iota
	ProtoUDP
	ProtoStdio
)

func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	case ProtoStdio:
		return "stdio"
	default:
		return "unknown"
	}
}

// Endpoint is one protocol×host×port listening specification.
type Endpoint struct {
	Protocol Protocol
	Host     string
	Port     int
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Conn is one accepted (or dialed) connection. Every read is peekable so
// the caller can inspect the first byte(s) of a message before committing
// to a destructive read — this is how C5 dispatch tells LWPS frames from
// HTTP request lines apart.
type Conn interface {
	// Peek returns the next n bytes without consuming them. A subsequent
	// Read/ReadN will see the same bytes again.
	Peek(n int) ([]byte, liberr.Error)
	// ReadN reads and consumes exactly n bytes.
	ReadN(n int) ([]byte, liberr.Error)
	// Write stages p into the send buffer without flushing.
	Write(p []byte) liberr.Error
	// Send flushes the staged send buffer as one atomic write.
	Send() liberr.Error

	// SetDeadline bounds the next blocking read/write.
	SetDeadline(t time.Time) liberr.Error

	// Datagram reports whether this connection carries exactly one
	// message (UDP) rather than a framed stream (TCP/stdio).
	Datagram() bool

	// Duplicate is the hook for deriving a copy of this connection's
	// configuration with fresh kernel state. No connection in this
	// package supports it: the tcp, udp and stdio connections all return
	// a CodeIOFailure error.
	Duplicate() (Conn, liberr.Error)

	// Close closes the client side of the connection. Idempotent.
	Close() liberr.Error
}

// Listener accepts Conns on one or more bound Endpoints.
type Listener interface {
	// AddEndpoint binds an additional listening endpoint.
	AddEndpoint(e Endpoint) liberr.Error

	// Accept blocks until a client connects (or a datagram arrives),
	// returning a ready-to-read Conn. acceptTimeout, if non-zero, bounds
	// how long this call waits; when it expires Accept returns
	// CodeTimeOut.
	Accept(ctx context.Context, acceptTimeout time.Duration) (Conn, liberr.Error)

	// Close stops accepting and releases every bound Endpoint.
	Close() liberr.Error
}

// bufReader is the shared peek/read implementation used by every stream
// Conn (TCP and stdio): bufio.Reader already buffers and supports Peek,
// so wrapping it is simpler than hand-rolling a ring buffer.
type bufReader struct {
	r *bufio.Reader
}

func newBufReader(r net.Conn) *bufReader {
	return &bufReader{r: bufio.NewReaderSize(r, 8192)}
}

func (b *bufReader) peek(n int) ([]byte, liberr.Error) {
	p, err := b.r.Peek(n)
	if err != nil {
		return nil, classifyIOError(err)
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

func (b *bufReader) readN(n int) ([]byte, liberr.Error) {
	out := make([]byte, n)
	if _, err := readFull(b.r, out); err != nil {
		return nil, classifyIOError(err)
	}
	return out, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := r.Read(buf[read:])
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

func classifyIOError(err error) liberr.Error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return CodeTimeOut.Error(err)
	}
	if errors.Is(err, io.EOF) {
		return CodeSocketClosed.Error(err)
	}
	return CodeIOFailure.Error(err)
}
