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

package transport

import (
	"bytes"
	"context"
	"net"
	"sync"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// udpConn wraps exactly one already-received datagram: Peek/ReadN operate
// over an in-memory buffer rather than the socket, since a datagram
// transport carries exactly one message per Conn (spec's invariant).
type udpConn struct {
	mu     sync.Mutex
	pc     net.PacketConn
	peer   net.Addr
	buf    []byte
	offset int
	send   bytes.Buffer
}

func (c *udpConn) Peek(n int) ([]byte, liberr.Error) {
	if c.offset+n > len(c.buf) {
		return nil, CodeSocketClosed.Errorf("datagram exhausted: want %d bytes, have %d", n, len(c.buf)-c.offset)
	}
	out := make([]byte, n)
	copy(out, c.buf[c.offset:c.offset+n])
	return out, nil
}

func (c *udpConn) ReadN(n int) ([]byte, liberr.Error) {
	out, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.offset += n
	return out, nil
}

func (c *udpConn) Write(p []byte) liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send.Write(p)
	return nil
}

func (c *udpConn) Send() liberr.Error {
	c.mu.Lock()
	buf := c.send.Bytes()
	c.send.Reset()
	c.mu.Unlock()

	if len(buf) == 0 {
		return nil
	}
	if _, err := c.pc.WriteTo(buf, c.peer); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (c *udpConn) SetDeadline(t time.Time) liberr.Error { return nil }
func (c *udpConn) Datagram() bool                       { return true }

func (c *udpConn) Duplicate() (Conn, liberr.Error) {
	return nil, CodeIOFailure.Errorf("datagram connections are single-use and cannot be duplicated")
}

func (c *udpConn) Close() liberr.Error { return nil }

// udpListener implements Listener over one or more net.PacketConns.
type udpListener struct {
	mu      sync.Mutex
	packets []net.PacketConn
	accept  chan udpAcceptResult
	closed  chan struct{}
	once    sync.Once
}

type udpAcceptResult struct {
	pc   net.PacketConn
	peer net.Addr
	data []byte
	err  error
}

func NewUDPListener() Listener {
	return &udpListener{
		accept: make(chan udpAcceptResult),
		closed: make(chan struct{}),
	}
}

func (l *udpListener) AddEndpoint(e Endpoint) liberr.Error {
	pc, err := net.ListenPacket("udp", e.Addr())
	if err != nil {
		return CodeListenFailed.Error(err)
	}

	l.mu.Lock()
	l.packets = append(l.packets, pc)
	l.mu.Unlock()

	go l.recvLoop(pc)
	return nil
}

func (l *udpListener) recvLoop(pc net.PacketConn) {
	buf := make([]byte, 65507)
	for {
		n, peer, err := pc.ReadFrom(buf)
		var data []byte
		if err == nil {
			data = make([]byte, n)
			copy(data, buf[:n])
		}
		select {
		case l.accept <- udpAcceptResult{pc: pc, peer: peer, data: data, err: err}:
		case <-l.closed:
			return
		}
		if err != nil {
			return
		}
	}
}

func (l *udpListener) Accept(ctx context.Context, acceptTimeout time.Duration) (Conn, liberr.Error) {
	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if acceptTimeout > 0 {
		timer = time.NewTimer(acceptTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case r := <-l.accept:
		if r.err != nil {
			return nil, classifyIOError(r.err)
		}
		return &udpConn{pc: r.pc, peer: r.peer, buf: r.data}, nil
	case <-timeoutCh:
		return nil, CodeTimeOut.Error()
	case <-ctx.Done():
		return nil, CodeSocketClosed.Error(ctx.Err())
	case <-l.closed:
		return nil, CodeSocketClosed.Error()
	}
}

func (l *udpListener) Close() liberr.Error {
	l.once.Do(func() { close(l.closed) })

	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for _, pc := range l.packets {
		if err := pc.Close(); err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return CodeIOFailure.Error(lastErr)
	}
	return nil
}
