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

// tcpConn is a stream Conn over a *net.TCPConn.
type tcpConn struct {
	mu   sync.Mutex
	conn net.Conn
	br   *bufReader
	send bytes.Buffer
}

func newTCPConn(c net.Conn) *tcpConn {
	return &tcpConn{conn: c, br: newBufReader(c)}
}

func (c *tcpConn) Peek(n int) ([]byte, liberr.Error) { return c.br.peek(n) }
func (c *tcpConn) ReadN(n int) ([]byte, liberr.Error) { return c.br.readN(n) }

func (c *tcpConn) Write(p []byte) liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send.Write(p)
	return nil
}

func (c *tcpConn) Send() liberr.Error {
	c.mu.Lock()
	buf := c.send.Bytes()
	c.send.Reset()
	c.mu.Unlock()

	if len(buf) == 0 {
		return nil
	}
	if _, err := c.conn.Write(buf); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (c *tcpConn) SetDeadline(t time.Time) liberr.Error {
	if err := c.conn.SetDeadline(t); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (c *tcpConn) Datagram() bool { return false }

func (c *tcpConn) Duplicate() (Conn, liberr.Error) {
	return nil, CodeIOFailure.Errorf("tcp connections cannot be duplicated after accept; dial a fresh one")
}

func (c *tcpConn) Close() liberr.Error {
	if err := c.conn.Close(); err != nil {
		return classifyIOError(err)
	}
	return nil
}

// tcpListener implements Listener over one or more net.TCPListeners.
type tcpListener struct {
	mu        sync.Mutex
	listeners []net.Listener
	accept    chan acceptResult
	closed    chan struct{}
	once      sync.Once
}

type acceptResult struct {
	conn net.Conn
	err  error
}

// NewTCPListener returns an empty Listener; bind endpoints with
// AddEndpoint before calling Accept.
func NewTCPListener() Listener {
	return &tcpListener{
		accept: make(chan acceptResult),
		closed: make(chan struct{}),
	}
}

// WrapTCPListener adapts an already-bound net.Listener (typically one
// rebuilt from an inherited file descriptor by
// lifecycle.ListenerFromWorkerFD) into a Listener and starts accepting
// on it immediately.
func WrapTCPListener(ln net.Listener) Listener {
	l := &tcpListener{
		listeners: []net.Listener{ln},
		accept:    make(chan acceptResult),
		closed:    make(chan struct{}),
	}
	go l.acceptLoop(ln)
	return l
}

func (l *tcpListener) AddEndpoint(e Endpoint) liberr.Error {
	ln, err := net.Listen("tcp", e.Addr())
	if err != nil {
		return CodeListenFailed.Error(err)
	}

	l.mu.Lock()
	l.listeners = append(l.listeners, ln)
	l.mu.Unlock()

	go l.acceptLoop(ln)
	return nil
}

func (l *tcpListener) acceptLoop(ln net.Listener) {
	for {
		c, err := ln.Accept()
		select {
		case l.accept <- acceptResult{conn: c, err: err}:
		case <-l.closed:
			if c != nil {
				_ = c.Close()
			}
			return
		}
		if err != nil {
			return
		}
	}
}

func (l *tcpListener) Accept(ctx context.Context, acceptTimeout time.Duration) (Conn, liberr.Error) {
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
		return newTCPConn(r.conn), nil
	case <-timeoutCh:
		return nil, CodeTimeOut.Error()
	case <-ctx.Done():
		return nil, CodeSocketClosed.Error(ctx.Err())
	case <-l.closed:
		return nil, CodeSocketClosed.Error()
	}
}

func (l *tcpListener) Close() liberr.Error {
	l.once.Do(func() { close(l.closed) })

	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for _, ln := range l.listeners {
		if err := ln.Close(); err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return CodeIOFailure.Error(lastErr)
	}
	return nil
}
