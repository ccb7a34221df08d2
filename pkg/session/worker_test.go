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

package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fschiettecatte/mps/pkg/dispatch"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// queueListener hands out a fixed queue of Conns, then reports the
// listener as closed, the way a real Listener does once Close has been
// called concurrently with Accept.
type queueListener struct {
	conns []transport.Conn
	pos   int
}

func (q *queueListener) AddEndpoint(e transport.Endpoint) liberr.Error { return nil }

func (q *queueListener) Accept(ctx context.Context, acceptTimeout time.Duration) (transport.Conn, liberr.Error) {
	if q.pos >= len(q.conns) {
		return nil, transport.CodeSocketClosed.Error()
	}
	c := q.conns[q.pos]
	q.pos++
	return c, nil
}

func (q *queueListener) Close() liberr.Error { return nil }

func unrecognizedConn() transport.Conn {
	return transport.NewStdioConn(strings.NewReader("Z\n"), &bytes.Buffer{})
}

func TestWorkerRunServesUntilListenerCloses(t *testing.T) {
	listener := &queueListener{conns: []transport.Conn{unrecognizedConn(), unrecognizedConn()}}
	w := &Worker{Listener: listener, Table: dispatch.Table{}}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Served() != 2 {
		t.Fatalf("Served() = %d, want 2", w.Served())
	}
}

func TestWorkerRunRespectsSessionLimit(t *testing.T) {
	listener := &queueListener{conns: []transport.Conn{unrecognizedConn(), unrecognizedConn(), unrecognizedConn()}}
	w := &Worker{Listener: listener, Table: dispatch.Table{}, MaxSessions: 1}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Served() != 1 {
		t.Fatalf("Served() = %d, want 1", w.Served())
	}
}

func TestWorkerRunStopsWhenTerminating(t *testing.T) {
	listener := &queueListener{conns: []transport.Conn{unrecognizedConn(), unrecognizedConn()}}
	stop := false
	w := &Worker{
		Listener:      listener,
		Table:         dispatch.Table{},
		IsTerminating: func() bool { return stop },
	}

	stop = true
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.Served() != 0 {
		t.Fatalf("Served() = %d, want 0 once termination was already requested", w.Served())
	}
}
