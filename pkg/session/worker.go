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

// Package session runs one worker thread's accept loop: accept a
// connection, hand it to the protocol dispatcher, close it, repeat,
// until the session count bounds out, the listener closes, or a
// cooperative termination flag is observed between connections.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fschiettecatte/mps/pkg/dispatch"
	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// Worker serves connections off one Listener within one OS thread
// (goroutine), sequentially: a worker never runs two dispatches
// concurrently.
type Worker struct {
	Listener      transport.Listener
	Table         dispatch.Table
	Log           logger.Logger
	MaxSessions   int // 0 = unbounded
	AcceptTimeout time.Duration

	// IsTerminating is polled between connections so a worker can drain
	// cleanly on shutdown rather than being killed mid-accept.
	IsTerminating func() bool

	served atomic.Int64
}

// Served returns how many connections this worker has completed serving.
func (w *Worker) Served() int64 { return w.served.Load() }

// Run drives the accept loop until a termination condition is reached. A
// clean shutdown (listener closed, session limit reached, termination
// flag observed) returns nil; only an unexpected accept failure returns
// an error.
func (w *Worker) Run(ctx context.Context) liberr.Error {
	for {
		if w.IsTerminating != nil && w.IsTerminating() {
			return nil
		}
		if w.MaxSessions > 0 && int(w.served.Load()) >= w.MaxSessions {
			return nil
		}

		conn, err := w.Listener.Accept(ctx, w.AcceptTimeout)
		if err != nil {
			if err.IsCode(transport.CodeTimeOut) {
				continue
			}
			if err.IsCode(transport.CodeSocketClosed) {
				return nil
			}
			if w.Log != nil {
				w.Log.Error("accept failed", logger.Fields{"error": err.Error()})
			}
			return CodeAcceptFailed.Error(err)
		}

		w.serveOne(ctx, conn)
		w.served.Add(1)
	}
}

func (w *Worker) serveOne(ctx context.Context, conn transport.Conn) {
	defer func() {
		if err := conn.Close(); err != nil && w.Log != nil {
			w.Log.Warning("connection close failed", logger.Fields{"error": err.Error()})
		}
	}()

	if err := dispatch.Dispatch(ctx, conn, w.Table, w.Log); err != nil {
		if w.Log != nil {
			w.Log.Warning("session ended with error", logger.Fields{"error": err.Error()})
		}
	}
}
