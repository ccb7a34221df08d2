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
	"context"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// MultiListener fans a single Accept out across several underlying
// Listeners, so one worker pool can serve a `--socket` configuration
// that mixes TCP and UDP endpoints (spec.md §6: `--socket` is
// repeatable and proto-qualified per occurrence) without the session
// layer knowing anything about the mix.
type MultiListener struct {
	listeners []Listener
}

// NewMultiListener combines already-built Listeners (typically one TCP
// and/or one UDP listener, each carrying every endpoint of its own
// protocol) into one.
func NewMultiListener(listeners ...Listener) *MultiListener {
	return &MultiListener{listeners: listeners}
}

// AddEndpoint is not meaningful on the combined listener: endpoints are
// added to the per-protocol Listener before it is wrapped here.
func (m *MultiListener) AddEndpoint(e Endpoint) liberr.Error {
	return nil
}

func (m *MultiListener) Accept(ctx context.Context, acceptTimeout time.Duration) (Conn, liberr.Error) {
	type result struct {
		conn Conn
		err  liberr.Error
	}

	ch := make(chan result, len(m.listeners))
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, l := range m.listeners {
		l := l
		go func() {
			conn, err := l.Accept(subCtx, acceptTimeout)
			select {
			case ch <- result{conn: conn, err: err}:
			case <-subCtx.Done():
			}
		}()
	}

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-ctx.Done():
		return nil, CodeSocketClosed.Error(ctx.Err())
	}
}

func (m *MultiListener) Close() liberr.Error {
	var first liberr.Error
	for _, l := range m.listeners {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ Listener = (*MultiListener)(nil)
