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

package dispatch

import (
	"context"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/httpcodec"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// maxRequestLineLength bounds how much of the connection readRequestLine
// will buffer while hunting for the terminating newline, guarding
// against a client that never sends one.
const maxRequestLineLength = 8192

// readRequestLine grows its peek one byte at a time rather than in large
// fixed steps: a stream Conn blocks a Peek(n) call until n bytes are
// buffered, so peeking further than the line in hand would stall waiting
// for bytes the client was never going to send.
func readRequestLine(conn transport.Conn) (string, liberr.Error) {
	for n := 1; n <= maxRequestLineLength; n++ {
		buf, err := conn.Peek(n)
		if err != nil {
			return "", err
		}
		if buf[n-1] == '\n' {
			consumed, rerr := conn.ReadN(n)
			if rerr != nil {
				return "", rerr
			}
			return string(consumed), nil
		}
	}
	return "", CodeRequestLineTooLong.Error()
}

// HTTPHandler builds a dispatch.Handler that serves exactly one
// request-line off conn and returns: every HTTP response carries
// Connection: close, so unlike LWPS there is no request loop to run.
func HTTPHandler(backend httpcodec.Backend, requestTimeout time.Duration) Handler {
	return func(ctx context.Context, conn transport.Conn) liberr.Error {
		if requestTimeout > 0 {
			if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
				return err
			}
		}

		line, err := readRequestLine(conn)
		if err != nil {
			return err
		}

		now := time.Now()
		return httpcodec.Handle(ctx, conn, line, backend, now)
	}
}
