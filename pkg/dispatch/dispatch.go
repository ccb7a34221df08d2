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

// Package dispatch picks, from the first byte an accepted connection
// offers, which wire protocol will serve it. A connection is peeked
// exactly once; the matched Handler then owns the connection for as
// long as it takes to serve it.
package dispatch

import (
	"context"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/logger"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// Handler serves one accepted connection whose protocol has already
// been identified. A stream protocol loops internally, reading and
// answering frames until the peer closes the connection or the
// session timeout elapses; a single-shot protocol serves one request
// and returns. Either way the caller closes conn once Handler returns.
type Handler func(ctx context.Context, conn transport.Conn) liberr.Error

// Table maps a connection's leading byte to the Handler that
// recognizes it.
type Table map[byte]Handler

// Dispatch peeks the first byte of conn and invokes the Handler table
// registers for it. An unrecognized byte is logged and reported as an
// error without consuming anything from conn beyond the peek.
func Dispatch(ctx context.Context, conn transport.Conn, table Table, log logger.Logger) liberr.Error {
	hdr, err := conn.Peek(1)
	if err != nil {
		return err
	}

	handler, ok := table[hdr[0]]
	if !ok {
		if log != nil {
			log.Error("unrecognized protocol header byte", logger.Fields{"byte": hdr[0]})
		}
		return CodeUnrecognizedProtocol.Errorf("%#x", hdr[0])
	}

	return handler(ctx, conn)
}
