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
	"io"
	"sync"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// stdioConn serves exactly one stream session over os.Stdin/os.Stdout,
// used by the stdio worker mode (no --socket configured): the process
// handles one serve-client loop and exits.
type stdioConn struct {
	mu   sync.Mutex
	in   *bufReaderRaw
	out  io.Writer
	send bytes.Buffer
}

// bufReaderRaw adapts any io.Reader (not just net.Conn) to the peekable
// reader tcpConn/udpConn rely on, since bufReader is built over
// bufio.Reader directly.
type bufReaderRaw struct {
	mu sync.Mutex
	r  *bufReaderIO
}

type bufReaderIO struct {
	reader interface{ Read([]byte) (int, error) }
	buf    []byte
}

// NewStdioConn wraps in/out as the single client connection of a stdio
// worker.
func NewStdioConn(in io.Reader, out io.Writer) Conn {
	return &stdioConn{
		in:  &bufReaderRaw{r: &bufReaderIO{reader: in}},
		out: out,
	}
}

func (b *bufReaderIO) fill(n int) liberr.Error {
	for len(b.buf) < n {
		chunk := make([]byte, 4096)
		read, err := b.reader.Read(chunk)
		if read > 0 {
			b.buf = append(b.buf, chunk[:read]...)
		}
		if err != nil {
			if read > 0 && len(b.buf) >= n {
				break
			}
			return classifyIOError(err)
		}
	}
	return nil
}

func (c *stdioConn) Peek(n int) ([]byte, liberr.Error) {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()

	if err := c.in.r.fill(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.in.r.buf[:n])
	return out, nil
}

func (c *stdioConn) ReadN(n int) ([]byte, liberr.Error) {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()

	if err := c.in.r.fill(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.in.r.buf[:n])
	c.in.r.buf = c.in.r.buf[n:]
	return out, nil
}

func (c *stdioConn) Write(p []byte) liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send.Write(p)
	return nil
}

func (c *stdioConn) Send() liberr.Error {
	c.mu.Lock()
	buf := c.send.Bytes()
	c.send.Reset()
	c.mu.Unlock()

	if len(buf) == 0 {
		return nil
	}
	if _, err := c.out.Write(buf); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func (c *stdioConn) SetDeadline(t time.Time) liberr.Error { return nil }
func (c *stdioConn) Datagram() bool                       { return false }

func (c *stdioConn) Duplicate() (Conn, liberr.Error) {
	return nil, CodeIOFailure.Errorf("the stdio connection is singular and cannot be duplicated")
}

func (c *stdioConn) Close() liberr.Error {
	if closer, ok := c.out.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return classifyIOError(err)
		}
	}
	return nil
}
