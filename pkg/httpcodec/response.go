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

package httpcodec

import (
	"fmt"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
	"github.com/fschiettecatte/mps/pkg/transport"
)

// StatusText mirrors the fixed set of statuses this codec ever emits.
func StatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown"
	}
}

// ContentType returns the media type emitted for a format, or rawMime for
// FormatRaw retrieval bodies whose type comes from the SPI item itself.
func ContentType(f Format, rawMime string) string {
	switch f {
	case FormatRSS:
		return "application/rss+xml"
	case FormatXML:
		return "text/xml"
	case FormatJSON:
		return "text/x-json"
	case FormatRuby:
		return "text/x-ruby"
	case FormatPython:
		return "text/x-python"
	case FormatRaw:
		if rawMime != "" {
			return rawMime
		}
		return "application/octet-stream"
	default:
		return "text/plain"
	}
}

const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// WriteResponse stages one HTTP/1.1 response onto conn's send buffer: the
// fixed header block §4.4 requires, followed by body. It then flushes the
// buffer with conn.Send().
func WriteResponse(conn transport.Conn, status int, contentType string, body []byte, now time.Time) liberr.Error {
	header := fmt.Sprintf(
		"HTTP/1.1 %d %s\r\n"+
			"Date: %s\r\n"+
			"Server: mps\r\n"+
			"Last-Modified: %s\r\n"+
			"Connection: close\r\n"+
			"Content-Type: %s\r\n"+
			"Content-Length: %d\r\n"+
			"\r\n",
		status, StatusText(status),
		now.UTC().Format(dateLayout),
		now.UTC().Format(dateLayout),
		contentType,
		len(body),
	)

	if err := conn.Write([]byte(header)); err != nil {
		return err
	}
	if len(body) > 0 {
		if err := conn.Write(body); err != nil {
			return err
		}
	}
	return conn.Send()
}
