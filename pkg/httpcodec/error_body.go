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

// EncodeErrorRSS wraps a CodeError and a human-readable reason in the RSS
// error body every failure path (admission rejection, SPI failure,
// malformed request) uses regardless of which format the request asked
// for — §7 requires error bodies to be RSS-wrapped.
func EncodeErrorRSS(code liberr.CodeError, reason string) []byte {
	return []byte(fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<rss version="2.0"><channel>`+"\n"+
			`  <error>`+"\n"+
			`    <code>%d</code>`+"\n"+
			`    <message>%s</message>`+"\n"+
			`    <reason>%s</reason>`+"\n"+
			`  </error>`+"\n"+
			`</channel></rss>`+"\n",
		code.Uint16(), EscapeXML(code.Message()), EscapeXML(reason),
	))
}

// WriteError writes a complete RSS-wrapped error response for status and
// code, with reason folded into the body text.
func WriteError(conn transport.Conn, status int, code liberr.CodeError, reason string, now time.Time) liberr.Error {
	body := EncodeErrorRSS(code, reason)
	return WriteResponse(conn, status, ContentType(FormatRSS, ""), body, now)
}
